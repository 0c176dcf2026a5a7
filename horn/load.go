package horn

import (
	"fmt"
	"os"
	"sort"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"

	"github.com/go-air/hornq/sexp"
	"github.com/go-air/hornq/terms"
)

// The constraint file is a YAML (or JSON) document with binds,
// constraints, well-formedness sorts and literal sorts. Refinement
// predicates are SMT-LIB s-expression strings; k-variable applications
// are structured, not embedded in the predicate text.

type fileDoc struct {
	Binds       []fileBind        `yaml:"binds"`
	Constraints []fileCon         `yaml:"constraints"`
	Wf          map[string]string `yaml:"wf"`
	Literals    map[string]string `yaml:"literals"`
}

type fileBind struct {
	ID   int      `yaml:"id"`
	Sym  string   `yaml:"sym"`
	Reft fileReft `yaml:"reft"`
}

type fileCon struct {
	ID  int      `yaml:"id"`
	Env []int    `yaml:"env"`
	LHS fileReft `yaml:"lhs"`
	RHS fileReft `yaml:"rhs"`
}

type fileReft struct {
	Sort  string     `yaml:"sort"`
	VV    string     `yaml:"vv"`
	Pred  string     `yaml:"pred"`
	KVars []fileKApp `yaml:"kvars"`
}

type fileKApp struct {
	K     string            `yaml:"k"`
	Subst map[string]string `yaml:"subst"`
}

// LoadFile reads an FInfo document. When patch is non-empty it is read
// as a JSON merge patch and applied to the document before decoding,
// allowing experiment overrides without editing the input.
func LoadFile(path, patch string) (*FInfo, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if patch != "" {
		p, err := os.ReadFile(patch)
		if err != nil {
			return nil, err
		}
		if d, err = mergePatch(d, p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, patch, err)
		}
	}
	fi, err := Load(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	return fi, nil
}

func mergePatch(doc, patch []byte) ([]byte, error) {
	dj, err := yaml.YAMLToJSON(doc)
	if err != nil {
		return nil, err
	}
	pj, err := yaml.YAMLToJSON(patch)
	if err != nil {
		return nil, err
	}
	return jsonpatch.MergePatch(dj, pj)
}

// Load decodes an FInfo document.
func Load(d []byte) (*FInfo, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(d, &doc); err != nil {
		return nil, err
	}
	fi := &FInfo{
		Binds:   map[BindID]Bind{},
		Cons:    map[int]SubC{},
		WfSorts: map[terms.KVar]terms.Sort{},
		Lits:    map[terms.Symbol]terms.Sort{},
	}
	for k, s := range doc.Wf {
		fi.WfSorts[terms.KVar(k)] = terms.ParseSort(s)
	}
	for s, so := range doc.Literals {
		fi.Lits[terms.Symbol(s)] = terms.ParseSort(so)
	}
	for _, fb := range doc.Binds {
		if fb.Sym == "" {
			return nil, fmt.Errorf("bind %d: no symbol", fb.ID)
		}
		sr, err := decodeReft(&fb.Reft)
		if err != nil {
			return nil, fmt.Errorf("bind %d: %w", fb.ID, err)
		}
		if _, dup := fi.Binds[BindID(fb.ID)]; dup {
			return nil, fmt.Errorf("bind %d: duplicate id", fb.ID)
		}
		fi.Binds[BindID(fb.ID)] = Bind{Sym: terms.Symbol(fb.Sym), SReft: sr}
	}
	for _, fc := range doc.Constraints {
		lhs, err := decodeReft(&fc.LHS)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: lhs: %w", fc.ID, err)
		}
		rhs, err := decodeReft(&fc.RHS)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: rhs: %w", fc.ID, err)
		}
		c := SubC{ID: fc.ID, LHS: lhs, RHS: rhs}
		for _, id := range fc.Env {
			c.Env = append(c.Env, BindID(id))
		}
		if _, dup := fi.Cons[fc.ID]; dup {
			return nil, fmt.Errorf("constraint %d: duplicate id", fc.ID)
		}
		fi.Cons[fc.ID] = c
	}
	return fi, nil
}

func decodeReft(fr *fileReft) (SortedReft, error) {
	vv := terms.VV
	if fr.VV != "" {
		vv = terms.Symbol(fr.VV)
	}
	var conjs []*terms.Expr
	if fr.Pred != "" {
		e, err := sexp.ReadString(fr.Pred)
		if err != nil {
			return SortedReft{}, err
		}
		conjs = append(conjs, e)
	}
	for _, fk := range fr.KVars {
		if fk.K == "" {
			return SortedReft{}, fmt.Errorf("k-variable application with no name")
		}
		su := terms.Subst{}
		keys := make([]string, 0, len(fk.Subst))
		for k := range fk.Subst {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			img, err := sexp.ReadString(fk.Subst[k])
			if err != nil {
				return SortedReft{}, fmt.Errorf("substitution %s: %w", k, err)
			}
			su = su.Bind(terms.Symbol(k), img)
		}
		conjs = append(conjs, terms.KApp(terms.KVar(fk.K), su))
	}
	return SortedReft{
		Sort: terms.ParseSort(fr.Sort),
		Reft: Reft{VV: vv, Expr: terms.And(conjs...)},
	}, nil
}
