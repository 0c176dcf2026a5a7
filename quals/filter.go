package quals

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled qualifier predicate. Filter programs see each
// qualifier as an environment of name, kvar, body, params and nparams.
type Filter struct {
	prg *vm.Program
}

// CompileFilter compiles a filter program, e.g.
//
//	nparams <= 2 && body contains ">="
func CompileFilter(src string) (*Filter, error) {
	prg, err := expr.Compile(src, expr.Env(filterEnv(Qualifier{})), expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &Filter{prg: prg}, nil
}

// Keep reports whether q passes the filter.
func (f *Filter) Keep(q Qualifier) (bool, error) {
	res, err := expr.Run(f.prg, filterEnv(q))
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T", res)
	}
	return b, nil
}

// Apply keeps the qualifiers passing the filter, preserving order and
// names.
func (f *Filter) Apply(qs []Qualifier) ([]Qualifier, error) {
	res := make([]Qualifier, 0, len(qs))
	for _, q := range qs {
		keep, err := f.Keep(q)
		if err != nil {
			return nil, err
		}
		if keep {
			res = append(res, q)
		}
	}
	return res, nil
}

func filterEnv(q Qualifier) map[string]any {
	ps := make([]string, len(q.Params))
	for i, p := range q.Params {
		ps[i] = string(p.Sym)
	}
	body := ""
	if q.Body != nil {
		body = q.Body.String()
	}
	return map[string]any{
		"name":    q.Name,
		"kvar":    q.Loc,
		"body":    body,
		"params":  ps,
		"nparams": len(q.Params),
	}
}
