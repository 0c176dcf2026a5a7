package quals

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-air/hornq/terms"
	"github.com/go-air/hornq/unroll"
)

func TestExtractRehydrates(t *testing.T) {
	// tree interp for one unrolled occurrence of K: the fresh symbols
	// VV0 and SUB0 stand in for VV and k
	st := unroll.NewState(map[terms.Symbol]terms.Sort{"k": terms.Int()})
	st.Created["VV0"] = terms.Int()
	st.Created["SUB0"] = terms.Int()
	st.Subs["VV0"] = terms.VV
	st.Subs["SUB0"] = "k"

	ti := &unroll.Node{
		Kind: unroll.AndNode,
		Root: terms.False(),
		Kids: []*unroll.Node{{
			Kind: unroll.AndNode,
			Info: &unroll.Info{K: "K", Sym: "s"},
			Root: terms.Rel(terms.Ge, terms.Var("s"), terms.Var("SUB0")),
		}},
	}
	sol := Solution{}
	Extract(ti, st, sol)
	if len(sol["K"]) != 1 {
		t.Fatalf("candidates %v", sol)
	}
	if got := sol["K"][0].String(); got != "(>= VV k)" {
		t.Errorf("got %s", got)
	}
}

func TestExtractOrder(t *testing.T) {
	st := unroll.NewState(map[terms.Symbol]terms.Sort{})
	kid := func(name string) *unroll.Node {
		return &unroll.Node{
			Kind: unroll.AndNode,
			Info: &unroll.Info{K: "K", Sym: terms.VV},
			Root: terms.Rel(terms.Gt, terms.Var(terms.Symbol(name)), terms.FromInt(0)),
		}
	}
	ti := &unroll.Node{
		Kind: unroll.AndNode,
		Root: terms.False(),
		Kids: []*unroll.Node{kid("a"), kid("b")},
	}
	sol := Solution{}
	Extract(ti, st, sol)
	if len(sol["K"]) != 2 {
		t.Fatalf("candidates %v", sol)
	}
	if sol["K"][0].String() != "(> a 0)" || sol["K"][1].String() != "(> b 0)" {
		t.Errorf("top-down order lost: %v", sol["K"])
	}
}

func TestNumberify(t *testing.T) {
	e := terms.Rel(terms.Eq, terms.Var("x"), terms.Var("42"))
	got := Numberify(e)
	if got.String() != "(= x 42)" {
		t.Errorf("got %s", got)
	}
	if got.Args[1].Kind != terms.IntKind {
		t.Errorf("literal-looking symbol kept as variable: %s", got.Args[1])
	}
	// input untouched
	if e.Args[1].Kind != terms.VarKind {
		t.Error("input mutated")
	}
	if free := got.FreeSymbols(nil); len(free) != 1 || !free["x"] {
		t.Errorf("free %v", free)
	}
}

func TestFromSolution(t *testing.T) {
	sol := Solution{
		"K": {
			terms.And(
				terms.Rel(terms.Ge, terms.Var(terms.VV), terms.Var("k")),
				terms.Rel(terms.Gt, terms.Var("k"), terms.FromInt(0)),
			),
		},
	}
	symSorts := map[terms.Symbol]terms.Sort{"k": terms.Int()}
	kSorts := map[terms.KVar]terms.Sort{"K": terms.Int()}
	qs := FromSolution(sol, symSorts, kSorts)
	if len(qs) != 2 {
		t.Fatalf("got %d qualifiers: %v", len(qs), qs)
	}
	q0 := qs[0]
	if q0.Name != "q0" || q0.Body.String() != "(>= VV k)" {
		t.Errorf("q0 = %s", q0)
	}
	want := []Param{{Sym: terms.VV, Sort: terms.Int()}, {Sym: "k", Sort: terms.Int()}}
	if diff := cmp.Diff(want, q0.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
}

func TestFromSolutionDedups(t *testing.T) {
	p := terms.Rel(terms.Ge, terms.Var(terms.VV), terms.FromInt(0))
	sol := Solution{
		"K1": {p, terms.Or(p.Clone(), terms.Rel(terms.Lt, terms.Var(terms.VV), terms.FromInt(0)))},
		"K2": {p.Clone()},
	}
	qs := FromSolution(sol, nil, nil)
	if len(qs) != 2 {
		t.Fatalf("got %d qualifiers: %v", len(qs), qs)
	}
	// the shared atom belongs to the first k-variable in name order
	if qs[0].Loc != "K1" {
		t.Errorf("loc %s", qs[0].Loc)
	}
}

// extraction output is deterministic and idempotent
func TestFromSolutionDeterministic(t *testing.T) {
	sol := Solution{
		"K2": {terms.Rel(terms.Gt, terms.Var("b"), terms.FromInt(0))},
		"K1": {terms.Rel(terms.Gt, terms.Var("a"), terms.FromInt(0))},
	}
	render := func(qs []Qualifier) string {
		var sb strings.Builder
		for _, q := range qs {
			sb.WriteString(q.String())
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	a := render(FromSolution(sol, nil, nil))
	b := render(FromSolution(sol, nil, nil))
	if a != b {
		t.Errorf("non-deterministic output:\n%s\nvs\n%s", a, b)
	}
	if !strings.HasPrefix(a, "q0 (a:Int): (> a 0)") {
		t.Errorf("k-variable order lost:\n%s", a)
	}
}

func TestFromSolutionSkipsTrivial(t *testing.T) {
	sol := Solution{"K": {terms.True(), terms.False()}}
	if qs := FromSolution(sol, nil, nil); len(qs) != 0 {
		t.Errorf("trivial candidates produced qualifiers: %v", qs)
	}
}

func TestFilter(t *testing.T) {
	qs := FromSolution(Solution{
		"K": {
			terms.Rel(terms.Ge, terms.Var(terms.VV), terms.Var("k")),
			terms.Rel(terms.Gt, terms.Var("a"), terms.Bin(terms.Plus, terms.Var("b"), terms.Var("c"))),
		},
	}, nil, nil)
	f, err := CompileFilter("nparams <= 2")
	if err != nil {
		t.Fatal(err)
	}
	kept, err := f.Apply(qs)
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept %v", kept)
	}
	if kept[0].Body.String() != "(>= VV k)" {
		t.Errorf("kept %s", kept[0])
	}
	if _, err := CompileFilter("nparams +"); err == nil {
		t.Error("bad filter compiled")
	}
}

func TestDiff(t *testing.T) {
	mk := func(bodies ...string) []Qualifier {
		var res []Qualifier
		for i, b := range bodies {
			res = append(res, Qualifier{
				Name: "q" + string(rune('0'+i)),
				Body: terms.Rel(terms.Ge, terms.Var(terms.Symbol(b)), terms.FromInt(0)),
			})
		}
		return res
	}
	lines := Diff(mk("a", "b"), mk("a", "c"))
	var minus, plus, same int
	for _, ln := range lines {
		switch {
		case strings.HasPrefix(ln, "- "):
			minus++
		case strings.HasPrefix(ln, "+ "):
			plus++
		default:
			same++
		}
	}
	if minus != 1 || plus != 1 || same != 1 {
		t.Errorf("diff -%d +%d =%d: %v", minus, plus, same, lines)
	}
}
