package horn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-air/hornq/terms"
)

const sumDoc = `
binds:
  - id: 1
    sym: s
    reft:
      sort: int
      vv: w
      kvars:
        - k: K
          subst: {k: "(- k 1)"}
constraints:
  - id: 1
    lhs: {sort: int, vv: v, pred: "(and (<= k 0) (= v 0))"}
    rhs: {sort: int, vv: v, kvars: [{k: K}]}
  - id: 2
    env: [1]
    lhs: {sort: int, vv: v, pred: "(and (> k 0) (= v (+ s k)))"}
    rhs: {sort: int, vv: v, kvars: [{k: K}]}
  - id: 3
    lhs: {sort: int, vv: v, kvars: [{k: K}]}
    rhs: {sort: int, vv: v, pred: "(>= v k)"}
wf:
  K: int
literals:
  k: int
`

func TestLoad(t *testing.T) {
	fi, err := Load([]byte(sumDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(fi.Binds) != 1 || len(fi.Cons) != 3 {
		t.Fatalf("binds=%d cons=%d", len(fi.Binds), len(fi.Cons))
	}
	b := fi.Binds[1]
	if b.Sym != "s" || b.SReft.Reft.VV != "w" {
		t.Errorf("bind %v", b)
	}
	if b.SReft.Reft.Expr.Kind != terms.KAppKind {
		t.Errorf("bind reft %s", b.SReft.Reft.Expr)
	}
	if fi.WfSorts["K"].Kind != terms.IntSort {
		t.Error("wf sort")
	}
	cls, err := Normalize(fi)
	if err != nil {
		t.Fatal(err)
	}
	rs := cls.KCs["K"]
	if len(rs.Rec) != 1 || len(rs.NonRec) != 1 || len(cls.Queries) != 1 {
		t.Errorf("rec=%d nonrec=%d queries=%d", len(rs.Rec), len(rs.NonRec), len(cls.Queries))
	}
}

func TestLoadBadPred(t *testing.T) {
	_, err := Load([]byte(`
constraints:
  - id: 1
    lhs: {pred: "(>= v"}
    rhs: {pred: "true"}
`))
	if err == nil {
		t.Fatal("unbalanced predicate accepted")
	}
}

func TestLoadDuplicateConstraint(t *testing.T) {
	_, err := Load([]byte(`
constraints:
  - id: 1
    lhs: {pred: "true"}
    rhs: {pred: "true"}
  - id: 1
    lhs: {pred: "true"}
    rhs: {pred: "true"}
`))
	if err == nil {
		t.Fatal("duplicate constraint id accepted")
	}
}

func TestLoadFileMergePatch(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "sum.yaml")
	if err := os.WriteFile(doc, []byte(sumDoc), 0644); err != nil {
		t.Fatal(err)
	}
	patch := filepath.Join(dir, "override.yaml")
	if err := os.WriteFile(patch, []byte(`{"wf": {"K": "real"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	fi, err := LoadFile(doc, patch)
	if err != nil {
		t.Fatal(err)
	}
	if fi.WfSorts["K"].Kind != terms.RealSort {
		t.Errorf("patch not applied: %v", fi.WfSorts["K"])
	}
}
