package unroll

import (
	"github.com/go-air/hornq/terms"
)

// NodeKind discriminates the two tree node forms.
type NodeKind uint8

const (
	AndNode NodeKind = iota
	OrNode
)

// Info tags a node generated from a k-variable occurrence. Sym names
// the original value-variable-substituted symbol; it drives solution
// extraction.
type Info struct {
	K   terms.KVar
	Sym terms.Symbol
}

// Node is an And/Or interpolation query tree. An And node carries the
// clause body in Root; an Or node has no Root. After interpolation the
// same shape carries interpolants in Root instead (the tree interp);
// the skeleton and Info tags are preserved exactly.
type Node struct {
	Kind NodeKind
	Info *Info
	Root *terms.Expr
	Kids []*Node
}

// Formula emits the single query formula over the tree, marking
// interpolation cut points: And-children of And-nodes are wrapped in an
// Interp marker, Or-children are not. An Or node with no alternatives
// emits false.
func (n *Node) Formula() *terms.Expr {
	switch n.Kind {
	case OrNode:
		ds := make([]*terms.Expr, len(n.Kids))
		for i, kid := range n.Kids {
			ds[i] = kid.Formula()
		}
		return terms.Or(ds...)
	default:
		parts := []*terms.Expr{n.Root}
		for _, kid := range n.Kids {
			f := kid.Formula()
			if kid.Kind == AndNode {
				f = terms.Interp(f)
			}
			parts = append(parts, f)
		}
		return terms.And(parts...)
	}
}

// CountCuts counts Interp markers in a formula. This is the number of
// interpolants the backend must return for it.
func CountCuts(e *terms.Expr) int {
	if e == nil {
		return 0
	}
	n := 0
	if e.Kind == terms.InterpKind {
		n++
	}
	for _, a := range e.Args {
		n += CountCuts(a)
	}
	return n
}

// Cuts counts the cut nodes of the tree itself: And-children of
// And-nodes, recursively. It equals CountCuts(n.Formula()).
func (n *Node) Cuts() int {
	res := 0
	for _, kid := range n.Kids {
		if n.Kind == AndNode && kid.Kind == AndNode {
			res++
		}
		res += kid.Cuts()
	}
	return res
}

// WithInterps pairs the tree with the interpolants returned by the
// backend, in cut-marker emission order (pre-order over cut nodes). The
// root carries no cut; its Root becomes false, the implied interpolant
// of an unsatisfiable query. The input tree is not modified.
func (n *Node) WithInterps(interps []*terms.Expr) (*Node, error) {
	if len(interps) != n.Cuts() {
		return nil, errCutCount(n.Cuts(), len(interps))
	}
	i := 0
	var walk func(x *Node, cut bool) *Node
	walk = func(x *Node, cut bool) *Node {
		res := &Node{Kind: x.Kind, Info: x.Info}
		if x.Kind == AndNode {
			if cut {
				res.Root = interps[i]
				i++
			} else {
				res.Root = terms.False()
			}
		}
		for _, kid := range x.Kids {
			res.Kids = append(res.Kids, walk(kid, x.Kind == AndNode && kid.Kind == AndNode))
		}
		return res
	}
	return walk(n, false), nil
}
