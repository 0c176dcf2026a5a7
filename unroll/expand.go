package unroll

import (
	"github.com/go-air/hornq/debug"
)

// Expand converts a disjunctive interpolation query into the finite set
// of tree interpolation queries implicit in it, one per combination of
// disjunctive alternatives. All results share the original cut structure
// and Info tagging: an And lifted through an Or takes the Or's Info.
//
// An Or with no alternatives admits no combination, so any query
// containing one expands to nothing. Enumeration order is fixed by kid
// order, which keeps downstream candidate accumulation deterministic.
func Expand(n *Node) []*Node {
	res := expand(n)
	if debug.Expand() {
		debug.Logf("expanded to %d tree quer(ies)\n", len(res))
	}
	return res
}

func expand(n *Node) []*Node {
	if n.Kind == OrNode {
		var res []*Node
		for _, kid := range n.Kids {
			for _, x := range expand(kid) {
				res = append(res, &Node{
					Kind: AndNode,
					Info: n.Info,
					Root: x.Root,
					Kids: x.Kids,
				})
			}
		}
		return res
	}
	alts := make([][]*Node, len(n.Kids))
	for i, kid := range n.Kids {
		alts[i] = expand(kid)
		if len(alts[i]) == 0 {
			return nil
		}
	}
	var res []*Node
	idx := make([]int, len(alts))
	for {
		kids := make([]*Node, len(alts))
		for i, a := range alts {
			kids[i] = a[idx[i]]
		}
		res = append(res, &Node{Kind: AndNode, Info: n.Info, Root: n.Root, Kids: kids})
		j := len(idx) - 1
		for ; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(alts[j]) {
				break
			}
			idx[j] = 0
		}
		if j < 0 {
			return res
		}
	}
}
