package quals

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares two qualifier listings line by line, for regression
// checks between inference runs. Each distinct line maps to a rune so
// the diff works over whole qualifiers rather than characters.
func Diff(from, to []Qualifier) []string {
	lineMap := map[string]rune{}
	runeMap := map[rune]string{}
	mapLines := func(qs []Qualifier) []rune {
		res := make([]rune, len(qs))
		for i, q := range qs {
			// names are positional; compare bodies and params only
			line := dedupKey(q)
			r, ok := lineMap[line]
			if !ok {
				r = rune(len(lineMap) + 1)
				lineMap[line] = r
				runeMap[r] = q.String()
			}
			res[i] = r
		}
		return res
	}
	fromRunes := mapLines(from)
	toRunes := mapLines(to)

	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	var res []string
	for i := range diffs {
		diff := &diffs[i]
		var prefix string
		switch diff.Type {
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffInsert:
			prefix = "+ "
		default:
			prefix = "  "
		}
		for _, r := range diff.Text {
			res = append(res, prefix+runeMap[r])
		}
	}
	return res
}
