// Package combo enumerates the Cartesian product of parameter value lists.
package combo

import (
	"strings"

	"github.com/philipparndt/paramexport/internal/param"
)

// Product returns every combination of one value per input list, in declared
// order with the last list varying fastest. The result is fully materialized
// because the total count sizes the progress indicator before work starts.
// Duplicate values produce duplicate combinations.
func Product(lists [][]param.Value) [][]param.Value {
	if len(lists) == 0 {
		return nil
	}

	total := 1
	for _, l := range lists {
		total *= len(l)
	}
	if total == 0 {
		return nil
	}

	combos := make([][]param.Value, 0, total)
	current := make([]param.Value, len(lists))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(lists) {
			combos = append(combos, append([]param.Value(nil), current...))
			return
		}
		for _, v := range lists[depth] {
			current[depth] = v
			walk(depth + 1)
		}
	}
	walk(0)

	return combos
}

// Describe renders one combination as "width=10.0, height=1.0" for progress
// notes and logs.
func Describe(names []string, combo []param.Value) string {
	pairs := make([]string, 0, len(names))
	for i, name := range names {
		if i >= len(combo) {
			break
		}
		pairs = append(pairs, name+"="+combo[i].String())
	}
	return strings.Join(pairs, ", ")
}
