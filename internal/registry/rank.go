// ABOUTME: Deterministic ordering of candidates by rank and name.
// ABOUTME: Higher rank first; equal ranks resolve by name in descending order.

package registry

import (
	"cmp"
	"slices"
)

// Standard ranks. Candidates below RankMarginal are not autodetected by default.
const (
	RankNone      = 0
	RankMarginal  = 64
	RankSecondary = 128
	RankPrimary   = 256
)

// Compare orders a before b when a is preferred.
func Compare(a, b Descriptor) int {
	if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
		return c
	}
	return cmp.Compare(b.Name, a.Name)
}

// Sort returns the descriptors in preference order. The input is not modified.
func Sort(ds []Descriptor) []Descriptor {
	out := slices.Clone(ds)
	slices.SortStableFunc(out, Compare)
	return out
}
