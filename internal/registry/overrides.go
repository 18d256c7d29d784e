// ABOUTME: Rank overrides loaded from TOML and applied on top of a Query.
// ABOUTME: Lets operators promote or demote candidates without re-registering them.

package registry

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

// RankOverrides maps candidate names to replacement ranks.
type RankOverrides map[string]int

type overridesFile struct {
	Ranks map[string]int `toml:"ranks"`
}

// LoadRankOverrides reads a TOML file with a [ranks] table.
func LoadRankOverrides(path string) (RankOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rank overrides: %w", err)
	}
	return ParseRankOverrides(string(data))
}

// ParseRankOverrides decodes TOML content with a [ranks] table.
func ParseRankOverrides(data string) (RankOverrides, error) {
	var f overridesFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rank overrides: %w", err)
	}
	for name, rank := range f.Ranks {
		if rank < 0 {
			return nil, fmt.Errorf("rank for %q must not be negative, got %d", name, rank)
		}
	}
	return RankOverrides(f.Ranks), nil
}

// OverrideQuery applies rank overrides before the minimum rank filter,
// so an override can both admit and exclude candidates.
type OverrideQuery struct {
	Base  Query
	Ranks RankOverrides
}

// Candidates implements Query.
func (q OverrideQuery) Candidates(pred Predicate, minRank int) []Descriptor {
	all := q.Base.Candidates(pred, math.MinInt)

	result := make([]Descriptor, 0, len(all))
	for _, d := range all {
		if rank, ok := q.Ranks[d.Name]; ok {
			d.Rank = rank
		}
		if d.Rank >= minRank {
			result = append(result, d)
		}
	}
	return result
}
