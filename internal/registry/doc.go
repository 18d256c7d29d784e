// Package registry holds the descriptors of every implementation that can be
// autodetected, and the ordering used to try them.
//
// # Registry
//
// Registry is an injectable, thread-safe store. Nothing in this package is a
// process-wide singleton; hosts create one and pass it as a Query:
//
//	reg := registry.NewRegistry(logger)
//	reg.Register(registry.Descriptor{
//	    Name:    "v4l2src",
//	    Klass:   []string{"Source", "Video"},
//	    Rank:    registry.RankPrimary,
//	    Factory: newV4L2,
//	})
//
// Candidates returns copies, so callers may keep or reorder the result while
// the registry changes underneath.
//
// # Ranking
//
// Sort orders by rank descending and breaks ties by name descending, so
// "zsrc" is tried before "asrc" at equal rank.
//
// # Rank Overrides
//
// A TOML file can replace ranks at query time:
//
//	[ranks]
//	v4l2src = 256
//	videotestsrc = 64
package registry
