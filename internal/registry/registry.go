// ABOUTME: Thread-safe registry of candidate descriptors for autodetection.
// ABOUTME: Manages registration and klass/rank filtered candidate queries.

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/2389/autodetect/internal/element"
)

// ErrDuplicateCandidate indicates a descriptor with the same name is already registered.
var ErrDuplicateCandidate = errors.New("candidate already registered")

// ErrInvalidDescriptor indicates a descriptor is missing its name or factory.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// Descriptor is an immutable snapshot of one registered implementation.
type Descriptor struct {
	Name        string
	Klass       []string // capability-family tags, e.g. "Source", "Video"
	Rank        int
	Description string
	Factory     element.Factory
}

// HasKlass reports whether the descriptor carries every given tag.
func (d Descriptor) HasKlass(tags ...string) bool {
	for _, tag := range tags {
		if !slices.Contains(d.Klass, tag) {
			return false
		}
	}
	return true
}

// clone returns a copy that shares no slices with d.
func (d Descriptor) clone() Descriptor {
	d.Klass = slices.Clone(d.Klass)
	return d
}

// Predicate selects descriptors belonging to a capability family.
type Predicate func(Descriptor) bool

// KlassPredicate matches descriptors that carry all of the given tags.
func KlassPredicate(tags ...string) Predicate {
	tags = slices.Clone(tags)
	return func(d Descriptor) bool {
		return d.HasKlass(tags...)
	}
}

// Query lists candidates. Results are unordered and the call has no side effects.
type Query interface {
	Candidates(pred Predicate, minRank int) []Descriptor
}

// Registry stores descriptors by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
	logger  *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]Descriptor),
		logger:  logger,
	}
}

// Register validates and stores a descriptor.
// Returns ErrDuplicateCandidate if the name is taken.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if d.Factory == nil {
		return fmt.Errorf("%w: %s has no factory", ErrInvalidDescriptor, d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCandidate, d.Name)
	}
	r.entries[d.Name] = d.clone()

	r.logger.Info("candidate registered",
		"name", d.Name,
		"klass", d.Klass,
		"rank", d.Rank,
		"total_candidates", len(r.entries),
	)
	return nil
}

// Unregister removes a descriptor. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return
	}
	delete(r.entries, name)

	r.logger.Info("candidate unregistered",
		"name", name,
		"total_candidates", len(r.entries),
	)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.entries[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Candidates returns copies of every descriptor matching pred with a rank of at least minRank.
// A nil predicate matches everything.
func (r *Registry) Candidates(pred Predicate, minRank int) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		if d.Rank < minRank {
			continue
		}
		if pred != nil && !pred(d) {
			continue
		}
		result = append(result, d.clone())
	}
	return result
}
