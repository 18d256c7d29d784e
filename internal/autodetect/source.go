// ABOUTME: Facade that selects, binds and drives the best available video source.
// ABOUTME: Runs detection on NULL->READY and falls back to a placeholder on READY->NULL.

package autodetect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/registry"
)

// DefaultFilterCaps accepts raw YUV and RGB video.
var DefaultFilterCaps = caps.MustParse("video/x-raw-yuv; video/x-raw-rgb")

// DefaultKlass is the capability family autodetected by default.
var DefaultKlass = []string{"Source", "Video"}

// placeholderName is the instance name of the placeholder bound while inactive.
const placeholderName = "tempsrc"

// Phase is the lifecycle phase of a Source.
type Phase int32

const (
	PhaseInactive Phase = iota
	PhaseActivating
	PhaseActive
	PhaseDeactivating
)

func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseActivating:
		return "activating"
	case PhaseActive:
		return "active"
	case PhaseDeactivating:
		return "deactivating"
	default:
		return "unknown"
	}
}

// Option configures a Source.
type Option func(*Source)

// WithPredicate sets the capability-family predicate used to query candidates.
func WithPredicate(pred registry.Predicate) Option {
	return func(s *Source) { s.predicate = pred }
}

// WithMinRank sets the minimum rank a candidate needs to be considered.
func WithMinRank(rank int) Option {
	return func(s *Source) { s.minRank = rank }
}

// WithFilterCaps sets the initial filter. Nil disables filtering.
func WithFilterCaps(c *caps.Caps) Option {
	return func(s *Source) { s.filter = c.Copy() }
}

// WithMessageSink sets where warnings and errors are posted.
func WithMessageSink(sink MessageSink) Option {
	return func(s *Source) { s.sink = sink }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// Source is the autodetecting facade. Lifecycle calls are expected from one
// controller at a time; the mutex only keeps misuse from racing.
type Source struct {
	mu        sync.Mutex
	name      string
	query     registry.Query
	predicate registry.Predicate
	minRank   int
	filter    *caps.Caps
	bound     element.Component
	endpoint  *Endpoint
	phase     atomic.Int32
	report    *ProbeReport
	sink      MessageSink
	logger    *slog.Logger
}

// New creates a Source querying candidates from query. An empty name gets a generated one.
// The Source starts inactive with a placeholder bound to its endpoint.
func New(name string, query registry.Query, opts ...Option) *Source {
	if name == "" {
		name = "autovideosrc-" + uuid.NewString()[:8]
	}

	s := &Source{
		name:      name,
		query:     query,
		predicate: registry.KlassPredicate(DefaultKlass...),
		minRank:   registry.RankMarginal,
		filter:    DefaultFilterCaps.Copy(),
		sink:      discardSink{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = discardSink{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.bound = element.NewPlaceholder(placeholderName)
	s.endpoint = newEndpoint("src", s.bound)
	return s
}

// Name returns the facade name.
func (s *Source) Name() string {
	return s.name
}

// Endpoint returns the stable connection point. The same value is returned for the Source's lifetime.
func (s *Source) Endpoint() *Endpoint {
	return s.endpoint
}

// Phase returns the current lifecycle phase.
func (s *Source) Phase() Phase {
	return Phase(s.phase.Load())
}

// Bound returns the component currently bound, which may be a placeholder.
func (s *Source) Bound() element.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// LastReport returns the probe report of the most recent activation, or nil.
func (s *Source) LastReport() *ProbeReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// FilterCaps returns a copy of the configured filter, or nil.
func (s *Source) FilterCaps() *caps.Caps {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Copy()
}

// SetFilterCaps replaces the filter. Returns ErrFilterLocked while a real component is bound.
func (s *Source) SetFilterCaps(c *caps.Caps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !element.IsPlaceholder(s.bound) {
		return fmt.Errorf("%w: %s is bound", ErrFilterLocked, s.bound.Name())
	}
	s.filter = c.Copy()
	return nil
}

// Activate runs NULL->READY.
func (s *Source) Activate(ctx context.Context) error {
	return s.ChangeState(ctx, element.NullToReady)
}

// Deactivate runs READY->NULL.
func (s *Source) Deactivate(ctx context.Context) error {
	return s.ChangeState(ctx, element.ReadyToNull)
}

// ChangeState performs one lifecycle transition. NULL->READY detects and binds
// a candidate before the transition reaches it; every other transition is
// delegated to the bound component. After READY->NULL, and after any failed
// activation, a fresh placeholder is bound.
func (s *Source) ChangeState(ctx context.Context, t element.Transition) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t == element.NullToReady {
		if err := s.detectLocked(ctx); err != nil {
			return err
		}
	}
	if t == element.ReadyToNull {
		s.phase.Store(int32(PhaseDeactivating))
	}

	var err error
	if s.bound.State() != t.To {
		err = s.bound.SetState(t.To)
	}
	if err != nil {
		s.logger.Warn("bound component failed transition",
			"source", s.name,
			"component", s.bound.Name(),
			"transition", t.String(),
			"error", err,
		)
	}

	switch {
	case t == element.ReadyToNull:
		s.resetLocked()
	case t == element.NullToReady && err != nil:
		s.resetLocked()
	case t == element.NullToReady:
		s.phase.Store(int32(PhaseActive))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	return nil
}

// Close tears down the bound component and binds a fresh placeholder.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.clearLocked()
	s.bindPlaceholderLocked()
	return err
}

// detectLocked queries, ranks, probes and binds. On error the placeholder is bound.
func (s *Source) detectLocked(ctx context.Context) error {
	// The previous component is gone before the first candidate is tried.
	s.resetLocked()
	s.phase.Store(int32(PhaseActivating))
	log := s.logger.With("source", s.name, "detection_id", uuid.NewString())

	log.Debug("querying candidates", "min_rank", s.minRank)
	ranked := registry.Sort(s.query.Candidates(s.predicate, s.minRank))

	prober := &Prober{Owner: s.name, Filter: s.filter, Logger: log}
	report, err := prober.Probe(ctx, ranked)
	s.report = report
	if err != nil {
		s.resetLocked()
		return fmt.Errorf("detecting source: %w", err)
	}

	choice, err := s.choose(report, log)
	if err != nil {
		s.resetLocked()
		return err
	}

	log.Debug("re-assigning endpoint", "component", choice.Name())
	if err := s.endpoint.retarget(choice); err != nil {
		log.Error("endpoint retarget failed", "component", choice.Name(), "error", err)
		s.post(Message{Kind: MessageError, Source: s.name, Err: err})
		if stopErr := choice.SetState(element.StateNull); stopErr != nil {
			log.Warn("stopping rejected component", "error", stopErr)
		}
		if relErr := element.Release(choice); relErr != nil {
			log.Warn("releasing rejected component", "error", relErr)
		}
		s.resetLocked()
		return err
	}
	s.bound = choice

	log.Info("=== SOURCE BOUND ===",
		"component", choice.Name(),
		"placeholder", element.IsPlaceholder(choice),
		"tried", len(report.Outcomes),
	)
	return nil
}

// clearLocked drives the bound component to NULL and releases it. The
// endpoint keeps pointing at it until the next retarget.
func (s *Source) clearLocked() error {
	var err error
	if s.bound.State() != element.StateNull {
		err = s.bound.SetState(element.StateNull)
	}
	if relErr := element.Release(s.bound); err == nil {
		err = relErr
	}
	return err
}

// resetLocked replaces the bound component with a fresh placeholder.
func (s *Source) resetLocked() {
	if err := s.clearLocked(); err != nil {
		s.logger.Warn("tearing down component", "source", s.name, "component", s.bound.Name(), "error", err)
	}
	s.bindPlaceholderLocked()
}

// bindPlaceholderLocked binds a fresh placeholder without touching the old component.
func (s *Source) bindPlaceholderLocked() {
	ph := element.NewPlaceholder(placeholderName)
	// A placeholder always has output, so this cannot fail.
	_ = s.endpoint.retarget(ph)
	s.bound = ph
	s.phase.Store(int32(PhaseInactive))
}

func (s *Source) post(msg Message) {
	s.sink.Post(msg)
}
