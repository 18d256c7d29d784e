// ABOUTME: Trial-activates ranked candidates one at a time until one reaches READY.
// ABOUTME: Rejected candidates are returned to NULL and released before the next is tried.

package autodetect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/registry"
)

// ProbeResult is the outcome of trying a single candidate.
type ProbeResult int

const (
	ProbeSuccess ProbeResult = iota + 1
	ProbeInstantiationFailed
	ProbeCapabilityMismatch
	ProbeStateTransitionFailed
)

func (r ProbeResult) String() string {
	switch r {
	case ProbeSuccess:
		return "success"
	case ProbeInstantiationFailed:
		return "instantiation_failed"
	case ProbeCapabilityMismatch:
		return "capability_mismatch"
	case ProbeStateTransitionFailed:
		return "state_transition_failed"
	default:
		return "unknown"
	}
}

// ProbeOutcome records what happened to one candidate.
type ProbeOutcome struct {
	Candidate registry.Descriptor
	Instance  string
	Result    ProbeResult
	Errors    []error
}

// ProbeReport is the result of a probing pass.
// Errors holds every error recorded for state transition failures, in rank order.
type ProbeReport struct {
	Chosen   element.Component
	Outcomes []ProbeOutcome
	Errors   []*CandidateError
}

// Prober tries candidates serially. Trial activation commonly acquires a
// device exclusively, so two candidates are never active at the same time.
type Prober struct {
	Owner  string     // facade name used to build instance names
	Filter *caps.Caps // nil accepts every candidate
	Logger *slog.Logger
}

// InstanceName builds the name given to a candidate instance. A leading "gst"
// and a trailing "src" are dropped from the candidate name.
func InstanceName(owner, candidate string) string {
	marker := strings.TrimSuffix(strings.TrimPrefix(candidate, "gst"), "src")
	if marker == "" {
		marker = candidate
	}
	return fmt.Sprintf("%s-actual-src-%s", owner, marker)
}

// Probe walks ranked in order and returns the first candidate that reaches
// READY, left in READY and unlinked. The context is checked before each
// candidate; a trial activation already issued is never interrupted.
func (p *Prober) Probe(ctx context.Context, ranked []registry.Descriptor) (*ProbeReport, error) {
	report := &ProbeReport{}
	p.logger().Debug("trying to find usable video devices", "candidates", len(ranked))

	for _, d := range ranked {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		chosen, outcome, errs := p.try(d)
		report.Outcomes = append(report.Outcomes, outcome)
		report.Errors = append(report.Errors, errs...)
		if chosen != nil {
			report.Chosen = chosen
			break
		}
	}

	p.logger().Debug("done trying",
		"tried", len(report.Outcomes),
		"errors", len(report.Errors),
		"found", report.Chosen != nil,
	)
	return report, nil
}

// try runs the full probe for one candidate. A non-nil component is only
// returned on success; on every other path the instance has been released.
func (p *Prober) try(d registry.Descriptor) (element.Component, ProbeOutcome, []*CandidateError) {
	name := InstanceName(p.Owner, d.Name)
	outcome := ProbeOutcome{Candidate: d, Instance: name}
	log := p.logger().With("candidate", d.Name, "instance", name, "rank", d.Rank)

	c, err := d.Factory(name)
	if err != nil || c == nil {
		log.Debug("could not instantiate candidate", "error", err)
		outcome.Result = ProbeInstantiationFailed
		if err != nil {
			outcome.Errors = []error{err}
		}
		return nil, outcome, nil
	}

	log.Debug("testing candidate")

	if p.Filter != nil {
		out := c.OutputCaps()
		if !p.Filter.CanIntersect(out) {
			log.Debug("incompatible caps", "filter", p.Filter.String(), "caps", out.String())
			p.release(log, c)
			outcome.Result = ProbeCapabilityMismatch
			return nil, outcome, nil
		}
		log.Debug("found compatible caps")
	}

	bus := element.NewBus()
	c.SetBus(bus)

	stateErr := c.SetState(element.StateReady)
	if stateErr == nil {
		c.SetBus(nil)
		log.Debug("this worked")
		outcome.Result = ProbeSuccess
		return c, outcome, nil
	}

	var recorded []*CandidateError
	for _, ev := range bus.Drain() {
		log.Debug("error message", "source", ev.Source, "error", ev.Err)
		recorded = append(recorded, &CandidateError{Candidate: d.Name, Instance: name, Err: ev.Err})
	}
	if len(recorded) == 0 {
		recorded = append(recorded, &CandidateError{Candidate: d.Name, Instance: name, Err: stateErr})
	}

	if err := c.SetState(element.StateNull); err != nil {
		log.Warn("candidate refused to return to NULL", "error", err)
	}
	c.SetBus(nil)
	p.release(log, c)

	outcome.Result = ProbeStateTransitionFailed
	for _, ce := range recorded {
		outcome.Errors = append(outcome.Errors, ce.Err)
	}
	return nil, outcome, recorded
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Prober) release(log *slog.Logger, c element.Component) {
	if err := element.Release(c); err != nil {
		log.Warn("releasing candidate", "error", err)
	}
}
