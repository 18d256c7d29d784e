// ABOUTME: Sentinel and typed errors produced while detecting and binding candidates.
// ABOUTME: Keeps per-candidate failures distinct from wiring failures.

package autodetect

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUsableSource indicates every candidate was tried and at least one failed with an error.
	ErrNoUsableSource = errors.New("failed to find a supported video source")

	// ErrNoCandidates indicates no candidate was eligible. It is only ever posted as a warning.
	ErrNoCandidates = errors.New("failed to find a usable video source")

	// ErrRetargetFailed indicates the endpoint could not be pointed at the chosen component.
	ErrRetargetFailed = errors.New("failed to set endpoint target")

	// ErrFilterLocked indicates the filter was changed while a real component is bound.
	ErrFilterLocked = errors.New("filter caps can only be changed while inactive")

	// ErrInvalidTransition indicates a transition that skips states.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// CandidateError is one error recorded while probing a candidate.
type CandidateError struct {
	Candidate string // registry name
	Instance  string // generated instance name
	Err       error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Instance, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

// DetectionError is returned when no candidate could be activated.
// It carries the first error recorded in rank order.
type DetectionError struct {
	First *CandidateError
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrNoUsableSource, e.First.Err)
}

// Unwrap exposes both ErrNoUsableSource and the underlying candidate error.
func (e *DetectionError) Unwrap() []error {
	return []error{ErrNoUsableSource, e.First}
}
