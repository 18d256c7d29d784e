// ABOUTME: Turns a probe report into a bind decision, an error or a placeholder fallback.
// ABOUTME: Failures re-surface the first recorded error; an empty field only warns.

package autodetect

import (
	"log/slog"

	"github.com/2389/autodetect/internal/element"
)

// fallbackName is the instance name of the placeholder bound when nothing was eligible.
const fallbackName = "fake-video-src"

// choose interprets report. It returns the component to bind, or a
// DetectionError carrying the earliest-ranked candidate's first error.
// When nothing was even eligible it warns and returns a READY placeholder.
func (s *Source) choose(report *ProbeReport, log *slog.Logger) (element.Component, error) {
	if report.Chosen != nil {
		return report.Chosen, nil
	}

	if len(report.Errors) > 0 {
		first := report.Errors[0]
		log.Debug("reposting first candidate error",
			"candidate", first.Candidate,
			"error", first.Err,
			"recorded", len(report.Errors),
		)
		s.post(Message{Kind: MessageError, Source: first.Instance, Err: first.Err})
		return nil, &DetectionError{First: first}
	}

	log.Warn(ErrNoCandidates.Error(), "tried", len(report.Outcomes))
	s.post(Message{Kind: MessageWarning, Source: s.name, Err: ErrNoCandidates})

	fallback := element.NewPlaceholder(fallbackName)
	fallback.SetSync(true)
	if err := fallback.SetState(element.StateReady); err != nil {
		return nil, err
	}
	return fallback, nil
}
