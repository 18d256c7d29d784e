// ABOUTME: Synthetic test pattern source that can always be activated.
// ABOUTME: Useful as an explicit low-rank fallback in headless environments.

package providers

import (
	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
)

// TestPatternName is the registry name of the test pattern source.
const TestPatternName = "videotestsrc"

var testPatternCaps = caps.MustParse("video/x-raw-yuv, format={I420,YUY2}; video/x-raw-rgb")

// TestPattern generates frames without any hardware.
type TestPattern struct {
	element.Base
}

// NewTestPattern creates a TestPattern in the NULL state.
func NewTestPattern(name string) *TestPattern {
	return &TestPattern{Base: element.NewBase(name)}
}

// OutputCaps implements element.Component.
func (p *TestPattern) OutputCaps() *caps.Caps {
	return testPatternCaps
}

// SetState always succeeds.
func (p *TestPattern) SetState(target element.State) error {
	p.SetCurrent(target)
	return nil
}
