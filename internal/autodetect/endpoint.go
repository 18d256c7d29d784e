// ABOUTME: The single stable connection point exposed to downstream consumers.
// ABOUTME: Its target is swapped atomically and is never unset after construction.

package autodetect

import (
	"fmt"
	"sync/atomic"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
)

// Endpoint forwards to whichever component is currently bound.
type Endpoint struct {
	name   string
	target atomic.Pointer[binding]
}

type binding struct {
	component element.Component
}

func newEndpoint(name string, initial element.Component) *Endpoint {
	e := &Endpoint{name: name}
	e.target.Store(&binding{component: initial})
	return e
}

// Name returns the endpoint name.
func (e *Endpoint) Name() string {
	return e.name
}

// Target returns the component the endpoint currently forwards to.
func (e *Endpoint) Target() element.Component {
	return e.target.Load().component
}

// Caps returns the output caps of the current target.
func (e *Endpoint) Caps() *caps.Caps {
	return e.Target().OutputCaps()
}

// retarget points the endpoint at c. On failure the previous target stays.
func (e *Endpoint) retarget(c element.Component) error {
	if c == nil {
		return fmt.Errorf("%w: no component", ErrRetargetFailed)
	}
	if c.OutputCaps() == nil {
		return fmt.Errorf("%w: %s has no output", ErrRetargetFailed, c.Name())
	}
	e.target.Store(&binding{component: c})
	return nil
}
