// ABOUTME: Contract for components that can be probed, bound and driven through states.
// ABOUTME: Defines states, transitions, factories and the shared Base implementation.

package element

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/2389/autodetect/internal/caps"
)

// ErrStateChange indicates a component could not complete a state transition.
var ErrStateChange = errors.New("state change failed")

// State is the activation level of a component.
type State int

const (
	StateNull State = iota
	StateReady
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateNull:
		return "NULL"
	case StateReady:
		return "READY"
	case StatePaused:
		return "PAUSED"
	case StatePlaying:
		return "PLAYING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transition is a single step between two adjacent states.
type Transition struct {
	From State
	To   State
}

var (
	NullToReady     = Transition{StateNull, StateReady}
	ReadyToPaused   = Transition{StateReady, StatePaused}
	PausedToPlaying = Transition{StatePaused, StatePlaying}
	PlayingToPaused = Transition{StatePlaying, StatePaused}
	PausedToReady   = Transition{StatePaused, StateReady}
	ReadyToNull     = Transition{StateReady, StateNull}
)

func (t Transition) String() string {
	return t.From.String() + "->" + t.To.String()
}

// Valid reports whether t moves exactly one step up or down.
func (t Transition) Valid() bool {
	d := int(t.To) - int(t.From)
	inRange := func(s State) bool { return s >= StateNull && s <= StatePlaying }
	return (d == 1 || d == -1) && inRange(t.From) && inRange(t.To)
}

// Component is one instantiated implementation that can be trial-activated
// and later exposed through an endpoint.
type Component interface {
	// Name returns the instance name given at creation.
	Name() string

	// OutputCaps returns the formats the component's output can produce.
	// Nil means the component has no output to link.
	OutputCaps() *caps.Caps

	// SetState synchronously drives the component to the target state.
	// Failures should also be posted on the attached bus with details.
	SetState(target State) error

	// State returns the current state.
	State() State

	// SetBus attaches a private error bus. Nil detaches it.
	SetBus(bus *Bus)
}

// Factory creates a named Component instance.
type Factory func(name string) (Component, error)

// Release frees a component that is no longer needed. Components that hold
// resources beyond their Null state implement io.Closer.
func Release(c Component) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Base holds name, state and bus bookkeeping shared by component implementations.
// Embedders call SetCurrent after a successful transition and Post to report errors.
type Base struct {
	mu    sync.Mutex
	name  string
	state State
	bus   *Bus
}

// NewBase returns a Base in the Null state.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the instance name.
func (b *Base) Name() string {
	return b.name
}

// State returns the current state.
func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetCurrent records the state reached by the embedder.
func (b *Base) SetCurrent(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// SetBus attaches or detaches the error bus.
func (b *Base) SetBus(bus *Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bus = bus
}

// Post reports err on the attached bus, if any.
func (b *Base) Post(err error) {
	b.mu.Lock()
	bus := b.bus
	b.mu.Unlock()
	bus.Post(b.name, err)
}
