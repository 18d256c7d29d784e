// ABOUTME: Inert stand-in component bound when no real implementation is active.
// ABOUTME: Accepts every state change and produces any format.

package element

import (
	"sync/atomic"

	"github.com/2389/autodetect/internal/caps"
)

// Placeholder is a no-op component. It is never registered or probed.
type Placeholder struct {
	Base
	sync atomic.Bool
}

// NewPlaceholder creates a Placeholder in the Null state.
func NewPlaceholder(name string) *Placeholder {
	return &Placeholder{Base: NewBase(name)}
}

// OutputCaps returns ANY.
func (p *Placeholder) OutputCaps() *caps.Caps {
	return caps.Any()
}

// SetState always succeeds.
func (p *Placeholder) SetState(target State) error {
	p.SetCurrent(target)
	return nil
}

// SetSync controls whether output would be paced against the clock.
func (p *Placeholder) SetSync(sync bool) {
	p.sync.Store(sync)
}

// Sync reports the sync setting.
func (p *Placeholder) Sync() bool {
	return p.sync.Load()
}

// IsPlaceholder reports whether c is a Placeholder.
func IsPlaceholder(c Component) bool {
	_, ok := c.(*Placeholder)
	return ok
}
