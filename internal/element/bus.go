// ABOUTME: Private, ordered error collector attached to a component during probing.
// ABOUTME: Replaces a shared message bus with an explicit drainable value.

package element

import "sync"

// Event is one error reported by a component.
type Event struct {
	Source string
	Err    error
}

// Bus collects error events in the order they are posted.
// A nil *Bus discards everything posted to it.
type Bus struct {
	mu     sync.Mutex
	events []Event
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Post appends an error event. Nil errors are ignored.
func (b *Bus) Post(source string, err error) {
	if b == nil || err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Event{Source: source, Err: err})
}

// Drain removes and returns all pending events, oldest first.
func (b *Bus) Drain() []Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Len returns the number of pending events.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
