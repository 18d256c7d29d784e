// ABOUTME: Shared fakes for autodetect tests: scriptable components and a call log.
// ABOUTME: Lets tests observe trial activations, bus attachment and release.

package autodetect

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/registry"
)

var rawYUV = caps.MustParse("video/x-raw-yuv")

// fakeBehavior scripts how instances of one candidate behave.
type fakeBehavior struct {
	instErr   error      // returned by the factory
	failReady error      // returned by SetState(READY)
	posted    []error    // posted on the bus before failReady is returned
	output    *caps.Caps // defaults to rawYUV
	noOutput  bool       // OutputCaps returns nil
	onReady   func()     // called when READY is attempted
	closeErr  error      // returned by Close
}

// callLog records state changes and releases across all fake instances.
type callLog struct {
	mu       sync.Mutex
	ready    []string // candidate names in the order READY was attempted
	released []string
}

func (l *callLog) recordReady(candidate string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ready = append(l.ready, candidate)
}

func (l *callLog) recordRelease(candidate string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = append(l.released, candidate)
}

func (l *callLog) readyAttempts(candidate string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.ready {
		if c == candidate {
			n++
		}
	}
	return n
}

func (l *callLog) releases() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.released...)
}

func (l *callLog) readyOrder() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ready...)
}

type fakeComponent struct {
	element.Base
	candidate   string
	behavior    *fakeBehavior
	log         *callLog
	busAttached bool
	released    bool
}

func (f *fakeComponent) OutputCaps() *caps.Caps {
	if f.behavior.noOutput {
		return nil
	}
	if f.behavior.output != nil {
		return f.behavior.output
	}
	return rawYUV
}

func (f *fakeComponent) SetState(target element.State) error {
	if target == element.StateReady && f.State() == element.StateNull {
		f.log.recordReady(f.candidate)
		if f.behavior.onReady != nil {
			f.behavior.onReady()
		}
		if f.behavior.failReady != nil {
			for _, err := range f.behavior.posted {
				f.Post(err)
			}
			return f.behavior.failReady
		}
	}
	f.SetCurrent(target)
	return nil
}

func (f *fakeComponent) SetBus(bus *element.Bus) {
	f.busAttached = bus != nil
	f.Base.SetBus(bus)
}

func (f *fakeComponent) Close() error {
	f.released = true
	f.log.recordRelease(f.candidate)
	return f.behavior.closeErr
}

// harness wires fake candidates into a real registry.
type harness struct {
	reg       *registry.Registry
	log       *callLog
	mu        sync.Mutex
	instances map[string][]*fakeComponent
}

func newHarness() *harness {
	return &harness{
		reg:       registry.NewRegistry(slog.Default()),
		log:       &callLog{},
		instances: make(map[string][]*fakeComponent),
	}
}

func (h *harness) add(t *testing.T, name string, rank int, b *fakeBehavior) {
	t.Helper()
	if b == nil {
		b = &fakeBehavior{}
	}
	err := h.reg.Register(registry.Descriptor{
		Name:  name,
		Klass: []string{"Source", "Video"},
		Rank:  rank,
		Factory: func(instance string) (element.Component, error) {
			if b.instErr != nil {
				return nil, b.instErr
			}
			c := &fakeComponent{Base: element.NewBase(instance), candidate: name, behavior: b, log: h.log}
			h.mu.Lock()
			h.instances[name] = append(h.instances[name], c)
			h.mu.Unlock()
			return c, nil
		},
	})
	require.NoError(t, err)
}

// last returns the most recent instance created for a candidate.
func (h *harness) last(t *testing.T, name string) *fakeComponent {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.instances[name]
	require.NotEmpty(t, list, "no instance of %s", name)
	return list[len(list)-1]
}

func (h *harness) instanceCount(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.instances[name])
}

func failing(msg string) *fakeBehavior {
	err := fmt.Errorf("%s: %w", msg, element.ErrStateChange)
	return &fakeBehavior{failReady: err, posted: []error{err}}
}
