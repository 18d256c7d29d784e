// ABOUTME: Video4Linux2 capture source that opens its device node on NULL->READY.
// ABOUTME: Missing, busy or forbidden devices fail the transition with bus errors.

package providers

import (
	"fmt"
	"sync"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/element"
)

// DefaultV4L2Device is the device node used when none is configured.
const DefaultV4L2Device = "/dev/video0"

var v4l2Caps = caps.MustParse("video/x-raw-yuv, format={I420,YUY2,UYVY}; video/x-raw-rgb; image/jpeg")

// V4L2Source captures from a Video4Linux2 device.
type V4L2Source struct {
	element.Base
	device string

	mu sync.Mutex
	fd int // -1 while closed
}

// NewV4L2Source creates a source for device in the NULL state.
func NewV4L2Source(name, device string) *V4L2Source {
	return &V4L2Source{Base: element.NewBase(name), device: device, fd: -1}
}

// Device returns the device node path.
func (s *V4L2Source) Device() string {
	return s.device
}

// OutputCaps implements element.Component.
func (s *V4L2Source) OutputCaps() *caps.Caps {
	return v4l2Caps
}

// SetState opens the device when leaving NULL and closes it when returning to NULL.
func (s *V4L2Source) SetState(target element.State) error {
	current := s.State()
	switch {
	case current == element.StateNull && target > element.StateNull:
		if err := s.open(); err != nil {
			s.Post(err)
			return fmt.Errorf("%s: %w", s.Name(), element.ErrStateChange)
		}
	case target == element.StateNull:
		if err := s.Close(); err != nil {
			s.Post(err)
		}
	}
	s.SetCurrent(target)
	return nil
}

// Close releases the device handle. It is safe to call multiple times.
func (s *V4L2Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd < 0 {
		return nil
	}
	err := closeDevice(s.fd)
	s.fd = -1
	if err != nil {
		return fmt.Errorf("closing %s: %w", s.device, err)
	}
	return nil
}

func (s *V4L2Source) open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd >= 0 {
		return nil
	}
	fd, err := openDevice(s.device)
	if err != nil {
		return err
	}
	s.fd = fd
	return nil
}
