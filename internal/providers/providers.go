// ABOUTME: Registers the built-in video source candidates with a registry.
// ABOUTME: Maps operator options onto descriptors for v4l2 devices and the test pattern.

package providers

import (
	"fmt"
	"path/filepath"

	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/registry"
)

// videoKlass is the capability family of every built-in provider.
var videoKlass = []string{"Source", "Video"}

// Options controls which built-in providers are registered.
type Options struct {
	// V4L2Devices lists device nodes to expose, one candidate each.
	// Defaults to /dev/video0.
	V4L2Devices []string

	// TestPatternRank is the rank of the test pattern source. Zero keeps it out
	// of autodetection unless the minimum rank is lowered.
	TestPatternRank int
}

// Register adds every built-in provider to reg.
func Register(reg *registry.Registry, opts Options) error {
	devices := opts.V4L2Devices
	if len(devices) == 0 {
		devices = []string{DefaultV4L2Device}
	}

	for i, dev := range devices {
		d := registry.Descriptor{
			Name:        v4l2Name(i, dev),
			Klass:       videoKlass,
			Rank:        registry.RankPrimary,
			Description: "Video4Linux2 capture from " + dev,
			Factory: func(name string) (element.Component, error) {
				return NewV4L2Source(name, dev), nil
			},
		}
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("registering v4l2 device %s: %w", dev, err)
		}
	}

	err := reg.Register(registry.Descriptor{
		Name:        TestPatternName,
		Klass:       videoKlass,
		Rank:        opts.TestPatternRank,
		Description: "Synthetic test pattern",
		Factory: func(name string) (element.Component, error) {
			return NewTestPattern(name), nil
		},
	})
	if err != nil {
		return fmt.Errorf("registering test pattern: %w", err)
	}
	return nil
}

// v4l2Name keeps the first device as "v4l2src" and suffixes the rest with the
// device node name, so "/dev/video2" becomes "v4l2-video2src".
func v4l2Name(i int, dev string) string {
	if i == 0 {
		return "v4l2src"
	}
	return "v4l2-" + filepath.Base(dev) + "src"
}
