//go:build !unix

// ABOUTME: Device access stub for platforms without Video4Linux2.
// ABOUTME: Every open fails so the v4l2 candidate is skipped during probing.

package providers

import (
	"errors"
	"fmt"
)

// ErrNotDevice indicates the path exists but is not a character device.
var ErrNotDevice = errors.New("not a character device")

var errUnsupported = errors.New("video4linux2 is not supported on this platform")

func openDevice(path string) (int, error) {
	return -1, fmt.Errorf("cannot open device %q: %w", path, errUnsupported)
}

func closeDevice(int) error {
	return nil
}
