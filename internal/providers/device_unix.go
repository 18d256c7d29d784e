//go:build unix

// ABOUTME: Opens character device nodes with golang.org/x/sys/unix.
// ABOUTME: Rejects paths that exist but are not character devices.

package providers

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrNotDevice indicates the path exists but is not a character device.
var ErrNotDevice = errors.New("not a character device")

func openDevice(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("cannot open device %q for reading and writing: %w", path, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("cannot identify device %q: %w", path, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("%q: %w", path, ErrNotDevice)
	}
	return fd, nil
}

func closeDevice(fd int) error {
	return unix.Close(fd)
}
