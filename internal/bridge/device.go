// Package bridge implements the printer bridge: a small HTTP server that
// translates JSON print requests into the printer's binary protocol on the
// physical device.
package bridge

import (
	"fmt"
	"os"
	"sync"
)

// Device is the physical printer endpoint. Write must deliver the whole
// frame as one unit.
type Device interface {
	Write(frame []byte) error
}

// FileDevice writes frames to a printer character device path. Each frame
// is an open-write-close under the device mutex, so concurrent prints never
// interleave their bytes on the paper path.
type FileDevice struct {
	path string
	mu   sync.Mutex
}

// NewFileDevice creates a FileDevice for the given device path.
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

// Write delivers one frame to the device.
func (d *FileDevice) Write(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("bridge: open device %s: %w", d.path, err)
	}
	defer f.Close()

	if _, err := f.Write(frame); err != nil {
		return fmt.Errorf("bridge: write device %s: %w", d.path, err)
	}
	return nil
}

// MemDevice implements Device for testing. It records frames and can be
// primed to fail.
type MemDevice struct {
	mu     sync.Mutex
	frames [][]byte
	err    error
}

// NewMemDevice creates a MemDevice.
func NewMemDevice() *MemDevice {
	return &MemDevice{}
}

// Write records the frame, or returns the primed error.
func (d *MemDevice) Write(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.frames = append(d.frames, append([]byte(nil), frame...))
	return nil
}

// SetErr primes the device to fail every write with err.
func (d *MemDevice) SetErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// Frames returns a copy of the recorded frames.
func (d *MemDevice) Frames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.frames))
	copy(out, d.frames)
	return out
}
