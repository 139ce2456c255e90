//go:build unix

package inflate

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile is a one-shot input buffer backed by an mmap'd file instead
// of a heap-allocated copy, for callers that already have the whole
// compressed stream sitting in a file.
type mmapFile struct {
	data []byte
}

// OpenMmapInput maps f's contents read-only and returns an input
// adapter over it, avoiding the copy a plain io.ReadAll would make.
// Callers must call the returned close function when done to unmap the
// file.
func OpenMmapInput(f *os.File) (*oneShotInput, func() error, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if size == 0 {
		return NewOneShotInput(nil), func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	m := &mmapFile{data: data}
	closeFn := func() error {
		return unix.Munmap(m.data)
	}
	return NewOneShotInput(m.data), closeFn, nil
}
