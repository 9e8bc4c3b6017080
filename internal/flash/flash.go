// Package flash abstracts the raw non-volatile memory the configuration
// store writes to.
//
// A Device is a flat byte space with NOR-flash semantics: reads and writes at
// arbitrary offsets, but a region must be erased (to 0xFF) in whole
// erase-block units before it is rewritten. The file-backed implementation
// memory-maps a flash image so the store exercises the same offset
// arithmetic it would against a real part; the in-memory implementation
// exists for tests and supports fault injection.
package flash

import (
	"errors"
	"fmt"
)

// EraseValue is the byte value every cell holds after an erase.
const EraseValue = 0xFF

var (
	// ErrOutOfRange indicates an access beyond the device extent.
	ErrOutOfRange = errors.New("flash: access out of range")
	// ErrUnaligned indicates an erase not aligned to the erase-block size.
	ErrUnaligned = errors.New("flash: erase not aligned to erase block")
)

// Device is a raw non-volatile memory device.
//
// All operations are synchronous: they return only after the underlying
// medium has been updated or an I/O error occurred.
type Device interface {
	// ReadAt fills p from the device starting at off.
	ReadAt(p []byte, off int64) error
	// WriteAt writes p to the device starting at off. The caller is
	// responsible for having erased the destination first.
	WriteAt(p []byte, off int64) error
	// Erase resets size bytes starting at off to EraseValue. Both off and
	// size must be multiples of EraseBlockSize.
	Erase(off, size int64) error
	// Size reports the device extent in bytes.
	Size() int64
	// EraseBlockSize reports the erase-block granularity in bytes.
	EraseBlockSize() int64
}

// checkRange validates an [off, off+n) access against a device of the given size.
func checkRange(off, n, size int64) error {
	if off < 0 || n < 0 || off+n > size {
		return fmt.Errorf("%w: off=%d len=%d size=%d", ErrOutOfRange, off, n, size)
	}
	return nil
}

// checkErase validates erase alignment and range.
func checkErase(off, n, size, block int64) error {
	if err := checkRange(off, n, size); err != nil {
		return err
	}
	if off%block != 0 || n%block != 0 {
		return fmt.Errorf("%w: off=%d len=%d block=%d", ErrUnaligned, off, n, block)
	}
	return nil
}
