package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadMagic indicates the record magic did not match ("GTAC").
	ErrBadMagic = errors.New("format: bad record magic")
	// ErrBadChecksum indicates the stored header checksum did not match the
	// checksum recomputed over the header bytes.
	ErrBadChecksum = errors.New("format: header checksum mismatch")
)
