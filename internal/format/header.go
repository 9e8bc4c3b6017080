package format

import (
	"fmt"
	"hash/crc32"
)

// Header is the decoded record header prefixed to every stored payload.
type Header struct {
	Magic      uint32
	Version    uint32
	Sequence   uint32
	PayloadLen uint32
	Hash       [HashSize]byte
}

// HeaderChecksum computes the CRC32-IEEE checksum over the header bytes that
// precede the checksum field itself.
func HeaderChecksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b[:ChecksumRegionLen])
}

// EncodeHeader packs h into its 52-byte on-media form, stamping the header
// checksum last.
func EncodeHeader(h Header) [HeaderSize]byte {
	var b [HeaderSize]byte
	PutU32(b[:], MagicOffset, h.Magic)
	PutU32(b[:], VersionOffset, h.Version)
	PutU32(b[:], SequenceOffset, h.Sequence)
	PutU32(b[:], PayloadLenOffset, h.PayloadLen)
	copy(b[HashOffset:HashOffset+HashSize], h.Hash[:])
	PutU32(b[:], ChecksumOffset, HeaderChecksum(b[:]))
	return b
}

// ParseHeader validates and decodes a record header.
//
// It checks, in order: buffer length, magic, and header checksum. A blank
// (erased) region fails the magic check, which callers treat as "never
// written" rather than corruption.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("record header: %w (have=%d need=%d)", ErrTruncated, len(b), HeaderSize)
	}
	h := Header{
		Magic:      ReadU32(b, MagicOffset),
		Version:    ReadU32(b, VersionOffset),
		Sequence:   ReadU32(b, SequenceOffset),
		PayloadLen: ReadU32(b, PayloadLenOffset),
	}
	copy(h.Hash[:], b[HashOffset:HashOffset+HashSize])
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("record header: %w (0x%08X)", ErrBadMagic, h.Magic)
	}
	if stored := ReadU32(b, ChecksumOffset); stored != HeaderChecksum(b) {
		return Header{}, fmt.Errorf("record header: %w (stored=0x%08X computed=0x%08X)",
			ErrBadChecksum, stored, HeaderChecksum(b))
	}
	return h, nil
}
