package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// The record format stores every multi-byte integer little-endian, matching
// the byte order the reference firmware produced on flash.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI16 writes an int16 value to the buffer at the specified offset in little-endian format.
func PutI16(b []byte, off int, v int16) {
	binary.LittleEndian.PutUint16(b[off:off+2], uint16(v))
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadI16 reads an int16 value from the buffer at the specified offset in little-endian format.
func ReadI16(b []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(b[off : off+2]))
}
