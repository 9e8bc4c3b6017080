// Package format defines the on-media layout of a configuration record and
// the primitives to encode and decode its fields.
//
// A record is a fixed 52-byte header followed immediately by the raw payload
// bytes. All multi-byte integers are little-endian.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    Magic 'G' 'T' 'A' 'C' (0x47544143 LE)
//	 0x04    4    Record format version
//	 0x08    4    Sequence number (rotating areas only)
//	 0x0C    4    Payload length in bytes
//	 0x10   32    Content hash of the payload
//	 0x30    4    CRC32-IEEE over the preceding 48 header bytes
package format

// Magic identifies a valid configuration record ("GTAC").
const Magic uint32 = 0x47544143

// Version is the current record format version.
const Version uint32 = 1

const (
	// HeaderSize is the total encoded header size in bytes.
	HeaderSize = 52

	// HashSize is the width of the content hash field.
	HashSize = 32

	// MagicOffset is the byte offset of the magic field.
	MagicOffset = 0x00

	// VersionOffset is the byte offset of the format version field.
	VersionOffset = 0x04

	// SequenceOffset is the byte offset of the sequence number field.
	SequenceOffset = 0x08

	// PayloadLenOffset is the byte offset of the payload length field.
	PayloadLenOffset = 0x0C

	// HashOffset is the byte offset of the content hash field.
	HashOffset = 0x10

	// ChecksumOffset is the byte offset of the header checksum field.
	ChecksumOffset = 0x30

	// ChecksumRegionLen is the number of header bytes covered by the
	// header checksum (everything before the checksum field itself).
	ChecksumRegionLen = ChecksumOffset
)

// Payload geometry. The payload is a fixed-size packed structure: a 64-byte
// global settings block followed by MaxPatches fixed 40-byte patch slots.
const (
	// GlobalBlockSize is the encoded size of the global settings block.
	GlobalBlockSize = 64

	// PatchSize is the encoded size of one patch slot.
	PatchSize = 40

	// MaxPatches is the number of patch slots in the payload.
	MaxPatches = 127

	// PatchNameSize is the width of the fixed patch name field.
	PatchNameSize = 16

	// PayloadSize is the total encoded payload size.
	PayloadSize = GlobalBlockSize + MaxPatches*PatchSize
)

// Global settings block field offsets (relative to payload start).
const (
	GlobalMIDIChannelOffset   = 0x00
	GlobalVelocityCurveOffset = 0x01
	GlobalCCMappingOffset     = 0x02 // 6 bytes
	GlobalMaxGuitarsOffset    = 0x08
	GlobalScanIntervalOffset  = 0x09
	GlobalLEDBrightnessOffset = 0x0A
	GlobalLEDModeOffset       = 0x0B
	GlobalAccelDeadzoneOffset = 0x0C // int16
	GlobalAccelScaleOffset    = 0x0E // 6 x int16
	GlobalActivePatchOffset   = 0x1A
	GlobalPatchCountOffset    = 0x1B
	// 0x1C..0x3F reserved, must encode as zero
)

// Patch slot field offsets (relative to the slot start).
const (
	PatchNameOffset          = 0x00 // 16 bytes, NUL padded
	PatchMIDIChannelOffset   = 0x10
	PatchVelocityCurveOffset = 0x11
	PatchCCMappingOffset     = 0x12 // 6 bytes
	PatchAccelDeadzoneOffset = 0x18 // int16
	PatchAccelScaleOffset    = 0x1A // 6 x int16
	// 0x26..0x27 reserved, must encode as zero
)

// NumAxes is the number of motion axes carried by CC mappings and scale
// factors (X, Y, Z, roll, pitch, yaw).
const NumAxes = 6
