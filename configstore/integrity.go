package configstore

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/guitaracc/basestation/internal/format"
)

// IntegrityMode selects how the payload content hash is computed.
//
// The two modes produce incompatible records on purpose: a store only
// accepts records written in its own mode, so checksum-only protection can
// never be mistaken for cryptographic integrity.
type IntegrityMode int

const (
	// IntegritySHA256 stores a SHA-256 digest of the payload. Default.
	IntegritySHA256 IntegrityMode = iota
	// IntegrityChecksum stores a running 32-bit byte sum in the first four
	// hash bytes, remainder zero. Detects accidental corruption only; it
	// offers no tamper resistance.
	IntegrityChecksum
)

// String returns the mode name.
func (m IntegrityMode) String() string {
	switch m {
	case IntegritySHA256:
		return "sha256"
	case IntegrityChecksum:
		return "checksum"
	default:
		return "unknown"
	}
}

// contentHash computes the payload hash field for the given mode.
func contentHash(m IntegrityMode, payload []byte) [format.HashSize]byte {
	var h [format.HashSize]byte
	switch m {
	case IntegrityChecksum:
		var sum uint32
		for _, b := range payload {
			sum += uint32(b)
		}
		format.PutU32(h[:], 0, sum)
	default:
		h = sha256.Sum256(payload)
	}
	return h
}

// verifyContent recomputes the payload hash and compares it to the stored value.
func verifyContent(m IntegrityMode, payload []byte, expected [format.HashSize]byte) bool {
	got := contentHash(m, payload)
	return subtle.ConstantTimeCompare(got[:], expected[:]) == 1
}
