package configstore

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/guitaracc/basestation/internal/flash"
	"github.com/guitaracc/basestation/internal/format"
)

// Area identifies one storage region.
type Area int

const (
	// AreaDefault is the reserved factory-default region.
	AreaDefault Area = iota
	// AreaA is the first rotating region.
	AreaA
	// AreaB is the second rotating region.
	AreaB
)

// String returns the area name.
func (a Area) String() string {
	switch a {
	case AreaDefault:
		return "DEFAULT"
	case AreaA:
		return "A"
	case AreaB:
		return "B"
	default:
		return fmt.Sprintf("Area(%d)", int(a))
	}
}

// other returns the rotating region that is not a. Only meaningful for A/B.
func (a Area) other() Area {
	if a == AreaA {
		return AreaB
	}
	return AreaA
}

// Region is a fixed (offset, size) slice of the flash device.
type Region struct {
	Offset int64
	Size   int64
}

// Layout fixes where the regions live on the device. A zero-size Default
// region means the layout has no reserved factory-default region (the
// two-region revision); the defaults chain then goes straight to the
// hardcoded values.
type Layout struct {
	Default Region
	A       Region
	B       Region
}

// DefaultLayout is the standard 32 KiB image: DEFAULT at 0x0000, A at
// 0x2000, B at 0x4000, each 8 KiB, remainder reserved.
func DefaultLayout() Layout {
	return Layout{
		Default: Region{Offset: 0x0000, Size: 0x2000},
		A:       Region{Offset: 0x2000, Size: 0x2000},
		B:       Region{Offset: 0x4000, Size: 0x2000},
	}
}

// region returns the Region for a.
func (l Layout) region(a Area) Region {
	switch a {
	case AreaDefault:
		return l.Default
	case AreaA:
		return l.A
	default:
		return l.B
	}
}

// hasDefault reports whether the layout defines a reserved DEFAULT region.
func (l Layout) hasDefault() bool { return l.Default.Size > 0 }

// validate checks every defined region against the device geometry.
func (l Layout) validate(dev flash.Device) error {
	block := dev.EraseBlockSize()
	size := dev.Size()
	check := func(a Area, r Region) error {
		if a == AreaDefault && r.Size == 0 {
			return nil
		}
		if r.Offset%block != 0 || r.Size%block != 0 {
			return fmt.Errorf("configstore: area %s not aligned to erase block %d", a, block)
		}
		if r.Size < format.HeaderSize+format.PayloadSize {
			return fmt.Errorf("configstore: area %s too small for a record (%d)", a, r.Size)
		}
		if r.Offset < 0 || r.Offset+r.Size > size {
			return fmt.Errorf("configstore: area %s outside device extent (%d)", a, size)
		}
		return nil
	}
	if err := check(AreaDefault, l.Default); err != nil {
		return err
	}
	if err := check(AreaA, l.A); err != nil {
		return err
	}
	return check(AreaB, l.B)
}

// readArea validates and decodes one region into header + payload.
//
// Each failure mode maps to a distinct sentinel. A failure never mutates the
// region; it only makes the region ineligible for selection.
func (s *Store) readArea(a Area) (format.Header, ConfigData, error) {
	reg := s.layout.region(a)

	raw := make([]byte, format.HeaderSize)
	if err := s.dev.ReadAt(raw, reg.Offset); err != nil {
		s.log.Error("header read failed", zap.String("area", a.String()), zap.Error(err))
		return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w: %v", a, ErrDeviceIO, err)
	}

	hdr, err := format.ParseHeader(raw)
	if err != nil {
		switch {
		case errors.Is(err, format.ErrBadMagic):
			s.log.Warn("invalid magic", zap.String("area", a.String()))
			return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w", a, ErrInvalidMagic)
		default:
			s.log.Warn("header checksum mismatch", zap.String("area", a.String()))
			return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w", a, ErrHeaderCorrupt)
		}
	}

	if int64(hdr.PayloadLen) > reg.Size-format.HeaderSize {
		s.log.Error("stored payload length exceeds region",
			zap.String("area", a.String()), zap.Uint32("len", hdr.PayloadLen))
		return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w: %d", a, ErrSizeInvalid, hdr.PayloadLen)
	}

	payload := make([]byte, hdr.PayloadLen)
	if err := s.dev.ReadAt(payload, reg.Offset+format.HeaderSize); err != nil {
		s.log.Error("payload read failed", zap.String("area", a.String()), zap.Error(err))
		return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w: %v", a, ErrDeviceIO, err)
	}

	if !verifyContent(s.mode, payload, hdr.Hash) {
		s.log.Error("payload hash mismatch", zap.String("area", a.String()))
		return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w", a, ErrPayloadCorrupt)
	}

	// A record that hashes correctly but was written by a different payload
	// schema cannot be decoded into the current structure.
	if hdr.PayloadLen != format.PayloadSize {
		s.log.Warn("payload schema size mismatch",
			zap.String("area", a.String()), zap.Uint32("len", hdr.PayloadLen))
		return format.Header{}, ConfigData{}, fmt.Errorf("area %s: %w: schema size %d", a, ErrSizeInvalid, hdr.PayloadLen)
	}

	s.log.Info("area read", zap.String("area", a.String()), zap.Uint32("seq", hdr.Sequence))
	return hdr, decodePayload(payload), nil
}

// writeArea encodes and commits data to one region: erase the full extent
// in erase-block chunks, then write the header followed by the payload.
//
// A failed step aborts with the error; a partially written region is left to
// fail its integrity checks on the next read rather than being trusted.
func (s *Store) writeArea(a Area, data *ConfigData, sequence uint32) error {
	reg := s.layout.region(a)
	payload := encodePayload(data)

	hdr := format.EncodeHeader(format.Header{
		Magic:      format.Magic,
		Version:    format.Version,
		Sequence:   sequence,
		PayloadLen: uint32(len(payload)),
		Hash:       contentHash(s.mode, payload),
	})

	block := s.dev.EraseBlockSize()
	for off := reg.Offset; off < reg.Offset+reg.Size; off += block {
		s.log.Debug("erasing block", zap.Int64("offset", off), zap.Int64("size", block))
		if err := s.dev.Erase(off, block); err != nil {
			s.log.Error("erase failed", zap.String("area", a.String()),
				zap.Int64("offset", off), zap.Error(err))
			return fmt.Errorf("area %s: erase: %w: %v", a, ErrDeviceIO, err)
		}
	}

	if err := s.dev.WriteAt(hdr[:], reg.Offset); err != nil {
		s.log.Error("header write failed", zap.String("area", a.String()), zap.Error(err))
		return fmt.Errorf("area %s: write header: %w: %v", a, ErrDeviceIO, err)
	}
	if err := s.dev.WriteAt(payload, reg.Offset+format.HeaderSize); err != nil {
		s.log.Error("payload write failed", zap.String("area", a.String()), zap.Error(err))
		return fmt.Errorf("area %s: write payload: %w: %v", a, ErrDeviceIO, err)
	}

	s.log.Info("area written", zap.String("area", a.String()), zap.Uint32("seq", sequence))
	return nil
}

// eraseRegion erases a region's full extent in erase-block chunks.
func (s *Store) eraseRegion(a Area) error {
	reg := s.layout.region(a)
	block := s.dev.EraseBlockSize()
	for off := reg.Offset; off < reg.Offset+reg.Size; off += block {
		if err := s.dev.Erase(off, block); err != nil {
			return fmt.Errorf("area %s: erase: %w: %v", a, ErrDeviceIO, err)
		}
	}
	return nil
}
