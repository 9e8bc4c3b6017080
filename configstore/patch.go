package configstore

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/guitaracc/basestation/internal/format"
)

// PatchNameSize is the width of the fixed on-media patch name field.
const PatchNameSize = format.PatchNameSize

// Patch is one named override set. A patch carries the per-performance
// settings; global radio and LED behavior stays in ConfigData.
type Patch struct {
	Name          [PatchNameSize]byte // NUL-padded UTF-8
	MIDIChannel   uint8
	VelocityCurve uint8
	CCMapping     [NumAxes]uint8
	AccelDeadzone int16
	AccelScale    [NumAxes]int16
}

// SetName stores name in the fixed field, NFC-normalized and truncated to
// PatchNameSize-1 bytes so the field always ends with at least one NUL.
func (p *Patch) SetName(name string) {
	normalized := norm.NFC.String(name)
	// Truncate on a rune boundary.
	for len(normalized) > PatchNameSize-1 {
		_, size := utf8.DecodeLastRuneInString(normalized)
		normalized = normalized[:len(normalized)-size]
	}
	var field [PatchNameSize]byte
	copy(field[:], normalized)
	p.Name = field
}

// NameString returns the patch name with NUL padding stripped.
func (p *Patch) NameString() string {
	if i := bytes.IndexByte(p.Name[:], 0); i >= 0 {
		return string(p.Name[:i])
	}
	return string(p.Name[:])
}

// PatchAt returns a copy of the patch at index i.
func (c *ConfigData) PatchAt(i int) (Patch, error) {
	if i < 0 || i >= int(c.PatchCount) {
		return Patch{}, fmt.Errorf("%w: %d of %d", ErrPatchRange, i, c.PatchCount)
	}
	return c.Patches[i], nil
}

// SetPatch stores p at index i, growing the populated count when i is the
// next free slot.
func (c *ConfigData) SetPatch(i int, p Patch) error {
	if i < 0 || i >= MaxPatches || i > int(c.PatchCount) {
		return fmt.Errorf("%w: %d of %d", ErrPatchRange, i, c.PatchCount)
	}
	c.Patches[i] = p
	if i == int(c.PatchCount) {
		c.PatchCount++
	}
	return nil
}

// SetActivePatch selects the patch at index i.
func (c *ConfigData) SetActivePatch(i int) error {
	if i < 0 || i >= int(c.PatchCount) {
		return fmt.Errorf("%w: %d of %d", ErrPatchRange, i, c.PatchCount)
	}
	c.ActivePatch = uint8(i)
	return nil
}

// ActivePatchData returns the active patch, or false when no patch is
// selected or the stored index is stale.
func (c *ConfigData) ActivePatchData() (Patch, bool) {
	if c.PatchCount == 0 || c.ActivePatch >= c.PatchCount {
		return Patch{}, false
	}
	return c.Patches[c.ActivePatch], true
}

// encodePatch packs p into a 40-byte slot at the start of b.
func encodePatch(b []byte, p *Patch) {
	copy(b[format.PatchNameOffset:format.PatchNameOffset+PatchNameSize], p.Name[:])
	b[format.PatchMIDIChannelOffset] = p.MIDIChannel
	b[format.PatchVelocityCurveOffset] = p.VelocityCurve
	copy(b[format.PatchCCMappingOffset:], p.CCMapping[:])
	format.PutI16(b, format.PatchAccelDeadzoneOffset, p.AccelDeadzone)
	for i := 0; i < NumAxes; i++ {
		format.PutI16(b, format.PatchAccelScaleOffset+2*i, p.AccelScale[i])
	}
}

// decodePatch unpacks a 40-byte slot from the start of b.
func decodePatch(b []byte) Patch {
	var p Patch
	copy(p.Name[:], b[format.PatchNameOffset:format.PatchNameOffset+PatchNameSize])
	p.MIDIChannel = b[format.PatchMIDIChannelOffset]
	p.VelocityCurve = b[format.PatchVelocityCurveOffset]
	copy(p.CCMapping[:], b[format.PatchCCMappingOffset:format.PatchCCMappingOffset+NumAxes])
	p.AccelDeadzone = format.ReadI16(b, format.PatchAccelDeadzoneOffset)
	for i := 0; i < NumAxes; i++ {
		p.AccelScale[i] = format.ReadI16(b, format.PatchAccelScaleOffset+2*i)
	}
	return p
}
