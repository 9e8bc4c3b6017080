package configstore

import (
	"github.com/guitaracc/basestation/internal/format"
)

// MaxPatches is the number of patch slots carried by a configuration payload.
const MaxPatches = format.MaxPatches

// NumAxes is the number of motion axes (X, Y, Z, roll, pitch, yaw).
const NumAxes = format.NumAxes

// ConfigData is the complete bridge configuration.
//
// It contains only fixed-width fields so the encoded payload has one
// canonical byte layout. Callers always receive and hand over copies; the
// store never shares its internal cache by reference.
type ConfigData struct {
	// MIDI mapping
	MIDIChannel   uint8          // MIDI channel, 0-15
	VelocityCurve uint8          // velocity curve, 0-3
	CCMapping     [NumAxes]uint8 // CC number per motion axis

	// Radio link
	MaxGuitars     uint8 // maximum connected instruments, 1-4
	ScanIntervalMS uint8 // scan interval in milliseconds

	// Status LEDs
	LEDBrightness uint8 // 0-255
	LEDMode       uint8 // 0-3

	// Motion mapping
	AccelDeadzone int16          // deadzone threshold in raw units
	AccelScale    [NumAxes]int16 // per-axis scale, 1000 = 1.0x fixed point

	// Patch set
	ActivePatch uint8 // index of the active patch, valid when < PatchCount
	PatchCount  uint8 // number of populated patch slots, 0..MaxPatches
	Patches     [MaxPatches]Patch
}

// HardcodedDefaults returns the built-in default configuration used when no
// valid stored configuration exists anywhere. Pure; performs no I/O.
func HardcodedDefaults() ConfigData {
	var c ConfigData

	c.MIDIChannel = 0   // channel 1, zero-indexed
	c.VelocityCurve = 0 // linear
	// CC16..CC21: general purpose 1-6 for X, Y, Z, roll, pitch, yaw.
	for i := 0; i < NumAxes; i++ {
		c.CCMapping[i] = uint8(16 + i)
	}

	c.MaxGuitars = 4
	c.ScanIntervalMS = 100

	c.LEDBrightness = 128 // 50%
	c.LEDMode = 0

	c.AccelDeadzone = 100
	for i := 0; i < NumAxes; i++ {
		c.AccelScale[i] = 1000 // 1.0x
	}

	return c
}

// encodePayload packs c into its canonical fixed-size on-media form.
func encodePayload(c *ConfigData) []byte {
	b := make([]byte, format.PayloadSize)

	b[format.GlobalMIDIChannelOffset] = c.MIDIChannel
	b[format.GlobalVelocityCurveOffset] = c.VelocityCurve
	copy(b[format.GlobalCCMappingOffset:], c.CCMapping[:])
	b[format.GlobalMaxGuitarsOffset] = c.MaxGuitars
	b[format.GlobalScanIntervalOffset] = c.ScanIntervalMS
	b[format.GlobalLEDBrightnessOffset] = c.LEDBrightness
	b[format.GlobalLEDModeOffset] = c.LEDMode
	format.PutI16(b, format.GlobalAccelDeadzoneOffset, c.AccelDeadzone)
	for i := 0; i < NumAxes; i++ {
		format.PutI16(b, format.GlobalAccelScaleOffset+2*i, c.AccelScale[i])
	}
	b[format.GlobalActivePatchOffset] = c.ActivePatch
	b[format.GlobalPatchCountOffset] = c.PatchCount

	for i := range c.Patches {
		encodePatch(b[format.GlobalBlockSize+i*format.PatchSize:], &c.Patches[i])
	}
	return b
}

// decodePayload unpacks a canonical payload. The caller has already verified
// length and content hash.
func decodePayload(b []byte) ConfigData {
	var c ConfigData

	c.MIDIChannel = b[format.GlobalMIDIChannelOffset]
	c.VelocityCurve = b[format.GlobalVelocityCurveOffset]
	copy(c.CCMapping[:], b[format.GlobalCCMappingOffset:format.GlobalCCMappingOffset+NumAxes])
	c.MaxGuitars = b[format.GlobalMaxGuitarsOffset]
	c.ScanIntervalMS = b[format.GlobalScanIntervalOffset]
	c.LEDBrightness = b[format.GlobalLEDBrightnessOffset]
	c.LEDMode = b[format.GlobalLEDModeOffset]
	c.AccelDeadzone = format.ReadI16(b, format.GlobalAccelDeadzoneOffset)
	for i := 0; i < NumAxes; i++ {
		c.AccelScale[i] = format.ReadI16(b, format.GlobalAccelScaleOffset+2*i)
	}
	c.ActivePatch = b[format.GlobalActivePatchOffset]
	c.PatchCount = b[format.GlobalPatchCountOffset]

	for i := range c.Patches {
		c.Patches[i] = decodePatch(b[format.GlobalBlockSize+i*format.PatchSize:])
	}
	return c
}
