package configstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guitaracc/basestation/internal/flash"
	"github.com/guitaracc/basestation/internal/format"
)

const (
	testImageSize  = 0x8000
	testEraseBlock = 0x1000
)

// newTestDevice returns a blank in-memory flash image with the default layout geometry.
func newTestDevice() *flash.MemDevice {
	return flash.NewMem(testImageSize, testEraseBlock)
}

// mustOpenInit opens a store over dev and runs Init.
func mustOpenInit(t *testing.T, dev flash.Device, opts ...Option) *Store {
	t.Helper()
	s, err := Open(dev, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Init())
	return s
}

func TestOpenRejectsNilDevice(t *testing.T) {
	_, err := Open(nil)
	require.ErrorIs(t, err, ErrDeviceNotReady)
}

func TestOpenRejectsBadLayout(t *testing.T) {
	dev := flash.NewMem(0x2000, 0x1000)

	// Default layout needs 0x6000 bytes; this device is too small.
	_, err := Open(dev)
	require.ErrorIs(t, err, ErrDeviceNotReady)

	// Unaligned region.
	_, err = Open(newTestDevice(), WithLayout(Layout{
		A: Region{Offset: 0x100, Size: 0x2000},
		B: Region{Offset: 0x4000, Size: 0x2000},
	}))
	require.ErrorIs(t, err, ErrDeviceNotReady)
}

func TestOperationsBeforeInit(t *testing.T) {
	s, err := Open(newTestDevice())
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, s.Save(HardcodedDefaults()), ErrNotInitialized)
	require.ErrorIs(t, s.RestoreDefaults(), ErrNotInitialized)
	_, err = s.Info()
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, s.EraseAll(), ErrNotInitialized)
	require.ErrorIs(t, s.UnlockDefaultWrite(), ErrNotInitialized)
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrNotInitialized)
	require.Equal(t, StatusUninitialized, s.Status())
}

func TestColdStartFallsBackToHardcodedDefaults(t *testing.T) {
	s := mustOpenInit(t, newTestDevice())

	require.Equal(t, StatusReady, s.Status())

	cfg, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), cfg)

	// Defaults were persisted to A at sequence 1.
	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(1), info.Sequence)
}

func TestInitIsIdempotent(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	writes := dev.Writes
	require.NoError(t, s.Init())
	require.Equal(t, writes, dev.Writes, "second Init must not touch the device")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := mustOpenInit(t, newTestDevice())

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 9
	cfg.CCMapping = [NumAxes]uint8{70, 71, 72, 73, 74, 75}
	cfg.AccelDeadzone = -250
	cfg.AccelScale[3] = -1000

	var p Patch
	p.SetName("Lead Solo")
	p.MIDIChannel = 3
	require.NoError(t, cfg.SetPatch(0, p))
	require.NoError(t, cfg.SetActivePatch(0))

	require.NoError(t, s.Save(cfg))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestSaveSurvivesReopen(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 7
	require.NoError(t, s.Save(cfg))

	// A brand-new handle over the same device sees the saved record.
	s2 := mustOpenInit(t, dev)
	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(7), got.MIDIChannel)
}

func TestMonotonicRotation(t *testing.T) {
	s := mustOpenInit(t, newTestDevice())

	before, err := s.Info()
	require.NoError(t, err)

	require.NoError(t, s.Save(HardcodedDefaults()))

	after, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, before.Sequence+1, after.Sequence)
	require.NotEqual(t, before.Active, after.Active)

	require.NoError(t, s.Save(HardcodedDefaults()))

	again, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, before.Sequence+2, again.Sequence)
	require.Equal(t, before.Active, again.Active, "two saves return to the original area")
}

// TestSpecExample pins the worked example: channel 2 with CC 16..21 round-trips,
// and a second save moves sequence 3 -> 4 while toggling A -> B.
func TestSpecExample(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 2
	cfg.CCMapping = [NumAxes]uint8{16, 17, 18, 19, 20, 21}
	require.NoError(t, s.Save(cfg))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(2), got.MIDIChannel)

	// Walk the store to sequence 3 on area A.
	require.NoError(t, s.Save(got))
	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, uint32(3), info.Sequence)
	require.Equal(t, AreaA, info.Active)

	require.NoError(t, s.Save(got))
	info, err = s.Info()
	require.NoError(t, err)
	require.Equal(t, uint32(4), info.Sequence)
	require.Equal(t, AreaB, info.Active)
}

func TestCorruptionIsolation(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	// Two saves so both A and B hold valid records; B is newest (seq 3).
	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 4
	require.NoError(t, s.Save(cfg)) // B, seq 2
	cfg.MIDIChannel = 5
	require.NoError(t, s.Save(cfg)) // A, seq 3

	// Flip one payload byte of the newest record (area A).
	dev.Corrupt(DefaultLayout().A.Offset + format.HeaderSize)

	s2 := mustOpenInit(t, dev)
	info, err := s2.Info()
	require.NoError(t, err)
	require.Equal(t, AreaB, info.Active, "survivor must be selected")
	require.Equal(t, uint32(2), info.Sequence)

	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(4), got.MIDIChannel)
}

func TestHeaderCorruptionIsolation(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	require.NoError(t, s.Save(HardcodedDefaults())) // B, seq 2

	// Damage the newest record's header checksum region.
	dev.Corrupt(DefaultLayout().B.Offset + format.SequenceOffset)

	s2 := mustOpenInit(t, dev)
	info, err := s2.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(1), info.Sequence)
}

func TestTieBreakSelectsAreaA(t *testing.T) {
	dev := newTestDevice()
	s, err := Open(dev)
	require.NoError(t, err)

	// Hand-craft equal sequence numbers in both rotating regions.
	a := HardcodedDefaults()
	a.MIDIChannel = 10
	b := HardcodedDefaults()
	b.MIDIChannel = 11
	require.NoError(t, s.writeArea(AreaA, &a, 5))
	require.NoError(t, s.writeArea(AreaB, &b, 5))

	for i := 0; i < 3; i++ {
		si := mustOpenInit(t, dev)
		info, err := si.Info()
		require.NoError(t, err)
		require.Equal(t, AreaA, info.Active, "equal sequences must select A, run %d", i)

		got, err := si.Load()
		require.NoError(t, err)
		require.Equal(t, uint8(10), got.MIDIChannel)
	}
}

func TestNewerRegionWins(t *testing.T) {
	dev := newTestDevice()
	s, err := Open(dev)
	require.NoError(t, err)

	a := HardcodedDefaults()
	a.MIDIChannel = 1
	b := HardcodedDefaults()
	b.MIDIChannel = 2
	require.NoError(t, s.writeArea(AreaA, &a, 9))
	require.NoError(t, s.writeArea(AreaB, &b, 8))

	s2 := mustOpenInit(t, dev)
	info, err := s2.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(9), info.Sequence)
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	before, err := s.Info()
	require.NoError(t, err)
	cachedBefore, err := s.Load()
	require.NoError(t, err)

	boom := errors.New("simulated write failure")
	dev.FailWrite = boom

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 14
	err = s.Save(cfg)
	require.ErrorIs(t, err, ErrDeviceIO)

	dev.FailWrite = nil

	after, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, before, after)

	cachedAfter, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, cachedBefore, cachedAfter)
}

func TestDegradedBootWhenDefaultsCannotPersist(t *testing.T) {
	dev := newTestDevice()
	dev.FailWrite = errors.New("write path broken")

	s := mustOpenInit(t, dev)
	require.Equal(t, StatusDegraded, s.Status())

	// The device proceeds with unpersisted in-memory defaults.
	cfg, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), cfg)

	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, uint32(0), info.Sequence)

	// A later successful save promotes the store to ready.
	dev.FailWrite = nil
	require.NoError(t, s.Save(cfg))
	require.Equal(t, StatusReady, s.Status())
}

func TestDefaultRegionFallback(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev, WithDefaultWriteAllowed(true))

	factory := HardcodedDefaults()
	factory.MIDIChannel = 12
	factory.LEDBrightness = 200
	require.NoError(t, s.UnlockDefaultWrite())
	require.NoError(t, s.WriteDefault(factory))

	// Wipe only the rotating regions; DEFAULT survives.
	require.NoError(t, s.eraseRegion(AreaA))
	require.NoError(t, s.eraseRegion(AreaB))

	s2 := mustOpenInit(t, dev)
	cfg, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(12), cfg.MIDIChannel)
	require.Equal(t, uint8(200), cfg.LEDBrightness)

	info, err := s2.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(1), info.Sequence)
}

func TestRestoreDefaultsUsesDefaultRegion(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev, WithDefaultWriteAllowed(true))

	factory := HardcodedDefaults()
	factory.ScanIntervalMS = 50
	require.NoError(t, s.UnlockDefaultWrite())
	require.NoError(t, s.WriteDefault(factory))

	changed := HardcodedDefaults()
	changed.ScanIntervalMS = 25
	require.NoError(t, s.Save(changed))

	seqBefore, err := s.Info()
	require.NoError(t, err)

	require.NoError(t, s.RestoreDefaults())

	cfg, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(50), cfg.ScanIntervalMS)

	// Restore goes through the normal ping-pong commit.
	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, seqBefore.Sequence+1, info.Sequence)
	require.NotEqual(t, seqBefore.Active, info.Active)
}

func TestRestoreDefaultsFallsBackToHardcoded(t *testing.T) {
	s := mustOpenInit(t, newTestDevice())

	changed := HardcodedDefaults()
	changed.MIDIChannel = 6
	require.NoError(t, s.Save(changed))

	// DEFAULT region is blank, so hardcoded defaults win.
	require.NoError(t, s.RestoreDefaults())

	cfg, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), cfg)
}

func TestEraseAllThenInitMatchesColdStart(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 13
	require.NoError(t, s.Save(cfg))
	require.NoError(t, s.Save(cfg))

	require.NoError(t, s.EraseAll())
	require.Equal(t, StatusUninitialized, s.Status())

	// Same handle, fresh Init: behaves exactly like a brand-new device.
	require.NoError(t, s.Init())
	require.Equal(t, StatusReady, s.Status())

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), got)

	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(1), info.Sequence)
}

func TestDefaultWriteGateMatrix(t *testing.T) {
	// Gate closed at build level: unlock and write both refuse.
	s := mustOpenInit(t, newTestDevice())
	require.ErrorIs(t, s.UnlockDefaultWrite(), ErrPermissionDenied)
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrPermissionDenied)
	require.False(t, s.IsDefaultWriteEnabled())

	// Build gate open, runtime lock still engaged.
	s = mustOpenInit(t, newTestDevice(), WithDefaultWriteAllowed(true))
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrPermissionDenied)
	require.False(t, s.IsDefaultWriteEnabled())

	// Both gates open: one write passes, then the unlock is consumed.
	require.NoError(t, s.UnlockDefaultWrite())
	require.True(t, s.IsDefaultWriteEnabled())
	require.NoError(t, s.WriteDefault(HardcodedDefaults()))
	require.False(t, s.IsDefaultWriteEnabled())
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrPermissionDenied)
}

func TestDefaultWriteUnlockConsumedByFailedAttempt(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev, WithDefaultWriteAllowed(true))
	require.NoError(t, s.UnlockDefaultWrite())

	dev.FailErase = errors.New("erase fault")
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrDeviceIO)
	dev.FailErase = nil

	// The failed attempt consumed the unlock.
	require.False(t, s.IsDefaultWriteEnabled())
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrPermissionDenied)
}

func TestWriteDefaultRefusedWithoutDefaultRegion(t *testing.T) {
	layout := Layout{
		A: Region{Offset: 0x0000, Size: 0x2000},
		B: Region{Offset: 0x2000, Size: 0x2000},
	}
	dev := flash.NewMem(0x4000, testEraseBlock)
	s := mustOpenInit(t, dev, WithLayout(layout), WithDefaultWriteAllowed(true))

	// Both the arm and the write refuse: the unlock must not succeed at a
	// gate that can never open.
	require.ErrorIs(t, s.UnlockDefaultWrite(), ErrPermissionDenied)
	require.False(t, s.IsDefaultWriteEnabled())
	require.ErrorIs(t, s.WriteDefault(HardcodedDefaults()), ErrPermissionDenied)
}

func TestTwoRegionLayoutColdStart(t *testing.T) {
	layout := Layout{
		A: Region{Offset: 0x0000, Size: 0x2000},
		B: Region{Offset: 0x2000, Size: 0x2000},
	}
	dev := flash.NewMem(0x4000, testEraseBlock)
	s := mustOpenInit(t, dev, WithLayout(layout))

	cfg, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), cfg)

	cfg.MIDIChannel = 3
	require.NoError(t, s.Save(cfg))

	s2 := mustOpenInit(t, dev, WithLayout(layout))
	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, uint8(3), got.MIDIChannel)
}

func TestIntegrityModeMismatchRejected(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)

	cfg := HardcodedDefaults()
	cfg.MIDIChannel = 8
	require.NoError(t, s.Save(cfg))

	// A checksum-mode store must not accept SHA-256 records: the rotating
	// regions fail validation and the cold-start chain runs instead.
	s2 := mustOpenInit(t, dev, WithIntegrityMode(IntegrityChecksum))
	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), got)
}

func TestSizeInvalidRejection(t *testing.T) {
	dev := newTestDevice()
	s, err := Open(dev)
	require.NoError(t, err)

	// Area A: CRC-valid header whose payload length exceeds the region
	// maximum (region size minus header).
	regA := DefaultLayout().A
	oversized := format.EncodeHeader(format.Header{
		Magic:      format.Magic,
		Version:    format.Version,
		Sequence:   3,
		PayloadLen: uint32(regA.Size),
	})
	require.NoError(t, dev.WriteAt(oversized[:], regA.Offset))

	_, _, err = s.readArea(AreaA)
	require.ErrorIs(t, err, ErrSizeInvalid)

	// Area B: correctly hashed record written by a different payload
	// schema, 16 bytes instead of the current payload size.
	stale := []byte("old-schema-bytes")
	hdr := format.EncodeHeader(format.Header{
		Magic:      format.Magic,
		Version:    format.Version,
		Sequence:   4,
		PayloadLen: uint32(len(stale)),
		Hash:       contentHash(IntegritySHA256, stale),
	})
	regB := DefaultLayout().B
	require.NoError(t, dev.WriteAt(hdr[:], regB.Offset))
	require.NoError(t, dev.WriteAt(stale, regB.Offset+format.HeaderSize))

	_, _, err = s.readArea(AreaB)
	require.ErrorIs(t, err, ErrSizeInvalid)

	// Both rotating regions are ineligible, so Init runs the defaults chain.
	s2 := mustOpenInit(t, dev)
	require.Equal(t, StatusReady, s2.Status())

	got, err := s2.Load()
	require.NoError(t, err)
	require.Equal(t, HardcodedDefaults(), got)

	info, err := s2.Info()
	require.NoError(t, err)
	require.Equal(t, AreaA, info.Active)
	require.Equal(t, uint32(1), info.Sequence)
}

func TestReadAreaErrorTaxonomy(t *testing.T) {
	dev := newTestDevice()
	s := mustOpenInit(t, dev)
	require.NoError(t, s.Save(HardcodedDefaults())) // B holds seq 2

	// Blank region: invalid magic.
	require.NoError(t, s.eraseRegion(AreaDefault))
	_, _, err := s.readArea(AreaDefault)
	require.ErrorIs(t, err, ErrInvalidMagic)

	// Header damage: header corrupt.
	dev.Corrupt(DefaultLayout().B.Offset + format.VersionOffset)
	_, _, err = s.readArea(AreaB)
	require.ErrorIs(t, err, ErrHeaderCorrupt)

	// Payload damage: payload corrupt.
	dev.Corrupt(DefaultLayout().A.Offset + format.HeaderSize + 10)
	_, _, err = s.readArea(AreaA)
	require.ErrorIs(t, err, ErrPayloadCorrupt)

	// Device fault: i/o error.
	dev.FailRead = errors.New("read fault")
	_, _, err = s.readArea(AreaA)
	require.ErrorIs(t, err, ErrDeviceIO)
	dev.FailRead = nil
}
