package configstore

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/guitaracc/basestation/internal/flash"
)

// Status is the store lifecycle state.
type Status int

const (
	// StatusUninitialized means Init has not run (or EraseAll reset the store).
	StatusUninitialized Status = iota
	// StatusResolving means Init is selecting a region. Transient.
	StatusResolving
	// StatusReady means a configuration is cached and persisted.
	StatusReady
	// StatusDegraded means defaults are cached in memory but could not be
	// persisted; they are lost again on power loss until a Save succeeds.
	StatusDegraded
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusResolving:
		return "resolving"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Info describes the store's current selection state.
type Info struct {
	Active   Area
	Sequence uint32
	Status   Status
	Mode     IntegrityMode
}

// Store is the persistent configuration store handle.
//
// All state lives in the handle; an internal mutex serializes every public
// operation, so a single Store may be shared across goroutines.
type Store struct {
	mu  sync.Mutex
	dev flash.Device
	log *zap.Logger

	layout Layout
	mode   IntegrityMode

	allowDefaultWrite    bool
	defaultWriteUnlocked bool

	status   Status
	active   Area
	sequence uint32
	cache    ConfigData
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger attaches a structured logger. Default: no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLayout overrides the region layout.
func WithLayout(l Layout) Option {
	return func(s *Store) { s.layout = l }
}

// WithIntegrityMode selects the payload hash mode. Default IntegritySHA256.
func WithIntegrityMode(m IntegrityMode) Option {
	return func(s *Store) { s.mode = m }
}

// WithDefaultWriteAllowed opens the build-level gate for DEFAULT-region
// writes. This is the manufacturing-image switch; WriteDefault additionally
// requires the runtime one-shot unlock.
func WithDefaultWriteAllowed(allow bool) Option {
	return func(s *Store) { s.allowDefaultWrite = allow }
}

// Open binds a store handle to a flash device and validates the layout
// against the device geometry. It performs no region I/O; call Init to
// resolve and cache the active configuration.
func Open(dev flash.Device, opts ...Option) (*Store, error) {
	if dev == nil {
		return nil, ErrDeviceNotReady
	}
	s := &Store{
		dev:    dev,
		log:    zap.NewNop(),
		layout: DefaultLayout(),
		mode:   IntegritySHA256,
		active: AreaA,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.layout.validate(dev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceNotReady, err)
	}
	return s, nil
}

// Init resolves the active region and populates the in-memory cache.
//
// Both rotating regions are read; the valid record with the higher sequence
// number wins, with an exact tie selecting region A. If neither validates,
// the defaults chain runs: the DEFAULT region if the layout defines one and
// it validates, else the hardcoded defaults. The chosen defaults are cached
// and the store attempts to persist them to region A at sequence 1; a
// persist failure is logged and degrades the store instead of failing boot.
//
// Idempotent: a second call after success returns immediately.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusUninitialized {
		return nil
	}
	s.status = StatusResolving

	hdrA, dataA, errA := s.readArea(AreaA)
	hdrB, dataB, errB := s.readArea(AreaB)

	switch {
	case errA == nil && errB == nil:
		// Tie-break: equal sequence numbers select A. Deterministic by
		// contract; do not rely on read order.
		if hdrB.Sequence > hdrA.Sequence {
			s.adopt(AreaB, hdrB.Sequence, dataB)
		} else {
			s.adopt(AreaA, hdrA.Sequence, dataA)
		}
	case errA == nil:
		s.adopt(AreaA, hdrA.Sequence, dataA)
	case errB == nil:
		s.adopt(AreaB, hdrB.Sequence, dataB)
	default:
		s.fallBackToDefaults()
	}

	s.log.Info("configuration storage initialized",
		zap.String("status", s.status.String()),
		zap.String("active", s.active.String()),
		zap.Uint32("seq", s.sequence))
	return nil
}

// adopt caches a freshly validated record and marks the store ready.
func (s *Store) adopt(a Area, seq uint32, data ConfigData) {
	s.active = a
	s.sequence = seq
	s.cache = data
	s.status = StatusReady
	s.log.Info("using area", zap.String("area", a.String()), zap.Uint32("seq", seq))
}

// fallBackToDefaults runs the defaults chain when neither rotating region
// holds a valid record.
func (s *Store) fallBackToDefaults() {
	var defaults ConfigData
	if s.layout.hasDefault() {
		if _, data, err := s.readArea(AreaDefault); err == nil {
			s.log.Warn("no valid active config, loading from DEFAULT")
			defaults = data
		} else {
			s.log.Warn("no valid config found, using hardcoded defaults")
			defaults = HardcodedDefaults()
		}
	} else {
		s.log.Warn("no valid config found, using hardcoded defaults")
		defaults = HardcodedDefaults()
	}

	s.cache = defaults
	s.active = AreaA
	s.sequence = 0

	// Persisting the defaults is best-effort: a failure here must not stop
	// boot, it only costs durability until the next successful Save.
	if err := s.writeArea(AreaA, &defaults, 1); err != nil {
		s.log.Warn("failed to persist defaults, continuing degraded", zap.Error(err))
		s.status = StatusDegraded
		return
	}
	s.sequence = 1
	s.status = StatusReady
	s.log.Info("defaults persisted to area A")
}

// initialized reports whether Init completed. Callers hold s.mu.
func (s *Store) initialized() bool {
	return s.status == StatusReady || s.status == StatusDegraded
}

// Save commits data as the new configuration version.
//
// The record goes to the rotating region that is not currently active, at
// the next sequence number; the active pointer and cache flip only after
// the write succeeded. On failure all state is left unchanged, so the
// previous configuration stays selectable on the next boot.
func (s *Store) Save(data ConfigData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ErrNotInitialized
	}
	return s.saveLocked(data)
}

// saveLocked is the ping-pong commit. Callers hold s.mu and have checked
// initialization.
func (s *Store) saveLocked(data ConfigData) error {
	next := s.active.other()
	nextSeq := s.sequence + 1

	s.log.Debug("save", zap.String("from", s.active.String()),
		zap.String("to", next.String()), zap.Uint32("seq", nextSeq))

	if err := s.writeArea(next, &data, nextSeq); err != nil {
		return err
	}

	s.cache = data
	s.active = next
	s.sequence = nextSeq
	s.status = StatusReady

	s.log.Info("configuration saved",
		zap.String("area", s.active.String()), zap.Uint32("seq", s.sequence))
	return nil
}

// Load returns a copy of the cached configuration. The cache is
// authoritative after Init; Load never touches the device.
func (s *Store) Load() (ConfigData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ConfigData{}, ErrNotInitialized
	}
	return s.cache, nil
}

// RestoreDefaults loads the factory defaults (DEFAULT region if present and
// valid, else hardcoded) and commits them through the normal save path, so
// a restore is itself crash-safe.
func (s *Store) RestoreDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ErrNotInitialized
	}

	var defaults ConfigData
	if s.layout.hasDefault() {
		if _, data, err := s.readArea(AreaDefault); err == nil {
			defaults = data
		} else {
			s.log.Error("cannot restore from DEFAULT area, using hardcoded defaults", zap.Error(err))
			defaults = HardcodedDefaults()
		}
	} else {
		defaults = HardcodedDefaults()
	}
	return s.saveLocked(defaults)
}

// Info returns the current selection state.
func (s *Store) Info() (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return Info{}, ErrNotInitialized
	}
	return Info{
		Active:   s.active,
		Sequence: s.sequence,
		Status:   s.status,
		Mode:     s.mode,
	}, nil
}

// Status reports the lifecycle state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// UnlockDefaultWrite arms the one-shot runtime gate for WriteDefault. The
// gate clears again after one write attempt, success or failure.
func (s *Store) UnlockDefaultWrite() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ErrNotInitialized
	}
	if !s.layout.hasDefault() {
		return fmt.Errorf("%w: layout has no DEFAULT region", ErrPermissionDenied)
	}
	if !s.allowDefaultWrite {
		s.log.Error("DEFAULT write disabled for this build")
		return fmt.Errorf("%w: default write not allowed", ErrPermissionDenied)
	}
	s.log.Warn("DEFAULT area write unlocked for one attempt")
	s.defaultWriteUnlocked = true
	return nil
}

// IsDefaultWriteEnabled reports whether a WriteDefault would currently pass
// both gates.
func (s *Store) IsDefaultWriteEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowDefaultWrite && s.defaultWriteUnlocked
}

// WriteDefault writes data to the reserved DEFAULT region at sequence 0.
//
// Manufacturing path: both the build-level gate (WithDefaultWriteAllowed)
// and the runtime one-shot (UnlockDefaultWrite) must be set. The unlock is
// consumed by the attempt whether or not the write succeeds.
func (s *Store) WriteDefault(data ConfigData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ErrNotInitialized
	}
	if !s.layout.hasDefault() {
		return fmt.Errorf("%w: layout has no DEFAULT region", ErrPermissionDenied)
	}
	if !s.allowDefaultWrite {
		s.log.Error("DEFAULT write disabled for this build")
		return fmt.Errorf("%w: default write not allowed", ErrPermissionDenied)
	}
	if !s.defaultWriteUnlocked {
		s.log.Error("DEFAULT write locked, unlock first")
		return fmt.Errorf("%w: default write locked", ErrPermissionDenied)
	}

	s.log.Warn("writing DEFAULT area (factory defaults)")
	err := s.writeArea(AreaDefault, &data, 0)

	// One-shot: relock regardless of outcome.
	s.defaultWriteUnlocked = false
	s.log.Info("DEFAULT area auto-locked after write attempt")
	return err
}

// EraseAll wipes every defined region's full extent, bypassing record
// structure. Destructive and irreversible: the store drops back to
// StatusUninitialized and the next Init necessarily runs the defaults
// chain, exactly like a brand-new device. Test and manufacturing use only.
func (s *Store) EraseAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return ErrNotInitialized
	}

	s.log.Warn("erasing all configuration storage")
	if s.layout.hasDefault() {
		if err := s.eraseRegion(AreaDefault); err != nil {
			return err
		}
	}
	if err := s.eraseRegion(AreaA); err != nil {
		return err
	}
	if err := s.eraseRegion(AreaB); err != nil {
		return err
	}

	s.status = StatusUninitialized
	s.active = AreaA
	s.sequence = 0
	s.cache = ConfigData{}
	s.defaultWriteUnlocked = false
	s.log.Warn("all configuration areas erased, next Init falls back to defaults")
	return nil
}
