package configstore

import "errors"

var (
	// ErrDeviceNotReady indicates the flash device was missing or unusable at Open.
	ErrDeviceNotReady = errors.New("configstore: device not ready")
	// ErrNotInitialized indicates an operation before a successful Init.
	ErrNotInitialized = errors.New("configstore: not initialized")
	// ErrInvalidMagic indicates a region without a record magic, i.e. blank
	// or never written.
	ErrInvalidMagic = errors.New("configstore: invalid record magic")
	// ErrHeaderCorrupt indicates a record header failing its checksum.
	ErrHeaderCorrupt = errors.New("configstore: header corrupt")
	// ErrSizeInvalid indicates a stored payload length outside the
	// region's maximum or not matching the current payload schema.
	ErrSizeInvalid = errors.New("configstore: payload size invalid")
	// ErrPayloadCorrupt indicates payload bytes failing the content hash.
	ErrPayloadCorrupt = errors.New("configstore: payload corrupt")
	// ErrDeviceIO indicates a read, write, or erase failure from the device.
	ErrDeviceIO = errors.New("configstore: device i/o error")
	// ErrPermissionDenied indicates the DEFAULT-region write gate was not satisfied.
	ErrPermissionDenied = errors.New("configstore: permission denied")
	// ErrPatchRange indicates a patch index outside the stored patch set.
	ErrPatchRange = errors.New("configstore: patch index out of range")
)
