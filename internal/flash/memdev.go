package flash

// MemDevice is an in-memory Device for tests.
//
// The fault hooks let tests fail specific operations: a non-nil FailRead,
// FailWrite, or FailErase is returned (and counted) by the matching
// operation without touching the backing buffer.
type MemDevice struct {
	data  []byte
	block int64

	FailRead  error
	FailWrite error
	FailErase error

	Reads  int
	Writes int
	Erases int
}

// NewMem returns a fully erased in-memory device. size must be a multiple
// of eraseBlock.
func NewMem(size, eraseBlock int64) *MemDevice {
	if eraseBlock <= 0 || size <= 0 || size%eraseBlock != 0 {
		panic("flash: invalid mem device geometry")
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = EraseValue
	}
	return &MemDevice{data: data, block: eraseBlock}
}

// ReadAt fills p from the buffer.
func (d *MemDevice) ReadAt(p []byte, off int64) error {
	d.Reads++
	if d.FailRead != nil {
		return d.FailRead
	}
	if err := checkRange(off, int64(len(p)), d.Size()); err != nil {
		return err
	}
	copy(p, d.data[off:off+int64(len(p))])
	return nil
}

// WriteAt writes p into the buffer.
func (d *MemDevice) WriteAt(p []byte, off int64) error {
	d.Writes++
	if d.FailWrite != nil {
		return d.FailWrite
	}
	if err := checkRange(off, int64(len(p)), d.Size()); err != nil {
		return err
	}
	copy(d.data[off:off+int64(len(p))], p)
	return nil
}

// Erase resets the extent to EraseValue.
func (d *MemDevice) Erase(off, size int64) error {
	d.Erases++
	if d.FailErase != nil {
		return d.FailErase
	}
	if err := checkErase(off, size, d.Size(), d.block); err != nil {
		return err
	}
	for i := off; i < off+size; i++ {
		d.data[i] = EraseValue
	}
	return nil
}

// Size reports the buffer extent.
func (d *MemDevice) Size() int64 { return int64(len(d.data)) }

// EraseBlockSize reports the erase-block granularity.
func (d *MemDevice) EraseBlockSize() int64 { return d.block }

// Corrupt flips every bit of the byte at off. Tests use it to simulate a
// partial or damaged write.
func (d *MemDevice) Corrupt(off int64) {
	d.data[off] ^= 0xFF
}

// Bytes exposes the backing buffer for test assertions.
func (d *MemDevice) Bytes() []byte { return d.data }
