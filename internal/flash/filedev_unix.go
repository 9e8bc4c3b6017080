//go:build unix

package flash

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileDevice is a flash image backed by a memory-mapped file.
//
// Writes and erases update the mapping and msync the touched pages before
// returning, so a successful call means the bytes reached the image file.
type FileDevice struct {
	f     *os.File
	data  []byte
	block int64
}

// OpenFile maps the flash image at path. The file size must be a non-zero
// multiple of eraseBlock.
func OpenFile(path string, eraseBlock int64) (*FileDevice, error) {
	if eraseBlock <= 0 {
		return nil, fmt.Errorf("flash: invalid erase block size %d", eraseBlock)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 || size%eraseBlock != 0 {
		f.Close()
		return nil, fmt.Errorf("flash: image size %d not a multiple of erase block %d", size, eraseBlock)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("flash: mmap %s: %w", path, err)
	}
	return &FileDevice{f: f, data: data, block: eraseBlock}, nil
}

// ReadAt fills p from the mapped image.
func (d *FileDevice) ReadAt(p []byte, off int64) error {
	if err := checkRange(off, int64(len(p)), d.Size()); err != nil {
		return err
	}
	copy(p, d.data[off:off+int64(len(p))])
	return nil
}

// WriteAt writes p into the mapped image and flushes the touched pages.
func (d *FileDevice) WriteAt(p []byte, off int64) error {
	if err := checkRange(off, int64(len(p)), d.Size()); err != nil {
		return err
	}
	copy(d.data[off:off+int64(len(p))], p)
	return d.sync(off, int64(len(p)))
}

// Erase resets the given extent to EraseValue and flushes it.
func (d *FileDevice) Erase(off, size int64) error {
	if err := checkErase(off, size, d.Size(), d.block); err != nil {
		return err
	}
	region := d.data[off : off+size]
	for i := range region {
		region[i] = EraseValue
	}
	return d.sync(off, size)
}

// Size reports the image extent.
func (d *FileDevice) Size() int64 { return int64(len(d.data)) }

// EraseBlockSize reports the configured erase-block granularity.
func (d *FileDevice) EraseBlockSize() int64 { return d.block }

// Close unmaps the image and closes the backing file.
func (d *FileDevice) Close() error {
	if d.data != nil {
		if err := unix.Munmap(d.data); err != nil {
			return err
		}
		d.data = nil
	}
	if d.f != nil {
		err := d.f.Close()
		d.f = nil
		return err
	}
	return nil
}

// sync msyncs the page-aligned extent covering [off, off+n).
func (d *FileDevice) sync(off, n int64) error {
	pageSize := int64(os.Getpagesize())
	start := off &^ (pageSize - 1)
	end := off + n
	if err := unix.Msync(d.data[start:end], unix.MS_SYNC); err != nil {
		return fmt.Errorf("flash: msync: %w", err)
	}
	return nil
}
