//go:build !unix

package flash

import (
	"fmt"
	"os"
)

// FileDevice is a flash image backed by a plain file on platforms without
// mmap support. Each write syncs the file before returning.
type FileDevice struct {
	f     *os.File
	size  int64
	block int64
}

// OpenFile opens the flash image at path. The file size must be a non-zero
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
	return &FileDevice{f: f, size: size, block: eraseBlock}, nil
}

// ReadAt fills p from the image.
func (d *FileDevice) ReadAt(p []byte, off int64) error {
	if err := checkRange(off, int64(len(p)), d.size); err != nil {
		return err
	}
	_, err := d.f.ReadAt(p, off)
	return err
}

// WriteAt writes p to the image and syncs.
func (d *FileDevice) WriteAt(p []byte, off int64) error {
	if err := checkRange(off, int64(len(p)), d.size); err != nil {
		return err
	}
	if _, err := d.f.WriteAt(p, off); err != nil {
		return err
	}
	return d.f.Sync()
}

// Erase resets the given extent to EraseValue and syncs.
func (d *FileDevice) Erase(off, size int64) error {
	if err := checkErase(off, size, d.size, d.block); err != nil {
		return err
	}
	blank := make([]byte, size)
	for i := range blank {
		blank[i] = EraseValue
	}
	if _, err := d.f.WriteAt(blank, off); err != nil {
		return err
	}
	return d.f.Sync()
}

// Size reports the image extent.
func (d *FileDevice) Size() int64 { return d.size }

// EraseBlockSize reports the configured erase-block granularity.
func (d *FileDevice) EraseBlockSize() int64 { return d.block }

// Close closes the backing file.
func (d *FileDevice) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
