/*
 *
 * Copyright 2025 The Aeron-Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package cnc maps the command-and-control file that carries a counters
// registry between processes. The single writing process creates the file
// and builds a counters.Manager over its regions; observer processes map
// the same file read-only and attach a counters.Reader. The cached clock
// lives in the file too, so observers can judge the writer's liveness from
// its heartbeat.
package cnc

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"github.com/nickelaway/aeron/clock"
	"github.com/nickelaway/aeron/counters"
)

// File format constants.
const (
	// FileMagic identifies a counters file.
	FileMagic = "AERONCNC"

	// FileVersion is the current format version.
	FileVersion = uint32(1)

	// HeaderLength is the size of the file header (two cache lines).
	HeaderLength = 128

	// clockLength reserves one cache line for the cached clock so it
	// does not share a line with the first metadata record.
	clockLength = 64

	// DefaultFileName is the conventional file name within a directory.
	DefaultFileName = "cnc.dat"
)

// fileHeader is the on-disk header at offset 0.
type fileHeader struct {
	magic          [8]byte  // 0x00: "AERONCNC"
	version        uint32   // 0x08: format version
	capacity       int32    // 0x0C: counter slot count
	clockOffset    uint64   // 0x10: offset of the cached clock
	metadataOffset uint64   // 0x18: offset of the metadata region
	metadataLength uint64   // 0x20: length of the metadata region
	valuesOffset   uint64   // 0x28: offset of the values region
	valuesLength   uint64   // 0x30: length of the values region
	writerPID      uint32   // 0x38: pid of the creating process
	pad            uint32   // 0x3C: padding
	reserved       [64]byte // 0x40-0x7F: reserved to 128B
}

// Version returns the format version.
func (h *fileHeader) Version() uint32 {
	return atomic.LoadUint32(&h.version)
}

// SetVersion publishes the format version. Written last during creation so
// that an observer which sees a valid version sees a complete header.
func (h *fileHeader) SetVersion(version uint32) {
	atomic.StoreUint32(&h.version, version)
}

// File is a mapped counters file. The mapping owns the regions; a Manager
// or Reader built over them borrows them, so the File must outlive both.
type File struct {
	file *os.File
	mem  []byte
	path string
	hdr  *fileHeader
}

// computeLayout returns the total file size and region offsets for a
// counter capacity. Every region starts on a cache line boundary.
func computeLayout(capacity int32) (total, clockOff, metaOff, valuesOff uint64) {
	clockOff = HeaderLength
	metaOff = clockOff + clockLength
	metaLen := uint64(capacity) * counters.MetadataLength
	valuesOff = metaOff + metaLen
	total = valuesOff + uint64(capacity)*counters.CounterLength
	return total, clockOff, metaOff, valuesOff
}

// Create creates a new counters file at path for the single writer. The
// file is created exclusively; an existing file is an error. capacity is
// the number of counter slots.
func Create(path string, capacity int32) (*File, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %d", capacity)
	}

	total, clockOff, metaOff, valuesOff := computeLayout(capacity)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create counters file %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(int64(total)); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to size counters file: %w", err)
	}

	mem, err := mmapFile(file, int(total), false)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to map counters file: %w", err)
	}

	f := &File{
		file: file,
		mem:  mem,
		path: path,
		hdr:  (*fileHeader)(unsafe.Pointer(&mem[0])),
	}

	copy(f.hdr.magic[:], FileMagic)
	f.hdr.capacity = capacity
	f.hdr.clockOffset = clockOff
	f.hdr.metadataOffset = metaOff
	f.hdr.metadataLength = uint64(capacity) * counters.MetadataLength
	f.hdr.valuesOffset = valuesOff
	f.hdr.valuesLength = uint64(capacity) * counters.CounterLength
	f.hdr.writerPID = uint32(os.Getpid())
	f.hdr.SetVersion(FileVersion)

	return f, nil
}

// Open maps an existing counters file read-write. Intended for the writing
// process re-attaching to its own file.
func Open(path string) (*File, error) {
	return openFile(path, false)
}

// OpenReadOnly maps an existing counters file for observation only. Any
// store through the returned regions faults.
func OpenReadOnly(path string) (*File, error) {
	return openFile(path, true)
}

func openFile(path string, readOnly bool) (*File, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}

	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open counters file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat counters file: %w", err)
	}

	size := info.Size()
	if size < HeaderLength {
		file.Close()
		return nil, fmt.Errorf("counters file too small: %d bytes", size)
	}

	mem, err := mmapFile(file, int(size), readOnly)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to map counters file: %w", err)
	}

	f := &File{
		file: file,
		mem:  mem,
		path: path,
		hdr:  (*fileHeader)(unsafe.Pointer(&mem[0])),
	}

	if err := f.validate(uint64(size)); err != nil {
		munmapFile(mem)
		file.Close()
		return nil, fmt.Errorf("invalid counters file %s: %w", path, err)
	}

	return f, nil
}

// validate checks the header against the mapped size.
func (f *File) validate(size uint64) error {
	if string(f.hdr.magic[:]) != FileMagic {
		return fmt.Errorf("bad magic")
	}
	if v := f.hdr.Version(); v != FileVersion {
		return fmt.Errorf("unsupported version %d, expected %d", v, FileVersion)
	}
	if f.hdr.capacity <= 0 {
		return fmt.Errorf("bad capacity %d", f.hdr.capacity)
	}

	total, clockOff, metaOff, valuesOff := computeLayout(f.hdr.capacity)
	if total != size {
		return fmt.Errorf("file size mismatch: got %d, expected %d", size, total)
	}
	if f.hdr.clockOffset != clockOff || f.hdr.metadataOffset != metaOff || f.hdr.valuesOffset != valuesOff {
		return fmt.Errorf("region offsets do not match capacity %d", f.hdr.capacity)
	}
	if f.hdr.metadataLength != uint64(f.hdr.capacity)*counters.MetadataLength ||
		f.hdr.valuesLength != uint64(f.hdr.capacity)*counters.CounterLength {
		return fmt.Errorf("region lengths do not match capacity %d", f.hdr.capacity)
	}

	return nil
}

// Capacity returns the counter slot count recorded in the header.
func (f *File) Capacity() int32 {
	return f.hdr.capacity
}

// WriterPID returns the pid of the creating process.
func (f *File) WriterPID() uint32 {
	return f.hdr.writerPID
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Clock returns the cached clock embedded in the file. Only the writing
// process may update it.
func (f *File) Clock() *clock.Cached {
	return (*clock.Cached)(unsafe.Pointer(&f.mem[f.hdr.clockOffset]))
}

// MetadataRegion returns the metadata region slice.
func (f *File) MetadataRegion() []byte {
	return f.mem[f.hdr.metadataOffset : f.hdr.metadataOffset+f.hdr.metadataLength]
}

// ValuesRegion returns the values region slice.
func (f *File) ValuesRegion() []byte {
	return f.mem[f.hdr.valuesOffset : f.hdr.valuesOffset+f.hdr.valuesLength]
}

// Close unmaps the file and closes the descriptor. Managers and readers
// built over the regions must not be used afterwards. Close is idempotent.
func (f *File) Close() error {
	var firstErr error

	if f.mem != nil {
		if err := munmapFile(f.mem); err != nil && firstErr == nil {
			firstErr = err
		}
		f.mem = nil
		f.hdr = nil
	}

	if f.file != nil {
		if err := f.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		f.file = nil
	}

	return firstErr
}

// DefaultPath returns the conventional location of the counters file:
// /dev/shm when available, the system temporary directory otherwise.
func DefaultPath() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", DefaultFileName)
	}
	return filepath.Join(os.TempDir(), DefaultFileName)
}
