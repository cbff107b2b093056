// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reader provides read-only access to the archive appended to a packed binary.
// The stored archive data is fully materialized in memory at parse time; the
// reader never modifies the file it reads.
type Reader struct {
	// header stores decoded archive metadata.
	header *ArchiveHeader
	// stored is the payload as written to the file (possibly compressed).
	stored []byte
	// payload caches the decompressed payload after first use.
	payload []byte
	// file is set when Reader owns an *os.File opened via Open or OpenSelf.
	file *os.File
	// size is total source size in bytes.
	size int64
	// archiveStart is absolute offset of the first archive data byte.
	archiveStart int64
	// foot keeps the parsed trailer for inspection tooling.
	foot footer
	// mu guards closed state and lazy payload decompression.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens a packed binary by path and parses its appended archive.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}

	r, err := NewReaderFromReaderAt(f, fi.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f

	return r, nil
}

// OpenSelf opens the current process's own executable image. This is the
// entry point of the self-contained launcher binary.
func OpenSelf() (*Reader, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: resolve executable path: %w", ErrIO, err)
	}

	return Open(exe)
}

// NewReaderFromReaderAt parses an appended archive from an existing
// random-access source of known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	r := &Reader{size: size}
	if err := r.parse(ra); err != nil {
		return nil, err
	}

	return r, nil
}

// parse locates the footer, reads archive data, and decodes the header.
func (r *Reader) parse(ra io.ReaderAt) error {
	f, err := readFooter(ra, r.size)
	if err != nil {
		return err
	}

	start, err := f.archiveStart(r.size)
	if err != nil {
		return err
	}

	archiveData := make([]byte, f.archiveDataLength)
	if _, err := io.ReadFull(io.NewSectionReader(ra, start, int64(f.archiveDataLength)), archiveData); err != nil {
		return fmt.Errorf("%w: read archive data: %w", ErrIO, err)
	}

	header, err := decodeHeader(archiveData[:f.headerLength])
	if err != nil {
		return err
	}

	r.foot = f
	r.archiveStart = start
	r.header = header
	r.stored = archiveData[f.headerLength:]

	return nil
}

// Header returns a copy of the decoded archive header.
func (r *Reader) Header() ArchiveHeader {
	if r == nil || r.header == nil {
		return ArchiveHeader{}
	}

	out := *r.header
	out.Resources = r.Resources()

	return out
}

// Resources returns a copy of the ordered resource entries.
func (r *Reader) Resources() []ResourceEntry {
	if r == nil || r.header == nil {
		return nil
	}

	entries := make([]ResourceEntry, len(r.header.Resources))
	copy(entries, r.header.Resources)

	return entries
}

// HeaderLength returns the serialized header length recorded in the footer.
func (r *Reader) HeaderLength() uint32 {
	if r == nil {
		return 0
	}

	return r.foot.headerLength
}

// ArchiveDataLength returns the archive data length recorded in the footer.
func (r *Reader) ArchiveDataLength() uint32 {
	if r == nil {
		return 0
	}

	return r.foot.archiveDataLength
}

// ReadResource returns the full content of one named resource.
func (r *Reader) ReadResource(name string) ([]byte, error) {
	if r == nil || r.header == nil {
		return nil, ErrNilReader
	}

	payload, err := r.payloadBytes()
	if err != nil {
		return nil, err
	}

	var offset int64
	for _, entry := range r.header.Resources {
		end := offset + int64(entry.Size)
		if end > int64(len(payload)) {
			return nil, fmt.Errorf("%w: resource %s needs bytes %d..%d of %d",
				ErrPayloadOverrun, entry.Filename, offset, end, len(payload))
		}

		if entry.Filename == name {
			out := make([]byte, entry.Size)
			copy(out, payload[offset:end])

			return out, nil
		}

		offset = end
	}

	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// payloadBytes returns the decompressed payload, inflating it once on demand.
func (r *Reader) payloadBytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	if !r.header.IsCompressed {
		return r.stored, nil
	}

	if r.payload == nil {
		raw, err := decompressPayload(r.stored)
		if err != nil {
			return nil, err
		}

		r.payload = raw
	}

	return r.payload, nil
}

// Close closes the underlying file if the reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}
