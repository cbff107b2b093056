// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// footer is the parsed fixed-size trailer located at the last 24 bytes of a
// packed file: LE32 header length, LE32 archive data length, 16-byte marker.
type footer struct {
	headerLength      uint32
	archiveDataLength uint32
}

// encode serializes the footer in wire order.
func (f footer) encode() [footerSize]byte {
	var out [footerSize]byte
	binary.LittleEndian.PutUint32(out[0:4], f.headerLength)
	binary.LittleEndian.PutUint32(out[4:8], f.archiveDataLength)
	copy(out[8:], footerMarker[:])

	return out
}

// parseFooter decodes and verifies a raw 24-byte trailer.
// A marker mismatch means "no archive appended" or "wrong format version".
func parseFooter(raw []byte) (footer, error) {
	if len(raw) != footerSize {
		return footer{}, fmt.Errorf("%w: got %d bytes", ErrTooShort, len(raw))
	}

	if !bytes.Equal(raw[8:], footerMarker[:]) {
		return footer{}, ErrBadMarker
	}

	return footer{
		headerLength:      binary.LittleEndian.Uint32(raw[0:4]),
		archiveDataLength: binary.LittleEndian.Uint32(raw[4:8]),
	}, nil
}

// readFooter reads the trailer from the end of a random-access source.
func readFooter(ra io.ReaderAt, size int64) (footer, error) {
	if size < footerSize {
		return footer{}, fmt.Errorf("%w: file size %d", ErrTooShort, size)
	}

	var raw [footerSize]byte
	if _, err := ra.ReadAt(raw[:], size-footerSize); err != nil {
		return footer{}, fmt.Errorf("%w: read footer: %w", ErrIO, err)
	}

	return parseFooter(raw[:])
}

// archiveStart resolves the absolute offset of archive data within the file.
// An out-of-range result means the declared length exceeds the actual file.
func (f footer) archiveStart(size int64) (int64, error) {
	start := size - int64(f.archiveDataLength) - footerSize
	if start < 0 {
		return 0, fmt.Errorf("%w: archive length %d, file size %d",
			ErrArchiveBounds, f.archiveDataLength, size)
	}

	if int64(f.headerLength) > int64(f.archiveDataLength) {
		return 0, fmt.Errorf("%w: header length %d, archive length %d",
			ErrHeaderBounds, f.headerLength, f.archiveDataLength)
	}

	return start, nil
}
