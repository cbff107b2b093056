// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"errors"
	"fmt"
)

// Error taxonomy categories. Every specific sentinel below wraps exactly one
// category, so callers can branch on either level with errors.Is.
var (
	// ErrValidation means the build request is invalid; no I/O was performed.
	ErrValidation = errors.New("invalid build request")
	// ErrIO means a disk read, write, or permission failure.
	ErrIO = errors.New("archive I/O failure")
	// ErrCorruptArchive means the appended archive is missing, tampered, or inconsistent.
	ErrCorruptArchive = errors.New("corrupt or missing archive")
	// ErrPrivilege means the elevation query failed or rights are insufficient.
	ErrPrivilege = errors.New("insufficient privileges")
)

// Validation sentinels.
var (
	// ErrNoResources means the build request lists no resources.
	ErrNoResources = fmt.Errorf("%w: no resources provided", ErrValidation)
	// ErrNoStub means the build request carries no stub binary bytes.
	ErrNoStub = fmt.Errorf("%w: empty stub binary", ErrValidation)
	// ErrMainFileNotFound means main file does not match any resource filename.
	ErrMainFileNotFound = fmt.Errorf("%w: main file is not among resources", ErrValidation)
	// ErrUnsafeResourceName means a resource filename is empty or not a plain file name.
	ErrUnsafeResourceName = fmt.Errorf("%w: unsafe resource filename", ErrValidation)
	// ErrDuplicateResource means two resources resolve to the same filename.
	ErrDuplicateResource = fmt.Errorf("%w: duplicate resource filename", ErrValidation)
	// ErrSizeOverflow means a size does not fit the uint32 wire fields.
	ErrSizeOverflow = fmt.Errorf("%w: size exceeds uint32 range", ErrValidation)
)

// Corrupt archive sentinels.
var (
	// ErrTooShort means the file is too short to hold a footer.
	ErrTooShort = fmt.Errorf("%w: file too short for footer", ErrCorruptArchive)
	// ErrBadMarker means the footer marker does not match byte-for-byte.
	ErrBadMarker = fmt.Errorf("%w: footer marker mismatch", ErrCorruptArchive)
	// ErrArchiveBounds means declared archive length exceeds the actual file size.
	ErrArchiveBounds = fmt.Errorf("%w: declared archive length exceeds file size", ErrCorruptArchive)
	// ErrHeaderBounds means declared header length exceeds the archive data.
	ErrHeaderBounds = fmt.Errorf("%w: header length exceeds archive data", ErrCorruptArchive)
	// ErrHeaderDecode means the header bytes do not decode to a valid header.
	ErrHeaderDecode = fmt.Errorf("%w: malformed header encoding", ErrCorruptArchive)
	// ErrDecompress means the compressed payload failed to decompress.
	ErrDecompress = fmt.Errorf("%w: payload decompression failed", ErrCorruptArchive)
	// ErrPayloadOverrun means a resource slice exceeds the payload length.
	ErrPayloadOverrun = fmt.Errorf("%w: resource slice exceeds payload length", ErrCorruptArchive)
)

// Privilege sentinels.
var (
	// ErrNotElevated means the current process lacks administrator rights.
	ErrNotElevated = fmt.Errorf("%w: administrator rights required", ErrPrivilege)
	// ErrElevationQuery means the OS elevation state query itself failed.
	ErrElevationQuery = fmt.Errorf("%w: elevation state query failed", ErrPrivilege)
)

// Usage sentinels outside the archive taxonomy.
var (
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrNilPlatform means no platform implementation was provided.
	ErrNilPlatform = errors.New("platform is nil")
	// ErrClosed means the reader is already closed.
	ErrClosed = errors.New("reader already closed")
	// ErrResourceNotFound means the named resource is not in the archive.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidFilterRules means one or more extract filter rules are invalid.
	ErrInvalidFilterRules = errors.New("invalid extract filter rules")
)
