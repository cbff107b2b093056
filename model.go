// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"math"
	"strings"
	"time"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	footerSize = 24  // LE32 header length + LE32 archive data length + marker
	markerSize = 16  // fixed footer marker length
	maxNameLen = 255 // max resource filename length
	// maxArchiveData bounds archive_data_length, which is a uint32 footer field.
	maxArchiveData = int64(math.MaxUint32)
)

// footerMarker identifies an appended archive. The value is part of the
// external file format and must match byte-for-byte.
var footerMarker = [markerSize]byte{
	'R', 'S', 'C', 'A', 'R', 'C', 'H', 'I', 'V', 'E', '_', 'V', '1', '_', '_', '_',
}

// ExecutionStyle is the window-visibility directive applied to the launched process.
type ExecutionStyle string

// Wire values for execution styles.
const (
	// StyleHidden launches without a visible window.
	StyleHidden ExecutionStyle = "no-window"
	// StyleMinimized launches minimized.
	StyleMinimized ExecutionStyle = "minimized"
	// StyleNormal launches with default window state.
	StyleNormal ExecutionStyle = "normal"
	// StyleMaximized launches maximized.
	StyleMaximized ExecutionStyle = "maximized"
)

// ParseExecutionStyle maps a raw style string to one of the four directives.
// Matching is case-insensitive; unrecognized values fall back to StyleNormal.
func ParseExecutionStyle(raw string) ExecutionStyle {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StyleHidden):
		return StyleHidden
	case string(StyleMinimized):
		return StyleMinimized
	case string(StyleMaximized):
		return StyleMaximized
	default:
		return StyleNormal
	}
}

// ResourceEntry describes one packaged file inside the archive payload.
type ResourceEntry struct {
	// Filename is the relative output path component for extraction.
	Filename string `json:"filename"`
	// Size is the exact byte count of this resource's slice within the
	// decompressed payload.
	Size uint32 `json:"size"`
}

// ArchiveHeader is the typed metadata describing archive contents and launch intent.
// Field names and order are part of the external header encoding.
type ArchiveHeader struct {
	// ExtractionPath is the output directory; it may embed platform
	// environment placeholders expanded at extraction time.
	ExtractionPath string `json:"extraction_path"`
	// MainFile names the resource launched after extraction.
	MainFile string `json:"main_file"`
	// Resources lists entries in exact payload concatenation order.
	Resources []ResourceEntry `json:"resources"`
	// ExecutionStyle is the requested window-visibility directive.
	ExecutionStyle ExecutionStyle `json:"execution_style"`
	// RunAsAdmin gates the launch on an elevated process.
	RunAsAdmin bool `json:"run_as_admin"`
	// IsCompressed reports whether the whole payload is one gzip stream.
	// The flag alone governs extraction behavior, never content sniffing.
	IsCompressed bool `json:"is_compressed"`
}

// BuildRequest is the immutable input of one pack invocation.
type BuildRequest struct {
	// Resources are source file paths in payload order.
	Resources []string `json:"resources"`
	// MainFile must equal the filename component of one resource path.
	MainFile string `json:"main_file"`
	// ExtractionPath is stored verbatim in the header.
	ExtractionPath string `json:"extraction_path"`
	// ExecutionStyle is stored verbatim in the header.
	ExecutionStyle ExecutionStyle `json:"execution_style"`
	// RunAsAdmin is stored verbatim in the header.
	RunAsAdmin bool `json:"run_as_admin"`
	// Compress enables whole-payload gzip compression.
	Compress bool `json:"compress"`
	// StubBytes is the bootstrap executable prefixed to the archive.
	StubBytes []byte `json:"-"`
	// OutputPath is the destination for PackFile.
	OutputPath string `json:"output_path"`
}

// ResourceProgress contains one completed resource event from pack flow.
type ResourceProgress struct {
	// Filename is the resource filename.
	Filename string `json:"filename"`
	// Size is the resource byte count.
	Size uint32 `json:"size"`
	// Index is the zero-based position in archive order.
	Index int `json:"index"`
	// Total is the number of resources in the archive.
	Total int `json:"total"`
}

// PackOptions configures pack behavior.
type PackOptions struct {
	// OnResourceDone is called after one resource is read into the payload.
	OnResourceDone func(p ResourceProgress) `json:"-"`
	// CompressionLevel is the gzip level used when the request enables
	// compression. Zero selects the codec default.
	CompressionLevel int `json:"compression_level,omitempty"`
}

// PackResult contains pack output statistics.
type PackResult struct {
	// OutputPath is the written file path (empty for writer-based Pack).
	OutputPath string `json:"output_path,omitempty"`
	// Resources is the number of packaged entries.
	Resources int `json:"resources"`
	// HeaderLength is the serialized header size in bytes.
	HeaderLength int `json:"header_length"`
	// RawPayloadBytes is the concatenated payload size before compression.
	RawPayloadBytes int64 `json:"raw_payload_bytes"`
	// StoredPayloadBytes is the payload size as written to the archive.
	StoredPayloadBytes int64 `json:"stored_payload_bytes"`
	// Duration is end-to-end pack core duration.
	Duration time.Duration `json:"duration,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnResourceDone is called after one resource is fully written to disk.
	OnResourceDone func(entry ResourceEntry, outputPath string) `json:"-"`
	// Dir overrides the header extraction path when non-empty.
	Dir string `json:"dir,omitempty"`
	// Rules limits extraction to matching resource filenames; empty means all.
	Rules []pathrules.Rule `json:"rules,omitempty"`
	// MatcherOptions control filter rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero"`
}

// EditOptions configures file-based packed binary edit flow.
type EditOptions struct {
	// PackOptions are applied when the edited archive is recompiled.
	PackOptions PackOptions `json:"pack_options,omitzero"`
	// BackupKeep controls how many backup generations are kept after
	// successful commit. 0 removes the backup, 1 keeps only `<file>.bak`,
	// N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty"`
}

// applyDefaults fills zero-valued pack options with defaults.
func (opts *PackOptions) applyDefaults() {
	if opts.CompressionLevel == 0 {
		opts.CompressionLevel = defaultCompressionLevel
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// applyDefaults fills zero-valued edit options with defaults.
func (opts *EditOptions) applyDefaults() {
	opts.PackOptions.applyDefaults()

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}
