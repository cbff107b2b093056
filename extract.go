// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Extract materializes the archive payload and writes selected resources to
// the extraction directory, returning the resolved absolute directory path.
// Resources are written in header order via a running offset into the
// decompressed payload; an offset overrun is the format's only integrity
// check and fails the extraction at that entry. Files written before the
// failure point remain on disk.
func (r *Reader) Extract(ctx context.Context, opts ExtractOptions) (string, error) {
	if r == nil || r.header == nil {
		return "", ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	matcher, err := newResourceMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return "", err
	}

	dir := opts.Dir
	if dir == "" {
		dir = r.header.ExtractionPath
	}

	dstDir, err := filepath.Abs(ExpandPath(dir))
	if err != nil {
		return "", fmt.Errorf("%w: resolve extraction path: %w", ErrIO, err)
	}

	payload, err := r.payloadBytes()
	if err != nil {
		return "", err
	}

	// Existing directories are not an error.
	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create extraction path %s: %w", ErrIO, dstDir, err)
	}

	var offset int64
	for _, entry := range r.header.Resources {
		if err := ctx.Err(); err != nil {
			return dstDir, err
		}

		end := offset + int64(entry.Size)
		if end > int64(len(payload)) {
			return dstDir, fmt.Errorf("%w: resource %s needs bytes %d..%d of %d",
				ErrPayloadOverrun, entry.Filename, offset, end, len(payload))
		}

		data := payload[offset:end]
		offset = end

		if !matcher.match(entry.Filename) {
			continue
		}

		outPath, err := r.writeResource(dstDir, entry, data)
		if err != nil {
			return dstDir, err
		}

		if opts.OnResourceDone != nil {
			opts.OnResourceDone(entry, outPath)
		}
	}

	return dstDir, nil
}

// writeResource writes one resource slice under the destination directory.
func (r *Reader) writeResource(dstDir string, entry ResourceEntry, data []byte) (string, error) {
	if err := safeResourceName(entry.Filename); err != nil {
		return "", fmt.Errorf("resource %q: %w", entry.Filename, err)
	}

	outPath := filepath.Join(dstDir, entry.Filename)

	// The main file must stay executable for the launch step.
	mode := os.FileMode(0o600)
	if entry.Filename == r.header.MainFile {
		mode = 0o700
	}

	if err := os.WriteFile(outPath, data, mode); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrIO, outPath, err)
	}

	return outPath, nil
}

// resourceMatcher holds compiled selection rules for extraction.
type resourceMatcher struct {
	matcher *pathrules.Matcher
}

// newResourceMatcher compiles extract filter rules; nil rules select everything.
func newResourceMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*resourceMatcher, error) {
	if len(rules) == 0 {
		return &resourceMatcher{}, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFilterRules, err)
	}

	return &resourceMatcher{matcher: matcher}, nil
}

// match reports whether a resource filename is selected for extraction.
func (m *resourceMatcher) match(name string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	return m.matcher.Included(name, false)
}

// safeResourceName rejects names that could escape the extraction directory.
// Archive entries are plain filenames; anything else is refused.
func safeResourceName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return ErrUnsafeResourceName
	}

	if strings.ContainsAny(name, "/\\\x00") {
		return ErrUnsafeResourceName
	}

	if len(name) > maxNameLen {
		return ErrUnsafeResourceName
	}

	return nil
}

// ExpandPath expands platform environment placeholders in an extraction path.
// Both ${VAR}/$VAR and Windows-style %VAR% forms are supported; unknown
// variables expand to an empty string.
func ExpandPath(path string) string {
	return os.ExpandEnv(expandPercentVars(path))
}

// expandPercentVars rewrites %VAR% pairs to ${VAR} for os.ExpandEnv.
// Unpaired percent signs are kept verbatim.
func expandPercentVars(path string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(path, '%')
		if open < 0 {
			break
		}

		rest := path[open+1:]
		length := strings.IndexByte(rest, '%')
		if length < 0 {
			break
		}

		b.WriteString(path[:open])
		b.WriteString("${")
		b.WriteString(rest[:length])
		b.WriteString("}")
		path = rest[length+1:]
	}

	b.WriteString(path)

	return b.String()
}
