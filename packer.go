// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// resourceBlob is one fully read resource ready for payload assembly.
type resourceBlob struct {
	filename string
	data     []byte
}

// Pack validates the build request, assembles the archive in memory, and
// writes stub + header + payload + footer to out in a single write.
// The request's OutputPath is ignored; use PackFile for file output.
func Pack(ctx context.Context, out io.Writer, req BuildRequest, opts PackOptions) (*PackResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	output, res, err := buildOutput(ctx, req, opts)
	if err != nil {
		return nil, err
	}

	if _, err := out.Write(output); err != nil {
		return nil, fmt.Errorf("%w: write output: %w", ErrIO, err)
	}

	return res, nil
}

// PackFile validates the build request and writes the packed binary to
// req.OutputPath. All validation and assembly happen before the single
// write, so failure never leaves a partial output file.
func PackFile(ctx context.Context, req BuildRequest, opts PackOptions) (*PackResult, error) {
	output, res, err := buildOutput(ctx, req, opts)
	if err != nil {
		return nil, err
	}

	// The output is itself an executable.
	if err := os.WriteFile(req.OutputPath, output, 0o755); err != nil {
		return nil, fmt.Errorf("%w: write output %s: %w", ErrIO, req.OutputPath, err)
	}

	res.OutputPath = req.OutputPath

	return res, nil
}

// buildOutput runs the shared pack core: validate, read, assemble.
func buildOutput(ctx context.Context, req BuildRequest, opts PackOptions) ([]byte, *PackResult, error) {
	startedAt := time.Now()

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	if err := validateBuildRequest(req); err != nil {
		return nil, nil, err
	}

	blobs, err := readResourceBlobs(ctx, req.Resources, opts)
	if err != nil {
		return nil, nil, err
	}

	header := ArchiveHeader{
		ExtractionPath: req.ExtractionPath,
		MainFile:       req.MainFile,
		ExecutionStyle: req.ExecutionStyle,
		RunAsAdmin:     req.RunAsAdmin,
	}

	archiveData, f, res, err := assembleArchive(&header, blobs, req.Compress, opts)
	if err != nil {
		return nil, nil, err
	}

	output := make([]byte, 0, len(req.StubBytes)+len(archiveData)+footerSize)
	output = append(output, req.StubBytes...)
	output = append(output, archiveData...)
	trailer := f.encode()
	output = append(output, trailer[:]...)

	res.Duration = time.Since(startedAt)

	return output, res, nil
}

// assembleArchive fills header resources, serializes the header, and builds
// archive data (header bytes followed by raw or compressed payload) plus the
// matching footer. The passed header's Resources and IsCompressed are set here.
func assembleArchive(header *ArchiveHeader, blobs []resourceBlob, compress bool, opts PackOptions) ([]byte, footer, *PackResult, error) {
	var rawSize int64
	header.Resources = make([]ResourceEntry, 0, len(blobs))
	for _, blob := range blobs {
		size := int64(len(blob.data))
		if size > int64(math.MaxUint32) {
			return nil, footer{}, nil, fmt.Errorf("%w: resource %s is %d bytes",
				ErrSizeOverflow, blob.filename, size)
		}

		header.Resources = append(header.Resources, ResourceEntry{
			Filename: blob.filename,
			Size:     uint32(size),
		})
		rawSize += size
	}

	payload := make([]byte, 0, rawSize)
	for _, blob := range blobs {
		payload = append(payload, blob.data...)
	}

	header.IsCompressed = compress
	if compress {
		compressed, err := compressPayload(payload, opts.CompressionLevel)
		if err != nil {
			return nil, footer{}, nil, err
		}

		payload = compressed
	}

	headerBytes, err := encodeHeader(header)
	if err != nil {
		return nil, footer{}, nil, err
	}

	archiveLen := int64(len(headerBytes)) + int64(len(payload))
	if archiveLen > maxArchiveData {
		return nil, footer{}, nil, fmt.Errorf("%w: archive data is %d bytes", ErrSizeOverflow, archiveLen)
	}

	archiveData := make([]byte, 0, archiveLen)
	archiveData = append(archiveData, headerBytes...)
	archiveData = append(archiveData, payload...)

	f := footer{
		headerLength:      uint32(len(headerBytes)),
		archiveDataLength: uint32(archiveLen),
	}

	res := &PackResult{
		Resources:          len(blobs),
		HeaderLength:       len(headerBytes),
		RawPayloadBytes:    rawSize,
		StoredPayloadBytes: int64(len(payload)),
	}

	return archiveData, f, res, nil
}

// readResourceBlobs reads each resource fully, in list order.
func readResourceBlobs(ctx context.Context, paths []string, opts PackOptions) ([]resourceBlob, error) {
	blobs := make([]resourceBlob, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read resource %s: %w", ErrIO, path, err)
		}

		blob := resourceBlob{filename: filepath.Base(path), data: data}
		blobs = append(blobs, blob)

		if opts.OnResourceDone != nil && int64(len(data)) <= int64(math.MaxUint32) {
			opts.OnResourceDone(ResourceProgress{
				Filename: blob.filename,
				Size:     uint32(len(data)),
				Index:    i,
				Total:    len(paths),
			})
		}
	}

	return blobs, nil
}

// validateBuildRequest checks the request before any I/O is performed.
func validateBuildRequest(req BuildRequest) error {
	if len(req.Resources) == 0 {
		return ErrNoResources
	}

	if len(req.StubBytes) == 0 {
		return ErrNoStub
	}

	seen := make(map[string]string, len(req.Resources))
	mainFound := false
	for _, path := range req.Resources {
		name := filepath.Base(filepath.FromSlash(path))
		if err := safeResourceName(name); err != nil {
			return fmt.Errorf("%w: %q", ErrUnsafeResourceName, path)
		}

		key := strings.ToLower(name)
		if existing, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateResource, name, existing)
		}

		seen[key] = name
		if name == req.MainFile {
			mainFound = true
		}
	}

	if !mainFound {
		return fmt.Errorf("%w: %q", ErrMainFileNotFound, req.MainFile)
	}

	return nil
}
