// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// defaultCompressionLevel is the gzip level used when pack options leave it zero.
const defaultCompressionLevel = gzip.DefaultCompression

// compressPayload compresses the whole concatenated payload as one gzip stream.
func compressPayload(raw []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(raw) / 2)

	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("init gzip writer: %w", err)
	}

	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish gzip stream: %w", err)
	}

	return buf.Bytes(), nil
}

// decompressPayload inflates the full payload into memory in one pass.
func decompressPayload(stored []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(stored))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
	}

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
	}

	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
	}

	return raw, nil
}
