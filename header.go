// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"encoding/json"
	"fmt"
)

// encodeHeader serializes the header to its canonical JSON form.
// The field set and names are fixed by the external header encoding.
func encodeHeader(h *ArchiveHeader) ([]byte, error) {
	if h.Resources == nil {
		h.Resources = []ResourceEntry{}
	}

	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	return raw, nil
}

// decodeHeader parses header bytes produced by encodeHeader.
func decodeHeader(raw []byte) (*ArchiveHeader, error) {
	var h ArchiveHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeaderDecode, err)
	}

	return &h, nil
}
