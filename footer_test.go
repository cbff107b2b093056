// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"bytes"
	"errors"
	"testing"
)

func TestFooterRoundTrip(t *testing.T) {
	t.Parallel()

	in := footer{headerLength: 137, archiveDataLength: 5257}
	raw := in.encode()

	out, err := parseFooter(raw[:])
	if err != nil {
		t.Fatalf("parseFooter: %v", err)
	}
	if out != in {
		t.Fatalf("footer=%+v, want %+v", out, in)
	}
}

func TestParseFooter_MarkerTamper(t *testing.T) {
	t.Parallel()

	base := footer{headerLength: 10, archiveDataLength: 100}.encode()
	for i := 8; i < footerSize; i++ {
		raw := base
		raw[i] ^= 0xff

		_, err := parseFooter(raw[:])
		if !errors.Is(err, ErrBadMarker) {
			t.Fatalf("byte %d: expected ErrBadMarker, got %v", i, err)
		}
		if !errors.Is(err, ErrCorruptArchive) {
			t.Fatalf("byte %d: ErrBadMarker must wrap ErrCorruptArchive", i)
		}
	}
}

func TestParseFooter_WrongLength(t *testing.T) {
	t.Parallel()

	if _, err := parseFooter(make([]byte, footerSize-1)); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestReadFooter_TooShort(t *testing.T) {
	t.Parallel()

	raw := []byte("tiny")
	if _, err := readFooter(bytes.NewReader(raw), int64(len(raw))); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestFooterArchiveStart(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		foot    footer
		size    int64
		want    int64
		wantErr error
	}{
		{name: "exact", foot: footer{headerLength: 5, archiveDataLength: 10}, size: 34, want: 0},
		{name: "with stub", foot: footer{headerLength: 5, archiveDataLength: 10}, size: 100, want: 66},
		{name: "declared too long", foot: footer{headerLength: 5, archiveDataLength: 100}, size: 50, wantErr: ErrArchiveBounds},
		{name: "header exceeds archive", foot: footer{headerLength: 20, archiveDataLength: 10}, size: 100, wantErr: ErrHeaderBounds},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start, err := tc.foot.archiveStart(tc.size)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if !errors.Is(err, ErrCorruptArchive) {
					t.Fatal("bounds errors must wrap ErrCorruptArchive")
				}

				return
			}

			if err != nil {
				t.Fatalf("archiveStart: %v", err)
			}
			if start != tc.want {
				t.Fatalf("start=%d, want %d", start, tc.want)
			}
		})
	}
}
