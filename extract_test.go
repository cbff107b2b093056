// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		name := "raw"
		if compress {
			name = "compressed"
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw, _, contents := packConcrete(t, compress)

			r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
			if err != nil {
				t.Fatalf("NewReaderFromReaderAt: %v", err)
			}

			var order []string
			dstDir := filepath.Join(t.TempDir(), "out")
			gotDir, err := r.Extract(context.Background(), ExtractOptions{
				Dir: dstDir,
				OnResourceDone: func(entry ResourceEntry, outputPath string) {
					order = append(order, entry.Filename)
				},
			})
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}

			wantDir, err := filepath.Abs(dstDir)
			if err != nil {
				t.Fatalf("abs: %v", err)
			}
			if gotDir != wantDir {
				t.Fatalf("extract dir=%q, want %q", gotDir, wantDir)
			}

			if len(order) != 2 || order[0] != "app.exe" || order[1] != "data.txt" {
				t.Fatalf("extraction order=%v", order)
			}

			for name, want := range contents {
				data, err := os.ReadFile(filepath.Join(gotDir, name))
				if err != nil {
					t.Fatalf("read extracted %s: %v", name, err)
				}
				if !bytes.Equal(data, want) {
					t.Fatalf("extracted %s: content mismatch", name)
				}
			}
		})
	}
}

func TestExtract_UsesHeaderPath(t *testing.T) {
	t.Parallel()

	paths, _ := concreteFixture(t)
	req := concreteRequest(paths, false)
	req.ExtractionPath = filepath.Join(t.TempDir(), "dest")

	var out bytes.Buffer
	if _, err := Pack(context.Background(), &out, req, PackOptions{}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	r, err := NewReaderFromReaderAt(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	gotDir, err := r.Extract(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantDir, err := filepath.Abs(req.ExtractionPath)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if gotDir != wantDir {
		t.Fatalf("extract dir=%q, want header path %q", gotDir, wantDir)
	}

	if _, err := os.Stat(filepath.Join(gotDir, "app.exe")); err != nil {
		t.Fatalf("stat extracted main file: %v", err)
	}
}

func TestExtract_FilterRules(t *testing.T) {
	t.Parallel()

	raw, _, contents := packConcrete(t, false)

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	dstDir := filepath.Join(t.TempDir(), "out")
	gotDir, err := r.Extract(context.Background(), ExtractOptions{
		Dir: dstDir,
		Rules: []pathrules.Rule{
			{Action: pathrules.ActionInclude, Pattern: "*.txt"},
		},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if _, err := os.Stat(filepath.Join(gotDir, "app.exe")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("app.exe must be skipped, stat err=%v", err)
	}

	// Skipped entries still advance the payload offset, so the selected
	// resource must carry its own bytes, not the predecessor's.
	data, err := os.ReadFile(filepath.Join(gotDir, "data.txt"))
	if err != nil {
		t.Fatalf("read data.txt: %v", err)
	}
	if !bytes.Equal(data, contents["data.txt"]) {
		t.Fatal("data.txt: content mismatch after filtered extraction")
	}
}

func TestExtract_InvalidFilterRules(t *testing.T) {
	t.Parallel()

	raw, _, _ := packConcrete(t, false)

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	_, err = r.Extract(context.Background(), ExtractOptions{
		Dir: t.TempDir(),
		Rules: []pathrules.Rule{
			{Action: pathrules.ActionUnknown, Pattern: "*.txt"},
		},
	})
	if !errors.Is(err, ErrInvalidFilterRules) {
		t.Fatalf("expected ErrInvalidFilterRules, got %v", err)
	}
}

func TestExtract_UnsafeEntryName(t *testing.T) {
	t.Parallel()

	header := &ArchiveHeader{
		ExtractionPath: "rc_extracted",
		MainFile:       "../evil",
		Resources:      []ResourceEntry{{Filename: "../evil", Size: 4}},
		ExecutionStyle: StyleNormal,
	}
	raw := rawArchive(t, header, []byte("boom"))

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	if _, err := r.Extract(context.Background(), ExtractOptions{Dir: t.TempDir()}); !errors.Is(err, ErrUnsafeResourceName) {
		t.Fatalf("expected ErrUnsafeResourceName, got %v", err)
	}
}

func TestExtract_PayloadOverrun(t *testing.T) {
	t.Parallel()

	header := &ArchiveHeader{
		ExtractionPath: "rc_extracted",
		MainFile:       "app.exe",
		Resources: []ResourceEntry{
			{Filename: "app.exe", Size: 64},
			{Filename: "data.txt", Size: 64},
		},
		ExecutionStyle: StyleNormal,
	}
	raw := rawArchive(t, header, bytes.Repeat([]byte{0x11}, 80))

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	dstDir := t.TempDir()
	gotDir, err := r.Extract(context.Background(), ExtractOptions{Dir: dstDir})
	if !errors.Is(err, ErrPayloadOverrun) {
		t.Fatalf("expected ErrPayloadOverrun, got %v", err)
	}

	// Files before the failing entry stay on disk; the failing one is absent.
	if _, err := os.Stat(filepath.Join(gotDir, "app.exe")); err != nil {
		t.Fatalf("app.exe must remain written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(gotDir, "data.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("data.txt must not exist, stat err=%v", err)
	}
}

func TestExtract_MainFileExecutable(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("file mode bits are not meaningful on windows")
	}

	raw, _, _ := packConcrete(t, false)

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	gotDir, err := r.Extract(context.Background(), ExtractOptions{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	fi, err := os.Stat(filepath.Join(gotDir, "app.exe"))
	if err != nil {
		t.Fatalf("stat main file: %v", err)
	}
	if fi.Mode().Perm()&0o100 == 0 {
		t.Fatalf("main file mode=%v, want owner-executable", fi.Mode())
	}

	fi, err = os.Stat(filepath.Join(gotDir, "data.txt"))
	if err != nil {
		t.Fatalf("stat data file: %v", err)
	}
	if fi.Mode().Perm()&0o111 != 0 {
		t.Fatalf("data file mode=%v, want non-executable", fi.Mode())
	}
}

func TestExtract_ContextCanceled(t *testing.T) {
	t.Parallel()

	raw, _, _ := packConcrete(t, false)

	r, err := NewReaderFromReaderAt(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Extract(ctx, ExtractOptions{Dir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("RSCARC_TEST_BASE", "base")

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "plain/dir", want: "plain/dir"},
		{name: "dollar var", in: "$RSCARC_TEST_BASE/dir", want: "base/dir"},
		{name: "braced var", in: "${RSCARC_TEST_BASE}/dir", want: "base/dir"},
		{name: "percent var", in: "%RSCARC_TEST_BASE%/dir", want: "base/dir"},
		{name: "two percent vars", in: "%RSCARC_TEST_BASE%/%RSCARC_TEST_BASE%", want: "base/base"},
		{name: "unpaired percent", in: "50%done", want: "50%done"},
		{name: "unknown var", in: "%RSCARC_TEST_NOPE%/dir", want: "/dir"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpandPath(tc.in); got != tc.want {
				t.Fatalf("ExpandPath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
