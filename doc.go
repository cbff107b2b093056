// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

/*
Package rscarc packs a set of files into a self-contained executable and
reads such executables back. An archive (JSON header plus concatenated
resource payload, optionally one gzip stream) is appended to a bootstrap
stub binary and terminated with a fixed 24-byte footer: LE32 header length,
LE32 archive data length, and a 16-byte marker. The footer makes archive
discovery O(1): seek to the last 24 bytes, verify the marker, and derive
the archive start from the declared length.

Resources are laid out back to back in header order with no padding; the
header records each entry's exact size, and extraction walks a running
offset through the decompressed payload. That walk is the format's only
integrity check; there are no per-entry checksums.

# Packing

Build a packed executable from an immutable build request:

	res, err := rscarc.PackFile(ctx, rscarc.BuildRequest{
	    Resources:      []string{"build/app.exe", "build/data.txt"},
	    MainFile:       "app.exe",
	    ExtractionPath: "rc_extracted",
	    ExecutionStyle: rscarc.StyleNormal,
	    Compress:       true,
	    StubBytes:      stub,
	    OutputPath:     "packed.exe",
	}, rscarc.PackOptions{})
	if err != nil {
	    return err
	}
	_ = res.StoredPayloadBytes

Validation happens before any output I/O, so a failed pack never leaves a
partial file.

# Reading and extracting

Open a packed binary (or the current process image via OpenSelf) and
extract its resources:

	r, err := rscarc.OpenSelf()
	if err != nil {
	    return err
	}
	defer r.Close()

	dir, err := r.Extract(ctx, rscarc.ExtractOptions{})
	if err != nil {
	    return err
	}

Selective extraction uses github.com/woozymasta/pathrules filters:

	_, err = r.Extract(ctx, rscarc.ExtractOptions{
	    Dir: "out",
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.txt"},
	    },
	})

# Launching

Process dispatch and the elevation query live behind the Platform
interface; DefaultPlatform returns the native implementation:

	if err := rscarc.LaunchMain(r.Header(), dir, rscarc.DefaultPlatform()); err != nil {
	    // extraction already completed; the launch failure stands alone
	    return err
	}

# Editing

Rewrite an existing packed binary in one transaction:

	editor, err := rscarc.OpenEditor("packed.exe", rscarc.EditOptions{BackupKeep: 1})
	if err != nil {
	    return err
	}
	if err := editor.Replace("build/data.txt"); err != nil {
	    return err
	}
	editor.SetExecutionStyle(rscarc.StyleMinimized)
	if _, err := editor.Commit(ctx); err != nil {
	    return err
	}

All errors fall into four taxonomy categories usable with errors.Is:
ErrValidation, ErrIO, ErrCorruptArchive, and ErrPrivilege.
*/
package rscarc
