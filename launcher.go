// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"fmt"
	"path/filepath"
)

// adminNoticeTitle and adminNoticeMessage are shown when an elevation-gated
// launch is refused.
const (
	adminNoticeTitle   = "Admin Required"
	adminNoticeMessage = "Please run as administrator."
)

// Platform isolates privilege query and process dispatch so archive and
// extraction logic stays platform-neutral and testable with a substitute.
type Platform interface {
	// QueryElevated synchronously reports the current process's elevation state.
	QueryElevated() (bool, error)
	// Launch dispatches path with args using the OS's default open/execute
	// mechanism and the given window-visibility directive. Fire-and-forget:
	// the spawned process is not waited for or supervised.
	Launch(path string, args []string, style ExecutionStyle) error
	// Notice presents a blocking user-facing notice.
	Notice(title, message string)
}

// LaunchMain starts the archive's main file from the extraction directory.
// When the header requests administrator rights, a failed or negative
// elevation query aborts the launch with a blocking notice; no
// self-elevation or relaunch is attempted. A launch failure is returned but
// does not undo the already-completed extraction.
func LaunchMain(header ArchiveHeader, dir string, p Platform) error {
	if p == nil {
		return ErrNilPlatform
	}

	style := ParseExecutionStyle(string(header.ExecutionStyle))

	if header.RunAsAdmin {
		elevated, err := p.QueryElevated()
		if err != nil {
			// A failed query is treated the same as "not elevated".
			p.Notice(adminNoticeTitle, adminNoticeMessage)
			return fmt.Errorf("%w: %w", ErrElevationQuery, err)
		}

		if !elevated {
			p.Notice(adminNoticeTitle, adminNoticeMessage)
			return ErrNotElevated
		}
	}

	mainPath, err := filepath.Abs(filepath.Join(dir, header.MainFile))
	if err != nil {
		return fmt.Errorf("resolve main file path: %w", err)
	}

	target := mainPath
	var args []string
	if interpreter, interpreterArgs, ok := scriptInterpreter(mainPath); ok {
		target = interpreter
		args = interpreterArgs
	}

	if err := p.Launch(target, args, style); err != nil {
		return fmt.Errorf("launch %s: %w", mainPath, err)
	}

	return nil
}
