// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

//go:build !windows

package rscarc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// unixPlatform implements Platform for non-Windows systems.
type unixPlatform struct{}

// DefaultPlatform returns the native platform implementation.
func DefaultPlatform() Platform {
	return unixPlatform{}
}

// QueryElevated reports whether the process runs with root privileges.
func (unixPlatform) QueryElevated() (bool, error) {
	return os.Geteuid() == 0, nil
}

// Launch starts the target detached. Window-visibility directives have no
// meaning outside a Windows shell and are ignored here.
func (unixPlatform) Launch(path string, args []string, _ ExecutionStyle) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Process.Release()
}

// Notice writes a blocking-equivalent notice to standard error.
func (unixPlatform) Notice(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

// scriptInterpreter routes shell scripts through the system interpreter.
func scriptInterpreter(path string) (string, []string, bool) {
	if strings.EqualFold(filepath.Ext(path), ".sh") {
		return "sh", []string{path}, true
	}

	return "", nil, false
}
