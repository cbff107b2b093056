// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

//go:build windows

package rscarc

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// windowsPlatform implements Platform using ShellExecuteW, MessageBoxW, and
// the process token elevation query.
type windowsPlatform struct{}

// DefaultPlatform returns the native platform implementation.
func DefaultPlatform() Platform {
	return windowsPlatform{}
}

// QueryElevated reports the TokenElevation state of the current process token.
func (windowsPlatform) QueryElevated() (bool, error) {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false, err
	}
	defer func() { _ = token.Close() }()

	return token.IsElevated(), nil
}

// Launch dispatches the target via ShellExecuteW with the plain "open" verb.
// Elevation is gated before launch, never requested through the verb.
func (windowsPlatform) Launch(path string, args []string, style ExecutionStyle) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}

	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	var params *uint16
	if len(args) > 0 {
		params, err = windows.UTF16PtrFromString(windows.ComposeCommandLine(args))
		if err != nil {
			return err
		}
	}

	return windows.ShellExecute(0, verb, file, params, nil, showCmd(style))
}

// Notice presents a blocking MessageBoxW.
func (windowsPlatform) Notice(title, message string) {
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return
	}

	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return
	}

	_, _ = windows.MessageBox(0, text, caption, windows.MB_OK)
}

// showCmd maps an execution style to a SHOW_WINDOW_CMD value.
func showCmd(style ExecutionStyle) int32 {
	switch style {
	case StyleHidden:
		return windows.SW_HIDE
	case StyleMinimized:
		return windows.SW_SHOWMINIMIZED
	case StyleMaximized:
		return windows.SW_SHOWMAXIMIZED
	default:
		return windows.SW_SHOWNORMAL
	}
}

// scriptInterpreter routes batch scripts through cmd.exe.
func scriptInterpreter(path string) (string, []string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".bat" || ext == ".cmd" {
		return "cmd", []string{"/c", path}, true
	}

	return "", nil, false
}
