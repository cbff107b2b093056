// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakePlatform records privilege queries, launches, and notices.
type fakePlatform struct {
	elevated bool
	queryErr error

	launchErr    error
	launched     []fakeLaunch
	notices      []string
	queriedCount int
}

type fakeLaunch struct {
	path  string
	args  []string
	style ExecutionStyle
}

func (p *fakePlatform) QueryElevated() (bool, error) {
	p.queriedCount++
	return p.elevated, p.queryErr
}

func (p *fakePlatform) Launch(path string, args []string, style ExecutionStyle) error {
	if p.launchErr != nil {
		return p.launchErr
	}

	p.launched = append(p.launched, fakeLaunch{path: path, args: args, style: style})

	return nil
}

func (p *fakePlatform) Notice(title, message string) {
	p.notices = append(p.notices, title+": "+message)
}

func TestParseExecutionStyle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want ExecutionStyle
	}{
		{in: "no-window", want: StyleHidden},
		{in: "No-Window", want: StyleHidden},
		{in: "minimized", want: StyleMinimized},
		{in: "MINIMIZED", want: StyleMinimized},
		{in: "normal", want: StyleNormal},
		{in: "maximized", want: StyleMaximized},
		{in: "  maximized  ", want: StyleMaximized},
		{in: "", want: StyleNormal},
		{in: "fullscreen", want: StyleNormal},
	}

	for _, tc := range testCases {
		if got := ParseExecutionStyle(tc.in); got != tc.want {
			t.Errorf("ParseExecutionStyle(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLaunchMain_Plain(t *testing.T) {
	t.Parallel()

	p := &fakePlatform{}
	header := ArchiveHeader{MainFile: "app.exe", ExecutionStyle: StyleMaximized}

	if err := LaunchMain(header, "workdir", p); err != nil {
		t.Fatalf("LaunchMain: %v", err)
	}

	if len(p.launched) != 1 {
		t.Fatalf("launches=%d, want 1", len(p.launched))
	}

	launch := p.launched[0]
	if !filepath.IsAbs(launch.path) || filepath.Base(launch.path) != "app.exe" {
		t.Fatalf("launch path=%q, want absolute path to app.exe", launch.path)
	}
	if launch.style != StyleMaximized {
		t.Fatalf("launch style=%q, want %q", launch.style, StyleMaximized)
	}
	if p.queriedCount != 0 {
		t.Fatal("elevation must not be queried without run_as_admin")
	}
	if len(p.notices) != 0 {
		t.Fatalf("unexpected notices: %v", p.notices)
	}
}

func TestLaunchMain_UnknownStyleFallsBack(t *testing.T) {
	t.Parallel()

	p := &fakePlatform{}
	header := ArchiveHeader{MainFile: "app.exe", ExecutionStyle: "fullscreen"}

	if err := LaunchMain(header, "workdir", p); err != nil {
		t.Fatalf("LaunchMain: %v", err)
	}

	if p.launched[0].style != StyleNormal {
		t.Fatalf("launch style=%q, want fallback %q", p.launched[0].style, StyleNormal)
	}
}

func TestLaunchMain_AdminGate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		platform *fakePlatform
		wantErr  error
	}{
		{
			name:     "not elevated",
			platform: &fakePlatform{elevated: false},
			wantErr:  ErrNotElevated,
		},
		{
			name:     "query failure",
			platform: &fakePlatform{queryErr: errors.New("token query refused")},
			wantErr:  ErrElevationQuery,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			header := ArchiveHeader{MainFile: "app.exe", RunAsAdmin: true}

			err := LaunchMain(header, "workdir", tc.platform)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrPrivilege) {
				t.Fatal("elevation failures must wrap ErrPrivilege")
			}

			if len(tc.platform.launched) != 0 {
				t.Fatal("refused launch must not dispatch the main file")
			}
			if len(tc.platform.notices) != 1 || !strings.Contains(tc.platform.notices[0], adminNoticeTitle) {
				t.Fatalf("notices=%v, want one admin notice", tc.platform.notices)
			}
		})
	}
}

func TestLaunchMain_AdminElevated(t *testing.T) {
	t.Parallel()

	p := &fakePlatform{elevated: true}
	header := ArchiveHeader{MainFile: "app.exe", RunAsAdmin: true}

	if err := LaunchMain(header, "workdir", p); err != nil {
		t.Fatalf("LaunchMain: %v", err)
	}

	if p.queriedCount != 1 || len(p.launched) != 1 {
		t.Fatalf("queries=%d launches=%d, want 1/1", p.queriedCount, len(p.launched))
	}
	if len(p.notices) != 0 {
		t.Fatalf("unexpected notices: %v", p.notices)
	}
}

func TestLaunchMain_ShellScript(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("shell script dispatch applies to unix platforms")
	}

	p := &fakePlatform{}
	header := ArchiveHeader{MainFile: "setup.sh"}

	if err := LaunchMain(header, "workdir", p); err != nil {
		t.Fatalf("LaunchMain: %v", err)
	}

	launch := p.launched[0]
	if launch.path != "sh" {
		t.Fatalf("launch target=%q, want sh interpreter", launch.path)
	}
	if len(launch.args) != 1 || filepath.Base(launch.args[0]) != "setup.sh" {
		t.Fatalf("launch args=%v, want script path", launch.args)
	}
}

func TestLaunchMain_LaunchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("spawn refused")
	p := &fakePlatform{launchErr: boom}
	header := ArchiveHeader{MainFile: "app.exe"}

	err := LaunchMain(header, "workdir", p)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped launch error, got %v", err)
	}
}

func TestLaunchMain_NilPlatform(t *testing.T) {
	t.Parallel()

	if err := LaunchMain(ArchiveHeader{MainFile: "app.exe"}, "workdir", nil); !errors.Is(err, ErrNilPlatform) {
		t.Fatalf("expected ErrNilPlatform, got %v", err)
	}
}
