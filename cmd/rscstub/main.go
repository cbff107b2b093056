// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

// Command rscstub is the bootstrap executable prefixed to packed bundles.
// At startup it reads its own binary image, recovers the appended archive,
// extracts the resources, and launches the designated main file.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/rscarc/rscarc"
	"github.com/rscarc/rscarc/internal/logger"
)

func main() {
	logger.Init(os.Getenv("RSCSTUB_LOG_LEVEL"))

	r, err := rscarc.OpenSelf()
	if err != nil {
		if errors.Is(err, rscarc.ErrCorruptArchive) {
			logger.Log.Error("no appended resource archive found", "error", err)
		} else {
			logger.Log.Error("open own image", "error", err)
		}
		os.Exit(1)
	}
	defer func() { _ = r.Close() }()

	dir, err := r.Extract(context.Background(), rscarc.ExtractOptions{})
	if err != nil {
		logger.Log.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	header := r.Header()
	logger.Log.Info("launching main file", "file", header.MainFile, "dir", dir)

	if err := rscarc.LaunchMain(header, dir, rscarc.DefaultPlatform()); err != nil {
		// Extraction already completed; report the launch failure and stop.
		logger.Log.Error("launch failed", "error", err)
		os.Exit(1)
	}
}
