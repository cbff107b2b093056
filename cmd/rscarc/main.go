// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

// Command rscarc builds and inspects self-extracting resource bundles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/woozymasta/pathrules"

	"github.com/rscarc/rscarc"
	"github.com/rscarc/rscarc/internal/logger"
)

func main() {
	// .env holds optional defaults (RSCARC_STUB, RSCARC_OUT, RSCARC_LOG_LEVEL).
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	logger.Init(os.Getenv("RSCARC_LOG_LEVEL"))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "pack":
		err = runPack(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "unpack":
		err = runUnpack(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rscarc pack -stub stub.exe -out packed.exe -main app.exe [flags] resource...")
	fmt.Fprintln(os.Stderr, "  rscarc list packed.exe")
	fmt.Fprintln(os.Stderr, "  rscarc unpack [-dir out] [-filter patterns] packed.exe")
}

// envDefault returns the environment value or a fallback.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// runPack builds a packed executable from command-line flags.
func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	stubPath := fs.String("stub", envDefault("RSCARC_STUB", "stub.exe"), "bootstrap stub binary")
	outPath := fs.String("out", envDefault("RSCARC_OUT", "packed.exe"), "output executable path")
	mainFile := fs.String("main", "", "resource filename to launch after extraction")
	extractDir := fs.String("dir", "rc_extracted", "extraction path stored in the header")
	style := fs.String("style", "normal", "execution style: no-window, minimized, normal, maximized")
	admin := fs.Bool("admin", false, "require administrator rights at launch")
	compress := fs.Bool("compress", false, "gzip-compress the payload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources := fs.Args()
	if len(resources) == 0 {
		return fmt.Errorf("no resource files given")
	}

	stub, err := os.ReadFile(*stubPath)
	if err != nil {
		return fmt.Errorf("read stub %s: %w", *stubPath, err)
	}

	req := rscarc.BuildRequest{
		Resources:      resources,
		MainFile:       *mainFile,
		ExtractionPath: *extractDir,
		ExecutionStyle: rscarc.ParseExecutionStyle(*style),
		RunAsAdmin:     *admin,
		Compress:       *compress,
		StubBytes:      stub,
		OutputPath:     *outPath,
	}

	res, err := rscarc.PackFile(context.Background(), req, rscarc.PackOptions{
		OnResourceDone: func(p rscarc.ResourceProgress) {
			logger.Log.Debug("resource packed",
				"filename", p.Filename, "size", p.Size, "index", p.Index, "total", p.Total)
		},
	})
	if err != nil {
		return err
	}

	logger.Log.Info("packed",
		"output", res.OutputPath,
		"resources", res.Resources,
		"raw_bytes", res.RawPayloadBytes,
		"stored_bytes", res.StoredPayloadBytes,
		"duration", res.Duration)

	return nil
}

// runList dumps footer and header metadata of a packed binary.
func runList(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rscarc list packed.exe")
	}

	r, err := rscarc.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	h := r.Header()
	fmt.Printf("header length:       %d\n", r.HeaderLength())
	fmt.Printf("archive data length: %d\n", r.ArchiveDataLength())
	fmt.Printf("extraction path:     %s\n", h.ExtractionPath)
	fmt.Printf("main file:           %s\n", h.MainFile)
	fmt.Printf("execution style:     %s\n", h.ExecutionStyle)
	fmt.Printf("run as admin:        %v\n", h.RunAsAdmin)
	fmt.Printf("compressed:          %v\n", h.IsCompressed)
	fmt.Printf("resources:           %d\n", len(h.Resources))
	for _, entry := range h.Resources {
		fmt.Printf("  %-40s %10d\n", entry.Filename, entry.Size)
	}

	return nil
}

// runUnpack extracts a packed binary's resources without launching anything.
func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	dir := fs.String("dir", "", "extraction directory override")
	filter := fs.String("filter", "", "comma-separated include patterns")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: rscarc unpack [-dir out] [-filter patterns] packed.exe")
	}

	r, err := rscarc.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	opts := rscarc.ExtractOptions{
		Dir:   *dir,
		Rules: filterRules(*filter),
		OnResourceDone: func(entry rscarc.ResourceEntry, outputPath string) {
			logger.Log.Info("extracted", "filename", entry.Filename, "size", entry.Size, "path", outputPath)
		},
	}

	dstDir, err := r.Extract(context.Background(), opts)
	if err != nil {
		return err
	}

	logger.Log.Info("unpacked", "dir", dstDir)

	return nil
}

// filterRules builds include rules from a comma-separated pattern list.
func filterRules(raw string) []pathrules.Rule {
	var rules []pathrules.Rule
	for _, pattern := range strings.Split(raw, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	return rules
}
