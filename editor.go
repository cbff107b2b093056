// SPDX-License-Identifier: MIT
// Copyright (c) 2026 rscarc authors
// Source: github.com/rscarc/rscarc

package rscarc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Editor accumulates staged edits of an existing packed binary and applies
// them on Commit by recompiling the appended archive over the same stub.
type Editor struct {
	path     string
	ops      []editOperation
	opts     EditOptions
	settings editorSettings
}

// editOperation stores one staged editor operation.
type editOperation struct {
	filename   string
	sourcePath string
	kind       editOperationKind
}

// editOperationKind identifies staged edit action type.
type editOperationKind uint8

const (
	// editOperationAdd appends a new resource and fails on existing filename.
	editOperationAdd editOperationKind = iota + 1
	// editOperationReplace rewrites an existing resource in place.
	editOperationReplace
	// editOperationRemove drops a resource by filename.
	editOperationRemove
)

// editorSettings stores staged header overrides; nil means unchanged.
type editorSettings struct {
	mainFile       *string
	extractionPath *string
	style          *ExecutionStyle
	runAsAdmin     *bool
	compress       *bool
}

// OpenEditor creates a staged editor for a packed binary rewrite workflow.
func OpenEditor(path string, opts EditOptions) (*Editor, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrValidation)
	}

	opts.applyDefaults()

	return &Editor{
		path: trimmedPath,
		opts: opts,
		ops:  make([]editOperation, 0, 8),
	}, nil
}

// Add schedules adding a new resource from sourcePath; the archive filename
// is the path's base name. Commit fails on filename collision.
func (e *Editor) Add(sourcePath string) error {
	return e.stageResource(editOperationAdd, sourcePath)
}

// Replace schedules replacing an existing resource with sourcePath's content.
func (e *Editor) Replace(sourcePath string) error {
	return e.stageResource(editOperationReplace, sourcePath)
}

// Remove schedules dropping a resource by filename. Removing a missing
// filename is not an error.
func (e *Editor) Remove(filename string) error {
	if e == nil {
		return ErrNilReader
	}

	if err := safeResourceName(filename); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsafeResourceName, filename)
	}

	e.ops = append(e.ops, editOperation{
		kind:     editOperationRemove,
		filename: filename,
	})

	return nil
}

// SetMainFile stages a new launch target filename.
func (e *Editor) SetMainFile(name string) {
	e.settings.mainFile = &name
}

// SetExtractionPath stages a new extraction path.
func (e *Editor) SetExtractionPath(path string) {
	e.settings.extractionPath = &path
}

// SetExecutionStyle stages a new execution style.
func (e *Editor) SetExecutionStyle(style ExecutionStyle) {
	e.settings.style = &style
}

// SetRunAsAdmin stages the elevation gate flag.
func (e *Editor) SetRunAsAdmin(v bool) {
	e.settings.runAsAdmin = &v
}

// SetCompress stages the whole-payload compression flag.
func (e *Editor) SetCompress(v bool) {
	e.settings.compress = &v
}

// stageResource validates and appends one add/replace operation.
func (e *Editor) stageResource(kind editOperationKind, sourcePath string) error {
	if e == nil {
		return ErrNilReader
	}

	name := filepath.Base(filepath.FromSlash(sourcePath))
	if err := safeResourceName(name); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsafeResourceName, sourcePath)
	}

	e.ops = append(e.ops, editOperation{
		kind:       kind,
		filename:   name,
		sourcePath: sourcePath,
	})

	return nil
}

// Commit applies all staged operations in one rewrite transaction. The
// original file is moved to a backup slot first and restored on failure.
func (e *Editor) Commit(ctx context.Context) (*PackResult, error) {
	if e == nil {
		return nil, ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	backupPath := e.path + ".bak"
	if err := prepareBackupSlot(backupPath, e.opts.BackupKeep); err != nil {
		return nil, err
	}

	if err := os.Rename(e.path, backupPath); err != nil {
		return nil, fmt.Errorf("%w: move to backup: %w", ErrIO, err)
	}

	res, err := e.commitFromBackup(ctx, backupPath)
	if err != nil {
		rollbackErr := rollbackFromBackup(e.path, backupPath)
		if rollbackErr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %w)", err, rollbackErr)
		}

		return nil, err
	}

	if e.opts.BackupKeep == 0 {
		if err := removeIfExists(backupPath); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// commitFromBackup recompiles the packed binary from the backup source.
func (e *Editor) commitFromBackup(ctx context.Context, backupPath string) (*PackResult, error) {
	src, err := Open(backupPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	stub := make([]byte, src.archiveStart)
	if _, err := src.file.ReadAt(stub, 0); err != nil {
		return nil, fmt.Errorf("%w: read stub: %w", ErrIO, err)
	}

	blobs, err := e.buildEditPlan(ctx, src)
	if err != nil {
		return nil, err
	}

	header, compress := e.resolveHeader(src.Header())
	if err := validateEditedArchive(header, blobs); err != nil {
		return nil, err
	}

	archiveData, f, res, err := assembleArchive(&header, blobs, compress, e.opts.PackOptions)
	if err != nil {
		return nil, err
	}

	output := make([]byte, 0, len(stub)+len(archiveData)+footerSize)
	output = append(output, stub...)
	output = append(output, archiveData...)
	trailer := f.encode()
	output = append(output, trailer[:]...)

	if err := writeFileSync(e.path, output, 0o755); err != nil {
		return nil, err
	}

	res.OutputPath = e.path

	return res, nil
}

// buildEditPlan applies staged operations to source resources in order.
func (e *Editor) buildEditPlan(ctx context.Context, src *Reader) ([]resourceBlob, error) {
	payload, err := src.payloadBytes()
	if err != nil {
		return nil, err
	}

	blobs := make([]resourceBlob, 0, len(src.header.Resources))
	var offset int64
	for _, entry := range src.header.Resources {
		end := offset + int64(entry.Size)
		if end > int64(len(payload)) {
			return nil, fmt.Errorf("%w: resource %s needs bytes %d..%d of %d",
				ErrPayloadOverrun, entry.Filename, offset, end, len(payload))
		}

		blobs = append(blobs, resourceBlob{filename: entry.Filename, data: payload[offset:end]})
		offset = end
	}

	for _, op := range e.ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch op.kind {
		case editOperationAdd:
			if findBlob(blobs, op.filename) >= 0 {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateResource, op.filename)
			}

			data, err := os.ReadFile(op.sourcePath)
			if err != nil {
				return nil, fmt.Errorf("%w: read resource %s: %w", ErrIO, op.sourcePath, err)
			}

			blobs = append(blobs, resourceBlob{filename: op.filename, data: data})
		case editOperationReplace:
			idx := findBlob(blobs, op.filename)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %q", ErrResourceNotFound, op.filename)
			}

			data, err := os.ReadFile(op.sourcePath)
			if err != nil {
				return nil, fmt.Errorf("%w: read resource %s: %w", ErrIO, op.sourcePath, err)
			}

			blobs[idx].data = data
		case editOperationRemove:
			if idx := findBlob(blobs, op.filename); idx >= 0 {
				blobs = append(blobs[:idx], blobs[idx+1:]...)
			}
		default:
			return nil, fmt.Errorf("unknown edit operation kind: %d", op.kind)
		}
	}

	return blobs, nil
}

// resolveHeader merges staged settings over the source header.
func (e *Editor) resolveHeader(src ArchiveHeader) (ArchiveHeader, bool) {
	header := ArchiveHeader{
		ExtractionPath: src.ExtractionPath,
		MainFile:       src.MainFile,
		ExecutionStyle: src.ExecutionStyle,
		RunAsAdmin:     src.RunAsAdmin,
	}

	if e.settings.extractionPath != nil {
		header.ExtractionPath = *e.settings.extractionPath
	}
	if e.settings.mainFile != nil {
		header.MainFile = *e.settings.mainFile
	}
	if e.settings.style != nil {
		header.ExecutionStyle = *e.settings.style
	}
	if e.settings.runAsAdmin != nil {
		header.RunAsAdmin = *e.settings.runAsAdmin
	}

	compress := src.IsCompressed
	if e.settings.compress != nil {
		compress = *e.settings.compress
	}

	return header, compress
}

// validateEditedArchive checks that the edited archive is still launchable.
func validateEditedArchive(header ArchiveHeader, blobs []resourceBlob) error {
	if len(blobs) == 0 {
		return ErrNoResources
	}

	if findBlob(blobs, header.MainFile) < 0 {
		return fmt.Errorf("%w: %q", ErrMainFileNotFound, header.MainFile)
	}

	return nil
}

// findBlob returns the index of filename in blobs, or -1.
func findBlob(blobs []resourceBlob, filename string) int {
	for i := range blobs {
		if blobs[i].filename == filename {
			return i
		}
	}

	return -1
}

// writeFileSync writes data and syncs before close.
func writeFileSync(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrIO, path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}

	return nil
}

// prepareBackupSlot rotates/removes existing backup generations before new commit.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", ErrIO, from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("%w: remove %s: %w", ErrIO, path, err)
}

// rollbackFromBackup restores backup on failed commit.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
