// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package ansible

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ArchiveSuffix is appended to a log path to name the compressed copy of
// the previous run's log.
const ArchiveSuffix = ".1.zst"

// ResetLog prepares path for a new playbook run. A non-empty existing
// log is compressed to path+ArchiveSuffix, replacing any older archive,
// and the log is then truncated. A missing log is created empty. An
// empty path is a no-op.
func ResetLog(path string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() > 0:
		if err := archiveLog(path); err != nil {
			return err
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("inspecting log %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("truncating log %s: %w", path, err)
	}
	return file.Close()
}

// archiveLog streams path through a zstd encoder into a temporary file
// next to it and renames the result over the archive.
func archiveLog(path string) error {
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log %s: %w", path, err)
	}
	defer source.Close()

	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.zst")
	if err != nil {
		return fmt.Errorf("creating log archive for %s: %w", path, err)
	}
	temporaryPath := temporary.Name()
	success := false
	defer func() {
		if !success {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	encoder, err := zstd.NewWriter(temporary, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	if _, err := io.Copy(encoder, source); err != nil {
		encoder.Close()
		return fmt.Errorf("compressing log %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("compressing log %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("writing log archive for %s: %w", path, err)
	}
	if err := os.Rename(temporaryPath, path+ArchiveSuffix); err != nil {
		return fmt.Errorf("installing log archive for %s: %w", path, err)
	}
	success = true
	return nil
}

// ReadArchive returns the decompressed contents of the archive written
// for path by the last [ResetLog].
func ReadArchive(path string) ([]byte, error) {
	file, err := os.Open(path + ArchiveSuffix)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer decoder.Close()

	return io.ReadAll(decoder)
}
