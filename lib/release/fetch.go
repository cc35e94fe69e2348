// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/saltyorg/sb/lib/binhash"
	"github.com/saltyorg/sb/lib/config"
)

// ErrNotBinary is returned when the downloaded artifact is not an
// application/* payload (typically an HTML error page).
var ErrNotBinary = errors.New("release artifact is not a binary")

// DefaultTimeout bounds a download when FetchOptions.Client is nil.
const DefaultTimeout = 2 * time.Minute

// FetchOptions configures [Fetch].
type FetchOptions struct {
	// URLTemplate contains {version} and {arch} placeholders.
	// Defaults to [config.DefaultReleaseURL].
	URLTemplate string

	Version string
	Arch    string

	// Binary is the installed binary to replace.
	Binary string

	Client *http.Client
	Logger *slog.Logger
}

// Outcome describes what [Fetch] did.
type Outcome struct {
	URL      string `json:"url"`
	MIME     string `json:"mime"`
	Digest   string `json:"digest"`
	Replaced bool   `json:"replaced"`
}

// URL expands the template for version and arch.
func URL(template, version, arch string) string {
	if template == "" {
		template = config.DefaultReleaseURL
	}
	return strings.NewReplacer(
		config.VersionPlaceholder, version,
		config.ArchPlaceholder, arch,
	).Replace(template)
}

// Fetch downloads the release artifact next to the installed binary
// and renames it into place. The installed binary is left untouched
// unless the artifact is an application binary whose content differs.
func Fetch(ctx context.Context, opts FetchOptions) (Outcome, error) {
	if opts.Version == "" || opts.Arch == "" || opts.Binary == "" {
		return Outcome{}, fmt.Errorf("release: version, arch and binary are required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	outcome := Outcome{URL: URL(opts.URLTemplate, opts.Version, opts.Arch)}
	logger.Info("downloading release", "url", outcome.URL)

	temporary, err := download(ctx, client, outcome.URL, opts.Binary)
	if err != nil {
		return outcome, err
	}
	keep := false
	defer func() {
		if !keep {
			os.Remove(temporary)
		}
	}()

	detected, err := mimetype.DetectFile(temporary)
	if err != nil {
		return outcome, fmt.Errorf("detecting artifact type: %w", err)
	}
	outcome.MIME = detected.String()
	if !strings.HasPrefix(outcome.MIME, "application/") {
		return outcome, fmt.Errorf("%w: %s served %s", ErrNotBinary, outcome.URL, outcome.MIME)
	}

	digest, err := binhash.HashFile(temporary)
	if err != nil {
		return outcome, err
	}
	outcome.Digest = binhash.FormatDigest(digest)

	same, err := binhash.SameContent(temporary, opts.Binary)
	if err != nil {
		return outcome, err
	}
	if same {
		logger.Info("installed binary already current", "digest", outcome.Digest)
		return outcome, nil
	}

	if err := os.Chmod(temporary, 0o755); err != nil {
		return outcome, fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(temporary, opts.Binary); err != nil {
		return outcome, fmt.Errorf("installing %s: %w", opts.Binary, err)
	}
	keep = true
	outcome.Replaced = true
	logger.Info("binary replaced", "path", opts.Binary, "digest", outcome.Digest, "mime", outcome.MIME)
	return outcome, nil
}

// download writes the response body to a temporary file in the
// binary's directory so the final rename stays on one filesystem.
func download(ctx context.Context, client *http.Client, url, binary string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP %d", url, response.StatusCode)
	}

	dir := filepath.Dir(binary)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	file, err := os.CreateTemp(dir, "."+filepath.Base(binary)+".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	if _, err := io.Copy(file, response.Body); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("syncing artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("closing artifact: %w", err)
	}
	return file.Name(), nil
}
