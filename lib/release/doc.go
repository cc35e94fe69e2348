// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package release resolves which sb release the control repository
// pins and installs the matching binary.
//
// The control repository carries a one-line marker file naming the
// release tag (refs/tags/<version>). [ReadMarker] parses it; [Fetch]
// downloads the artifact for the host architecture, rejects anything
// that is not an application binary, and atomically replaces the
// installed binary when the content differs.
package release
