// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing for binary files.
//
// sb compares the digest of a freshly downloaded release artifact with
// the digest of the installed binary. Identical content means the
// installed binary is left in place and the running command does not
// need to be relaunched after a self-update.
//
// The API surface is three functions:
//
//   - [HashFile] -- streams a file through BLAKE3, returning a [32]byte
//     digest with constant memory usage regardless of file size
//   - [SameContent] -- compares the digests of two files
//   - [FormatDigest] -- converts a digest to its hex-encoded form, used
//     in log output and "sb version"
//
// This package has no dependencies on other sb packages.
package binhash
