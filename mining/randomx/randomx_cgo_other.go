// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build cgo && !linux
// +build cgo,!linux

package randomx

import "unsafe"

// lockDatasetMemory is a no-op outside Linux: mlock/madvise hints for the
// full-mode dataset are a Linux-specific optimization (see
// randomx_cgo_linux.go), not a consensus requirement.
func lockDatasetMemory(ptr unsafe.Pointer, size uint64) {}
