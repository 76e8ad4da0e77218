// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build cgo && linux
// +build cgo,linux

package randomx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// lockDatasetMemory pins a full-mode RandomX dataset's pages with mlock and
// hints the kernel to back them with transparent huge pages via madvise.
// Both are best-effort: a dataset that cannot be locked (no CAP_IPC_LOCK, or
// a tight RLIMIT_MEMLOCK) still functions, just with a higher chance of the
// ~2 GiB region being swapped out under memory pressure, an accepted cost
// of running in full mode.
func lockDatasetMemory(ptr unsafe.Pointer, size uint64) {
	if ptr == nil || size == 0 {
		return
	}
	region := unsafe.Slice((*byte)(ptr), size)
	_ = unix.Mlock(region)
	_ = unix.Madvise(region, unix.MADV_HUGEPAGE)
}
