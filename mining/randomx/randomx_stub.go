// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !cgo
// +build !cgo

package randomx

// This file backs the randomx package when the binary is built without
// CGO, so the rest of the tree (the pool, the pow dispatcher, the CLI
// harness) still links and exercises its concurrency and key-reuse logic
// without the real RandomX library present. The hash it produces is
// deterministic and key-dependent but is NOT genuine RandomX output;
// ImplementationInfo/IsRealImplementation (detect.go) exist so a caller can
// refuse to treat a stub-backed process as consensus-valid for mainnet.

import "crypto/sha256"

// Cache stands in for a RandomX cache. The stub only needs the seed (the
// key-block hash) since its CalcHash folds the seed in directly rather than
// deriving a cache/dataset structure from it.
type Cache struct {
	seed []byte
}

// NewCache builds a stub cache from seed.
func NewCache(seed []byte) (*Cache, error) {
	return &Cache{seed: append([]byte(nil), seed...)}, nil
}

// Close is a no-op: the stub holds no native resources.
func (c *Cache) Close() {}

// Dataset stands in for a RandomX full-mode dataset.
type Dataset struct {
	cache *Cache
}

// NewDataset builds a stub dataset bound to cache.
func NewDataset(cache *Cache) (*Dataset, error) {
	return &Dataset{cache: cache}, nil
}

// Close is a no-op: the stub holds no native resources.
func (d *Dataset) Close() {}

// VM stands in for a RandomX VM bound to a cache and, in full mode, a
// dataset.
type VM struct {
	cache   *Cache
	dataset *Dataset
}

// NewVM binds a stub VM to cache and dataset (dataset may be nil in light
// mode).
func NewVM(cache *Cache, dataset *Dataset) (*VM, error) {
	return &VM{cache: cache, dataset: dataset}, nil
}

// stubDomain separates the stub's digest space from a plain SHA256 of the
// same bytes, so a caller cannot mistake stub output for an unrelated
// double-SHA256d hash of the same input.
var stubDomain = []byte("sylm-randomx-stub-v1")

// CalcHash returns a deterministic 32-byte digest of the VM's key material
// (cache seed, plus a dataset marker in full mode) and input: the same key
// and input always yield the same digest, without implementing RandomX
// itself.
func (vm *VM) CalcHash(input []byte) []byte {
	h := sha256.New()
	h.Write(stubDomain)
	if vm.cache != nil {
		h.Write(vm.cache.seed)
	}
	if vm.dataset != nil {
		h.Write([]byte{1})
	}
	h.Write(input)
	return h.Sum(nil)
}

// Close is a no-op: the stub holds no native resources.
func (vm *VM) Close() {}

// Flags mirrors the real implementation's CPU-feature/memory-layout
// bitmask; the stub does not interpret it.
type Flags int

// GetFlags always returns the zero value: the stub has no CPU features to
// detect.
func GetFlags() Flags {
	return 0
}

// backendIsReal is false in every build of this file: it is only compiled
// when CGO is disabled, so no real RandomX library is linked (see
// detect.go).
const backendIsReal = false
