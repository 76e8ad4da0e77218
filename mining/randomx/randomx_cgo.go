// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package randomx

/*
#cgo CFLAGS: -I../../third_party/randomx/src
#cgo LDFLAGS: -L../../third_party/randomx/build -lrandomx -lstdc++ -lm
#cgo darwin LDFLAGS: -framework IOKit

#include "randomx_wrapper.h"
#include <stdlib.h>
*/
import "C"
import (
	"errors"
	"runtime"
	"sync"
	"unsafe"
)

// Flags mirrors the RandomX C library's randomx_flags bitmask, used to
// select CPU features (AES-NI, large pages, JIT) and memory layout
// (full-dataset vs cache-only) when allocating a Cache/Dataset/VM triple.
type Flags int

const (
	FlagDefault     Flags = C.RANDOMX_FLAG_DEFAULT
	FlagLargePages  Flags = C.RANDOMX_FLAG_LARGE_PAGES
	FlagHardAES     Flags = C.RANDOMX_FLAG_HARD_AES
	FlagFullMem     Flags = C.RANDOMX_FLAG_FULL_MEM
	FlagJIT         Flags = C.RANDOMX_FLAG_JIT
	FlagSecure      Flags = C.RANDOMX_FLAG_SECURE
	FlagArgon2SSSE3 Flags = C.RANDOMX_FLAG_ARGON2_SSSE3
	FlagArgon2AVX2  Flags = C.RANDOMX_FLAG_ARGON2_AVX2
)

// RealCache owns a randomx_cache (~256 KiB), keyed by the RandomX key-block
// hash (pow.GetRandomXKeyBlockHeight resolves which block that is). A Pool
// entry in ModeLight holds one of these alone; ModeFull additionally builds
// a RealDataset from it.
type RealCache struct {
	ptr  *C.randomx_cache
	mu   sync.Mutex
	seed []byte
}

// NewCache allocates and initializes a RandomX cache from seed (the
// key-block hash bytes).
func NewCache(seed []byte) (*Cache, error) {
	if len(seed) == 0 {
		return nil, errors.New("seed cannot be empty")
	}

	flags := GetFlags()
	cachePtr := C.randomx_alloc_cache(C.randomx_flags(flags))
	if cachePtr == nil {
		return nil, errors.New("failed to allocate RandomX cache")
	}

	seedPtr := C.CBytes(seed)
	defer C.free(seedPtr)
	C.randomx_init_cache(cachePtr, seedPtr, C.size_t(len(seed)))

	realCache := &RealCache{
		ptr:  cachePtr,
		seed: append([]byte(nil), seed...),
	}
	runtime.SetFinalizer(realCache, (*RealCache).finalize)

	return &Cache{impl: realCache}, nil
}

func (c *RealCache) finalize() {
	if c.ptr != nil {
		C.randomx_release_cache(c.ptr)
		c.ptr = nil
	}
}

// RealDataset owns the ~2 GiB materialized RandomX dataset a ModeFull pool
// entry builds from a cache. Building one takes multiple seconds, which is
// exactly the cost the context pool (mining/randomx/pool.go) amortizes by
// reusing idle entries instead of rebuilding per acquisition.
type RealDataset struct {
	ptr *C.randomx_dataset
	mu  sync.Mutex
}

// NewDataset materializes a full RandomX dataset from cache. On Linux the
// resulting pages are locked and marked for transparent huge pages, since an
// unswapped, sequentially-accessed 2 GiB region both avoids a mining stall
// on page fault and measurably helps RandomX's own memory-hard access
// pattern (see lockDatasetMemory in randomx_cgo_linux.go).
func NewDataset(cache *Cache) (*Dataset, error) {
	if cache == nil || cache.impl == nil {
		return nil, errors.New("cache cannot be nil")
	}

	realCache := cache.impl.(*RealCache)
	flags := GetFlags() | FlagFullMem

	datasetPtr := C.randomx_alloc_dataset(C.randomx_flags(flags))
	if datasetPtr == nil {
		return nil, errors.New("failed to allocate RandomX dataset")
	}

	itemCount := C.randomx_dataset_item_count()
	C.randomx_init_dataset(datasetPtr, realCache.ptr, 0, itemCount)

	realDataset := &RealDataset{ptr: datasetPtr}
	lockDatasetMemory(unsafe.Pointer(datasetPtr), uint64(itemCount)*datasetItemSize)
	runtime.SetFinalizer(realDataset, (*RealDataset).finalize)

	return &Dataset{impl: realDataset}, nil
}

func (d *RealDataset) finalize() {
	if d.ptr != nil {
		C.randomx_release_dataset(d.ptr)
		d.ptr = nil
	}
}

// RealVM owns a randomx_vm bound to one cache and, in full mode, one
// dataset. A VM is never shared outside its owning pool entry: entries are
// mutated only while the pool mutex is held, and
// CalcHash's own mutex exists purely as a second line of defense against a
// caller that bypasses the pool.
type RealVM struct {
	ptr     *C.randomx_vm
	cache   *RealCache
	dataset *RealDataset
	mu      sync.Mutex
}

// NewVM creates a VM bound to cache and, if non-nil, dataset.
func NewVM(cache *Cache, dataset *Dataset) (*VM, error) {
	if cache == nil || cache.impl == nil {
		return nil, errors.New("cache cannot be nil")
	}

	realCache := cache.impl.(*RealCache)
	var realDataset *RealDataset
	var datasetPtr *C.randomx_dataset

	if dataset != nil && dataset.impl != nil {
		realDataset = dataset.impl.(*RealDataset)
		datasetPtr = realDataset.ptr
	}

	flags := GetFlags()
	if datasetPtr != nil {
		flags |= FlagFullMem
	}

	vmPtr := C.randomx_create_vm(C.randomx_flags(flags), realCache.ptr, datasetPtr)
	if vmPtr == nil {
		return nil, errors.New("failed to create RandomX VM")
	}

	realVM := &RealVM{
		ptr:     vmPtr,
		cache:   realCache,
		dataset: realDataset,
	}
	runtime.SetFinalizer(realVM, (*RealVM).finalize)

	return &VM{impl: realVM}, nil
}

// CalcHash computes the RandomX hash of input using vm.
func (vm *VM) CalcHash(input []byte) []byte {
	if vm == nil || vm.impl == nil {
		return nil
	}

	realVM := vm.impl.(*RealVM)
	realVM.mu.Lock()
	defer realVM.mu.Unlock()

	if len(input) == 0 {
		return nil
	}

	output := make([]byte, 32)
	inputPtr := C.CBytes(input)
	defer C.free(inputPtr)

	C.randomx_calculate_hash(realVM.ptr, inputPtr, C.size_t(len(input)),
		unsafe.Pointer(&output[0]))

	return output
}

func (vm *RealVM) finalize() {
	if vm.ptr != nil {
		C.randomx_destroy_vm(vm.ptr)
		vm.ptr = nil
	}
}

// GetFlags returns the RandomX-recommended flags for the running CPU.
func GetFlags() Flags {
	return Flags(C.randomx_get_flags())
}

// backendIsReal is true in every build of this file: it is only compiled
// when CGO links the real RandomX library (see detect.go).
const backendIsReal = true

// datasetItemSize is the fixed per-item byte size the RandomX reference
// implementation uses; it is needed only to size the mlock/madvise region,
// never passed back into the C API.
const datasetItemSize = 64

// Cache, Dataset, and VM wrap the *Real* types above behind an opaque
// interface{} so that pool.go can hold a Cache/Dataset/VM regardless of
// whether this file or randomx_stub.go built them.
type Cache struct {
	impl interface{}
}

type Dataset struct {
	impl interface{}
}

type VM struct {
	impl interface{}
}

func (c *Cache) Close() {
	if c.impl != nil {
		if realCache, ok := c.impl.(*RealCache); ok {
			realCache.finalize()
		}
	}
}

func (d *Dataset) Close() {
	if d.impl != nil {
		if realDataset, ok := d.impl.(*RealDataset); ok {
			realDataset.finalize()
		}
	}
}

func (vm *VM) Close() {
	if vm.impl != nil {
		if realVM, ok := vm.impl.(*RealVM); ok {
			realVM.finalize()
		}
	}
}
