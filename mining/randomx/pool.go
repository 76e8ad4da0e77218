// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package randomx

import (
	"errors"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog"
)

// log is a logger that is initialized with no output filters. This means
// the package will not perform any logging by default until the caller
// requests it, using the package-level btclog idiom.
var log = btclog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output. Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

// DefaultMaxContexts is the default bound on concurrently held RandomX
// contexts per pool.
const DefaultMaxContexts = 8

// Mode selects whether a pool's contexts run RandomX in light mode (a
// ~256 KiB cache only, used for validation) or full mode (the ~2 GiB
// materialized dataset, used for mining). A single Pool is one mode for its
// whole lifetime: mixing light and full contexts in one bounded cache would
// make the memory ceiling impossible to reason about.
type Mode int

const (
	// ModeLight runs validation-grade contexts: cache only, no dataset.
	ModeLight Mode = iota

	// ModeFull runs mining-grade contexts: cache plus the full dataset.
	ModeFull
)

// Priority selects how long Acquire is willing to wait for a context, and
// governs wake order among waiters. Priorities form the strict total order
// PriorityConsensusCritical > PriorityHigh > PriorityNormal.
type Priority int

const (
	// PriorityNormal is used by RPC and other auxiliary callers. Bounded
	// by NormalTimeout.
	PriorityNormal Priority = iota

	// PriorityHigh is used by mining. Bounded by HighTimeout.
	PriorityHigh

	// PriorityConsensusCritical is used by block validation. It must
	// never time out: a spurious timeout here would reject an otherwise
	// valid block under load and risks forking the network.
	PriorityConsensusCritical
)

// Per-priority acquisition timeouts.
const (
	NormalTimeout = 30 * time.Second
	HighTimeout   = 120 * time.Second
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityConsensusCritical:
		return "consensus-critical"
	default:
		return "normal"
	}
}

// ErrExhausted is returned by NewPool when constructed with a non-positive
// capacity.
var ErrExhausted = errors.New("randomx: pool capacity must be positive")

// ErrTimedOut is returned by Acquire when a NORMAL or HIGH priority
// acquisition exceeds its timeout. Acquire never returns this for
// PriorityConsensusCritical.
var ErrTimedOut = errors.New("randomx: acquire timed out")

// ErrPoolClosed is returned by Acquire once Close has been called.
var ErrPoolClosed = errors.New("randomx: pool is closed")

type entryState int

const (
	stateIdle entryState = iota
	stateInUse
)

// poolEntry is one owned VM/cache(/dataset) triple. Mutated only while the
// owning Pool's mutex is held.
type poolEntry struct {
	state    entryState
	hasKey   bool
	keyHash  chainhash.Hash
	cache    *Cache
	dataset  *Dataset
	vm       *VM
	lastUsed time.Time
}

func (e *poolEntry) close() {
	if e.vm != nil {
		e.vm.Close()
	}
	if e.dataset != nil {
		e.dataset.Close()
	}
	if e.cache != nil {
		e.cache.Close()
	}
	e.vm, e.dataset, e.cache = nil, nil, nil
}

// Stats is a read-only snapshot of pool activity counters.
// Individual counter updates are sequenced under the pool mutex, but no
// cross-counter atomic snapshot is promised: Stats() takes them all under
// one lock acquisition, which is as close to a snapshot as callers need.
type Stats struct {
	TotalContexts                 int
	ActiveContexts                int
	AvailableContexts             int
	TotalAcquisitions             uint64
	TotalWaits                    uint64
	TotalTimeouts                 uint64
	KeyReinitializations          uint64
	ConsensusCriticalAcquisitions uint64
	HighPriorityAcquisitions      uint64
	PriorityPreemptions           uint64
}

// waiter is a registered acquirer blocked in the pool's condition variable.
// seq breaks ties within a priority class in FIFO order.
type waiter struct {
	priority Priority
	seq      uint64
}

// Pool is a bounded, key-aware, priority-aware cache of RandomX VM contexts
// shared across concurrent validators and miners. It trades a naive
// single-VM-per-goroutine approach for a fixed-capacity, key-reuse,
// waiting-queue design that keeps memory use bounded under concurrent
// load. A process may run more than one Pool (for
// example, one ModeLight pool for validation and one ModeFull pool for
// mining); this type does not mandate sharing.
//
// Pool uses a single condition variable and has every waiter re-check the
// priority order on each wake, an acceptable alternative to a
// two-condition-variable implementation.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond

	mode        Mode
	maxContexts int
	entries     []*poolEntry
	waiters     []*waiter
	nextSeq     uint64
	closed      bool

	stats Stats
}

// NewPool constructs a Pool bounded at maxContexts entries, all running in
// mode. maxContexts may only be reduced before the first Acquire; this
// package enforces that simply by never growing or shrinking it after
// construction.
func NewPool(maxContexts int, mode Mode) (*Pool, error) {
	if maxContexts <= 0 {
		return nil, ErrExhausted
	}
	p := &Pool{
		mode:        mode,
		maxContexts: maxContexts,
	}
	p.cond = sync.NewCond(&p.mu)
	return p, nil
}

// Guard gives exclusive use of one pool entry, keyed for keyHash, until
// Release is called. A Guard must not be used after Release.
type Guard struct {
	pool  *Pool
	entry *poolEntry
}

// Hash computes the RandomX hash of input using the guard's VM. PoolHasher
// wraps this into the pow.RandomXHasher interface for callers that do not
// want to manage Acquire/Release themselves.
func (g *Guard) Hash(input []byte) chainhash.Hash {
	out := g.entry.vm.CalcHash(input)
	var h chainhash.Hash
	copy(h[:], out)
	return h
}

// Release returns the guard's entry to the pool. At most one waiter takes
// the freed entry: the highest-priority one, FIFO within a class.
func (g *Guard) Release() {
	g.pool.release(g.entry)
	g.pool = nil
	g.entry = nil
}

// Acquire returns a Guard giving exclusive use of a context reinitialized
// (if necessary) for keyHash, following the reuse policy below:
//
//  1. An idle entry already keyed for keyHash is reused with no reinit.
//  2. Else the least-recently-used idle entry is reinitialized for keyHash
//     (counted as a key reinitialization).
//  3. Else, if the pool has spare capacity, a new entry is created.
//  4. Else the caller blocks until 1-3 succeeds or its priority's timeout
//     elapses (never, for PriorityConsensusCritical).
func (p *Pool) Acquire(keyHash chainhash.Hash, priority Priority) (*Guard, error) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	if priority == PriorityConsensusCritical {
		p.stats.ConsensusCriticalAcquisitions++
	} else if priority == PriorityHigh {
		p.stats.HighPriorityAcquisitions++
	}

	if entry, err := p.tryAcquireLocked(keyHash); entry != nil || err != nil {
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.stats.TotalAcquisitions++
		p.mu.Unlock()
		return &Guard{pool: p, entry: entry}, nil
	}

	// Step 4: register as a waiter and block.
	w := &waiter{priority: priority, seq: p.nextSeq}
	p.nextSeq++
	p.waiters = append(p.waiters, w)

	var deadline time.Time
	hasDeadline := priority != PriorityConsensusCritical
	if hasDeadline {
		timeout := NormalTimeout
		if priority == PriorityHigh {
			timeout = HighTimeout
		}
		deadline = time.Now().Add(timeout)
	}

	for {
		if hasDeadline && !time.Now().Before(deadline) {
			p.removeWaiter(w)
			p.stats.TotalTimeouts++
			p.mu.Unlock()
			return nil, ErrTimedOut
		}
		if p.closed {
			p.removeWaiter(w)
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}

		// A waiter that is not at the front of the line yields rather
		// than race the entitled waiter for a slot that frees up:
		// it simply goes back to waiting. This is the
		// priority-preemption behavior expected of NORMAL waiters
		// behind CC/H, and applies symmetrically to HIGH behind
		// CONSENSUS_CRITICAL; the preemption event itself is counted
		// at release time (see release), where the bypass is
		// observable deterministically.
		if p.isFrontOfLine(w) {
			if entry, err := p.tryAcquireLocked(keyHash); entry != nil || err != nil {
				p.removeWaiter(w)
				if err != nil {
					p.mu.Unlock()
					return nil, err
				}
				p.stats.TotalWaits++
				p.stats.TotalAcquisitions++
				p.mu.Unlock()
				return &Guard{pool: p, entry: entry}, nil
			}
		}

		if hasDeadline {
			p.condWaitUntil(deadline)
		} else {
			p.cond.Wait()
		}
	}
}

// condWaitUntil waits on the pool's condition variable but returns no later
// than deadline, so a timed-out waiter can re-check its own deadline even if
// no other goroutine ever signals the condition again.
func (p *Pool) condWaitUntil(deadline time.Time) {
	timer := time.AfterFunc(time.Until(deadline), func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer timer.Stop()
	p.cond.Wait()
}

// frontWaiter returns the highest-priority, earliest-arrived waiter
// currently registered, i.e. the one entitled to the next available entry,
// or nil if no waiters are registered.
func (p *Pool) frontWaiter() *waiter {
	var front *waiter
	for _, w := range p.waiters {
		if front == nil || w.priority > front.priority ||
			(w.priority == front.priority && w.seq < front.seq) {
			front = w
		}
	}
	return front
}

// isFrontOfLine reports whether w is the waiter entitled to the next
// available entry.
func (p *Pool) isFrontOfLine(w *waiter) bool {
	return p.frontWaiter() == w
}

func (p *Pool) removeWaiter(w *waiter) {
	for i, other := range p.waiters {
		if other == w {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

// tryAcquireLocked attempts steps 1-3 of the reuse policy. It must be called
// with p.mu held. It returns (entry, nil) on success, (nil, nil) when no
// entry is currently available (the caller should wait), or (nil, err) when
// an entry could be created/reinitialized but RandomX initialization
// failed.
func (p *Pool) tryAcquireLocked(keyHash chainhash.Hash) (*poolEntry, error) {
	// Step 1: idle entry already keyed for keyHash.
	for _, e := range p.entries {
		if e.state == stateIdle && e.hasKey && e.keyHash == keyHash {
			e.state = stateInUse
			e.lastUsed = time.Now()
			return e, nil
		}
	}

	// Step 2: least-recently-used idle entry, reinitialized.
	var lru *poolEntry
	for _, e := range p.entries {
		if e.state != stateIdle {
			continue
		}
		if lru == nil || e.lastUsed.Before(lru.lastUsed) {
			lru = e
		}
	}
	if lru != nil {
		cache, dataset, vm, err := newContext(keyHash, p.mode)
		if err != nil {
			// The slot is released back to the pool unchanged; the
			// caller sees a transient failure and may retry.
			return nil, err
		}
		lru.close()
		lru.cache, lru.dataset, lru.vm = cache, dataset, vm
		lru.hasKey = true
		lru.keyHash = keyHash
		lru.state = stateInUse
		lru.lastUsed = time.Now()
		p.stats.KeyReinitializations++
		return lru, nil
	}

	// Step 3: spare capacity, create a new entry.
	if len(p.entries) < p.maxContexts {
		cache, dataset, vm, err := newContext(keyHash, p.mode)
		if err != nil {
			return nil, err
		}
		e := &poolEntry{
			state:    stateInUse,
			hasKey:   true,
			keyHash:  keyHash,
			cache:    cache,
			dataset:  dataset,
			vm:       vm,
			lastUsed: time.Now(),
		}
		p.entries = append(p.entries, e)
		return e, nil
	}

	// Step 4: nothing available right now.
	return nil, nil
}

// newContext allocates a Cache (and, in ModeFull, a Dataset) keyed by
// keyHash and the VM bound to them. Validation uses ModeLight (cache only,
// ~256 KiB); mining uses ModeFull (the ~2 GiB materialized dataset).
func newContext(keyHash chainhash.Hash, mode Mode) (*Cache, *Dataset, *VM, error) {
	cache, err := NewCache(keyHash[:])
	if err != nil {
		return nil, nil, nil, err
	}

	var dataset *Dataset
	if mode == ModeFull {
		dataset, err = NewDataset(cache)
		if err != nil {
			cache.Close()
			return nil, nil, nil, err
		}
	}

	vm, err := NewVM(cache, dataset)
	if err != nil {
		if dataset != nil {
			dataset.Close()
		}
		cache.Close()
		return nil, nil, nil, err
	}

	return cache, dataset, vm, nil
}

// release returns entry to the pool and wakes every waiter so each can
// re-check whether it is now entitled to acquire; a strictly single-CV
// design is acceptable as long as waiters re-check priority on wake. A
// release whose front-of-line waiter bypasses a lower-priority waiter that
// has been waiting longer counts as one priority preemption: the
// lower-priority waiter will be woken, observe it is not entitled, and
// yield.
func (p *Pool) release(entry *poolEntry) {
	p.mu.Lock()
	entry.state = stateIdle
	entry.lastUsed = time.Now()
	if front := p.frontWaiter(); front != nil {
		for _, w := range p.waiters {
			if w.priority < front.priority && w.seq < front.seq {
				p.stats.PriorityPreemptions++
				break
			}
		}
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Stats returns a snapshot of the pool's activity counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	s.TotalContexts = len(p.entries)
	for _, e := range p.entries {
		if e.state == stateInUse {
			s.ActiveContexts++
		} else {
			s.AvailableContexts++
		}
	}
	return s
}

// Close releases every context the pool owns and wakes any blocked
// waiters, which observe ErrPoolClosed. Acquire called after Close also
// returns ErrPoolClosed. Close does not cancel a blocked
// PriorityConsensusCritical waiter's context allocation in progress; it
// only affects waiters parked in the condition variable. CONSENSUS_CRITICAL
// waiters are cancelled only at process shutdown, and Close is that
// shutdown signal.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, e := range p.entries {
		e.close()
	}
	p.entries = nil
	p.cond.Broadcast()
}
