// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package hashmap implements a concurrent, lock-free hash map keyed by
// signed 64-bit integers. The map is organized as a fixed number of
// buckets, each an ordered singly-linked list implementing the
// Harris-Michael lock-free list algorithm (pointer-bit marking for logical
// deletion followed by CAS-based physical unlink). Any number of
// goroutines may call Insert, Remove and Lookup concurrently on the same
// Map; no call blocks on another.
//
// Out of scope: resizing the bucket array, snapshot iteration under
// concurrent mutation, persistence, ordered iteration across buckets, and
// key/value types beyond a single int64 key that is its own value.
package hashmap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristanetworks/lockfreemap/epoch"
	"github.com/aristanetworks/lockfreemap/errs"
	"github.com/aristanetworks/lockfreemap/logger"
)

// Config configures a Map. The zero value is not usable directly through
// NewMap (BucketCount must be positive); use NewMapSize for the spec's
// literal alloc_hashmap(n) contract.
type Config struct {
	// BucketCount is the fixed number of bucket lists in the map.
	BucketCount int
	// ReclaimInterval is how often the epoch reclaimer sweeps for nodes
	// safe to free. Defaults to 50ms if zero.
	ReclaimInterval time.Duration
	// ReclaimConcurrency bounds how many reclaim sweeps may run at the
	// same time; each sweep frees its due nodes one after another.
	// Defaults to 1 if zero.
	ReclaimConcurrency int64
	// Logger receives diagnostic Info/Error logs from the map and its
	// reclaimer. Defaults to a no-op logger if nil.
	Logger logger.Logger
	// Registerer, if non-nil, receives the map's prometheus counters
	// (see metrics.go).
	Registerer prometheus.Registerer
}

func (c Config) withDefaults() Config {
	if c.ReclaimInterval <= 0 {
		c.ReclaimInterval = 50 * time.Millisecond
	}
	if c.ReclaimConcurrency <= 0 {
		c.ReclaimConcurrency = 1
	}
	return c
}

// Map is a fixed-size array of bucket lists, dispatching each operation to
// the bucket identified by key mod BucketCount.
type Map struct {
	buckets []*bucketList
	reclaim *epoch.Manager
	m       *metrics
	log     logger.Logger
}

// NewMap allocates a Map with cfg.BucketCount buckets, each with its own
// pre-linked head/tail sentinels, and starts its background epoch
// reclaimer. It returns errs.ErrAllocFailure if cfg.BucketCount is not
// positive.
func NewMap(cfg Config) (*Map, error) {
	cfg = cfg.withDefaults()
	if cfg.BucketCount <= 0 {
		return nil, errs.NewAllocFailure("NewMap")
	}
	log := cfg.Logger
	if log == nil {
		log = noopLogger{}
	}

	reclaim := epoch.New(cfg.ReclaimConcurrency, log)
	met := newMetrics(cfg.Registerer)

	buckets := make([]*bucketList, cfg.BucketCount)
	for i := range buckets {
		buckets[i] = newBucketList(reclaim, met)
	}

	reclaim.Start(cfg.ReclaimInterval)

	return &Map{buckets: buckets, reclaim: reclaim, m: met, log: log}, nil
}

// NewMapSize allocates a Map with n buckets and default reclamation
// settings, mirroring the spec's alloc_hashmap(n) contract.
func NewMapSize(n int) (*Map, error) {
	return NewMap(Config{BucketCount: n})
}

// Close stops the background reclaimer, waiting for it to drain every
// outstanding retirement, then releases the bucket lists. Close must be
// called only after all concurrent callers of Insert/Remove/Lookup have
// stopped; it is not itself safe to call concurrently with those.
func (m *Map) Close() {
	if m == nil || m.buckets == nil {
		return
	}
	m.reclaim.Stop()
	for _, b := range m.buckets {
		b.close()
	}
	m.buckets = nil
}

func (m *Map) bucket(key int64) *bucketList {
	idx := int(key % int64(len(m.buckets)))
	if idx < 0 {
		idx += len(m.buckets)
	}
	return m.buckets[idx]
}

// Insert adds a new node carrying key to its bucket. Duplicates are
// permitted and not detected at this layer: the map stores a multiset.
// Insert returns errs.ErrInvalidHandle if m is nil.
func (m *Map) Insert(key int64) error {
	if m == nil || m.buckets == nil {
		return errs.NewInvalidHandle("Insert")
	}
	g := m.reclaim.Enter()
	defer g.Exit()
	m.bucket(key).insert(key)
	return nil
}

// Remove logically deletes a node carrying key, if one is present, and
// makes a best-effort attempt to physically unlink it immediately. It
// returns errs.ErrNotFound if key is absent, and errs.ErrInvalidHandle if m
// is nil.
func (m *Map) Remove(key int64) error {
	if m == nil || m.buckets == nil {
		return errs.NewInvalidHandle("Remove")
	}
	g := m.reclaim.Enter()
	defer g.Exit()
	if !m.bucket(key).remove(key) {
		return errs.NewNotFound("Remove", key)
	}
	return nil
}

// Lookup reports whether key is present. Despite its name, Lookup may
// mutate next pointers: its underlying traversal helps unlink logically
// deleted nodes it passes over, bounding how many marked nodes accumulate
// between explicit removals.
func (m *Map) Lookup(key int64) bool {
	if m == nil || m.buckets == nil {
		return false
	}
	g := m.reclaim.Enter()
	defer g.Exit()
	return m.bucket(key).lookup(key)
}

// BucketCount returns the number of buckets m was constructed with.
func (m *Map) BucketCount() int {
	if m == nil {
		return 0
	}
	return len(m.buckets)
}

type noopLogger struct{}

func (noopLogger) Info(...interface{})           {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Error(...interface{})          {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatal(...interface{})          {}
func (noopLogger) Fatalf(string, ...interface{}) {}
