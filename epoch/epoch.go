// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package epoch implements epoch-based safe memory reclamation for readers
// that briefly hold a reference to a node after it has been physically
// unlinked from a lock-free structure. A thread that is about to traverse
// such a structure calls Enter to obtain a Guard and Exit when it is done;
// a background Manager advances a global epoch once no guard is pinned to
// an older one, and frees objects retired two epochs behind the current
// one — the standard two-handshake safety margin for this scheme.
package epoch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aristanetworks/lockfreemap/logger"
	"github.com/aristanetworks/lockfreemap/monotime"
	"github.com/aristanetworks/lockfreemap/sync/semaphore"
)

// reclaimLag is the number of epochs a retired object must age through
// before it is safe to free: any guard active when the object was retired
// is pinned to at most the epoch the object was retired in, and advancing
// the epoch twice guarantees that guard has since exited.
const reclaimLag = 2

// Manager tracks active readers and retired objects for one lock-free
// structure (or a family of them sharing a reclamation schedule).
type Manager struct {
	global atomic.Uint64
	nextID atomic.Uint64
	guards sync.Map // uint64 guard id -> *atomic.Int64 (epoch pinned at)

	mu      sync.Mutex
	retired map[uint64][]retirement

	sem *semaphore.Weighted
	log logger.Logger

	stop chan struct{}
	done chan struct{}
}

type retirement struct {
	obj       any // kept to prevent premature GC until reclaimed
	at        uint64
	onReclaim func()
}

// New creates a Manager. concurrency is the capacity of a weighted semaphore
// of which each sweep holds one unit while reclaiming, so it bounds how many
// sweeps reclaim at the same time; a single sweep reclaims its due objects
// one after another.
func New(concurrency int64, log logger.Logger) *Manager {
	if log == nil {
		log = noopLogger{}
	}
	return &Manager{
		retired: make(map[uint64][]retirement),
		sem:     semaphore.NewWeighted(concurrency),
		log:     log,
	}
}

// Guard pins the epoch it was obtained at, preventing the Manager from
// freeing any object retired at or after that epoch until Exit is called.
type Guard struct {
	m  *Manager
	id uint64
}

// Enter registers the calling goroutine as an active reader and returns a
// Guard that must be Exit'd when the reader is done touching the
// structure's nodes.
func (m *Manager) Enter() *Guard {
	id := m.nextID.Add(1)
	pinned := new(atomic.Int64)
	pinned.Store(int64(m.global.Load()))
	m.guards.Store(id, pinned)
	return &Guard{m: m, id: id}
}

// Exit releases the guard, making its pinned epoch irrelevant to future
// reclamation sweeps.
func (g *Guard) Exit() {
	g.m.guards.Delete(g.id)
}

// Retire hands obj to the reclaimer. onReclaim, if non-nil, runs just
// before the Manager drops its last reference to obj (used for metrics and
// logging rather than an actual free, which Go's GC performs once nothing
// references obj any more).
func (m *Manager) Retire(obj any, onReclaim func()) {
	e := m.global.Load()
	m.mu.Lock()
	m.retired[e] = append(m.retired[e], retirement{obj: obj, at: monotime.Now(), onReclaim: onReclaim})
	m.mu.Unlock()
}

// Start launches the background sweep goroutine, advancing the epoch and
// reclaiming aged-out retirements every interval.
func (m *Manager) Start(interval time.Duration) {
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-t.C:
				m.sweep(context.Background())
			}
		}
	}()
}

// Stop halts the background sweep and frees every remaining retirement
// regardless of epoch. It must only be called once no concurrent readers
// remain, mirroring the single-threaded teardown contract of the structure
// being guarded.
func (m *Manager) Stop() {
	if m.stop != nil {
		close(m.stop)
		<-m.done
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for e, list := range m.retired {
		for _, r := range list {
			if r.onReclaim != nil {
				r.onReclaim()
			}
		}
		delete(m.retired, e)
	}
}

// sweep advances the global epoch if every active guard has caught up to
// it, then reclaims everything retired reclaimLag epochs ago or earlier.
func (m *Manager) sweep(ctx context.Context) {
	cur := m.global.Load()
	allCaughtUp := true
	m.guards.Range(func(_, v any) bool {
		pinned := v.(*atomic.Int64).Load()
		if uint64(pinned) < cur {
			allCaughtUp = false
			return false
		}
		return true
	})
	if allCaughtUp {
		m.global.CompareAndSwap(cur, cur+1)
	}

	safe := m.global.Load()
	if safe < reclaimLag {
		return
	}
	target := safe - reclaimLag

	m.mu.Lock()
	var due []retirement
	for e, list := range m.retired {
		if e <= target {
			due = append(due, list...)
			delete(m.retired, e)
		}
	}
	m.mu.Unlock()

	if len(due) == 0 {
		return
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		m.log.Errorf("epoch: reclaim sweep could not acquire semaphore: %v", err)
		return
	}
	defer m.sem.Release(1)
	for _, r := range due {
		if r.onReclaim != nil {
			r.onReclaim()
		}
	}
	m.log.Infof("epoch: reclaimed %d object(s) retired at or before epoch %d, %d reclaim slot(s) still available",
		len(due), target, m.sem.Available())
}

// OldestRetiredAge reports how long the oldest retirement still awaiting
// reclamation has been waiting, or zero if nothing is pending. A diagnostic
// dump surfaces this so an operator can tell how far behind the reclaimer
// is without needing to correlate epoch numbers by hand.
func (m *Manager) OldestRetiredAge() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest uint64
	found := false
	for _, list := range m.retired {
		for _, r := range list {
			if !found || r.at < oldest {
				oldest = r.at
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return monotime.Since(oldest)
}

type noopLogger struct{}

func (noopLogger) Info(...interface{})           {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Error(...interface{})          {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatal(...interface{})          {}
func (noopLogger) Fatalf(string, ...interface{}) {}
