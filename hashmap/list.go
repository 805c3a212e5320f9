// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashmap

import (
	"math"
	"unsafe"

	"github.com/aristanetworks/lockfreemap/epoch"
)

// bucketList is an ordered, sentinel-bounded lock-free singly-linked list
// implementing the Harris-Michael algorithm: pointer-bit marking for
// logical deletion followed by CAS-based physical unlink.
type bucketList struct {
	head, tail *node
	reclaim    *epoch.Manager
	m          *metrics
}

func newBucketList(reclaim *epoch.Manager, m *metrics) *bucketList {
	tail := &node{key: math.MaxInt64}
	head := newNode(math.MinInt64, tail)
	return &bucketList{head: head, tail: tail, reclaim: reclaim, m: m}
}

// window locates the pair (pred, curr) such that pred.key < key <= curr.key
// in the list with all logically deleted nodes excluded, physically
// unlinking any marked nodes it encounters between pred and curr as a side
// effect. See spec §4.2.
func (l *bucketList) window(key int64) (pred, curr *node) {
restart:
	for {
		pred = l.head
		predSucc := loadNext(pred)

		t := pred
		tSucc := predSucc
		for {
			if !isMarked(tSucc) {
				pred = t
				predSucc = tSucc
			}
			t = deref(tSucc)
			if t == l.tail {
				break
			}
			tSucc = loadNext(t)
			if isMarked(tSucc) || t.key < key {
				continue
			}
			break
		}
		curr = t

		if predSucc == unsafe.Pointer(curr) {
			if curr != l.tail && isMarked(loadNext(curr)) {
				l.m.retries.Inc()
				continue restart
			}
			return pred, curr
		}

		if casNext(pred, predSucc, unsafe.Pointer(curr)) {
			l.retireRun(predSucc, curr)
			if curr != l.tail && isMarked(loadNext(curr)) {
				l.m.retries.Inc()
				continue restart
			}
			return pred, curr
		}
		l.m.retries.Inc()
	}
}

// retireRun hands every node between the excised run [from, to) to the
// reclaimer. from is pred's old successor, the head of a chain of
// logically-deleted nodes that window just unlinked.
func (l *bucketList) retireRun(from unsafe.Pointer, to *node) {
	n := deref(from)
	for n != to {
		next := loadNext(n)
		l.m.physicalUnlinks.Inc()
		l.reclaim.Retire(n, func() { l.m.nodesReclaimed.Inc() })
		n = deref(next)
	}
}

// insert implements spec §4.3: loop window+CAS until a new node carrying
// key is published ahead of curr. Duplicates are permitted and not
// detected at this layer.
func (l *bucketList) insert(key int64) {
	n := &node{key: key}
	for {
		pred, curr := l.window(key)
		storeNext(n, unsafe.Pointer(curr))
		if casNext(pred, unsafe.Pointer(curr), unsafe.Pointer(n)) {
			l.m.inserts.Inc()
			return
		}
		l.m.retries.Inc()
	}
}

// remove implements spec §4.4: logically delete by marking curr.next, then
// best-effort physically unlink. Returns false ("not found") if the key is
// absent.
func (l *bucketList) remove(key int64) bool {
	var pred, curr *node
	for {
		pred, curr = l.window(key)
		if curr == l.tail || curr.key != key {
			return false
		}
		succ := loadNext(curr)
		if isMarked(succ) {
			l.m.retries.Inc()
			continue
		}
		if casNext(curr, succ, withMark(succ)) {
			l.m.logicalDeletes.Inc()
			if !casNext(pred, unsafe.Pointer(curr), succ) {
				// pred changed under us: one more window pass helps
				// unlink curr, and any later window call on this bucket
				// completes it otherwise.
				l.window(key)
			} else {
				l.m.physicalUnlinks.Inc()
				l.reclaim.Retire(curr, func() { l.m.nodesReclaimed.Inc() })
			}
			return true
		}
		l.m.retries.Inc()
	}
}

// lookup implements spec §4.5. It is a mutating read: window performs
// helping CAS to bound the number of marked nodes traversed.
func (l *bucketList) lookup(key int64) bool {
	_, curr := l.window(key)
	l.m.lookups.Inc()
	return curr != l.tail && curr.key == key && !isMarked(loadNext(curr))
}

// forEachLive walks the unmarked nodes of the list in order, calling fn for
// each one. Used by Dump and by tests checking the sortedness invariant.
// Not safe against concurrent mutation in the sense of a snapshot: it is a
// best-effort traversal, matching spec §6's note on the diagnostic dump.
func (l *bucketList) forEachLive(fn func(key int64)) {
	n := deref(loadNext(l.head))
	for n != l.tail {
		next := loadNext(n)
		if !isMarked(next) {
			fn(n.key)
		}
		n = deref(next)
	}
}

// close drops the list's references to every node, including logically
// deleted ones, letting the garbage collector reclaim them. It must only
// be called from a single-threaded teardown phase with no concurrent
// operations in flight.
func (l *bucketList) close() {
	l.head = nil
	l.tail = nil
}
