// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashmap

import (
	"sort"
	"sync"
	"testing"

	"github.com/aristanetworks/lockfreemap/epoch"
	"github.com/aristanetworks/lockfreemap/sliceutils"
	"github.com/aristanetworks/lockfreemap/test"
)

func newTestList() *bucketList {
	return newBucketList(epoch.New(1, nil), newMetrics(nil))
}

func liveKeys(l *bucketList) []int64 {
	var got []int64
	l.forEachLive(func(key int64) { got = append(got, key) })
	return got
}

func TestListInsertLookup(t *testing.T) {
	l := newTestList()
	for _, k := range []int64{5, 1, 3, 2, 4} {
		l.insert(k)
	}
	for _, k := range []int64{1, 2, 3, 4, 5} {
		if !l.lookup(k) {
			t.Errorf("lookup(%d) = false, want true", k)
		}
	}
	if l.lookup(6) {
		t.Errorf("lookup(6) = true, want false for absent key")
	}
}

func TestListInsertKeepsOrder(t *testing.T) {
	l := newTestList()
	for _, k := range []int64{5, 1, 3, 2, 4} {
		l.insert(k)
	}
	got := liveKeys(l)
	want := []int64{1, 2, 3, 4, 5}
	if diff := test.Diff(sliceutils.ToAnySlice(want), sliceutils.ToAnySlice(got)); diff != "" {
		t.Fatalf("live keys after insert: %s", diff)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("live keys %v are not sorted", got)
	}
}

func TestListRemove(t *testing.T) {
	l := newTestList()
	l.insert(1)
	l.insert(2)
	l.insert(3)

	if !l.remove(2) {
		t.Fatalf("remove(2) = false, want true for a present key")
	}
	if l.lookup(2) {
		t.Fatalf("lookup(2) = true after remove")
	}
	got := liveKeys(l)
	want := []int64{1, 3}
	if diff := test.Diff(sliceutils.ToAnySlice(want), sliceutils.ToAnySlice(got)); diff != "" {
		t.Fatalf("live keys after remove: %s", diff)
	}
}

func TestListRemoveAbsentKey(t *testing.T) {
	l := newTestList()
	l.insert(1)
	if l.remove(99) {
		t.Fatalf("remove(99) = true, want false for an absent key")
	}
}

func TestListRemoveTwiceIsFalseSecondTime(t *testing.T) {
	l := newTestList()
	l.insert(1)
	if !l.remove(1) {
		t.Fatalf("first remove(1) = false, want true")
	}
	if l.remove(1) {
		t.Fatalf("second remove(1) = true, want false: key already absent")
	}
}

func TestListDuplicateInsertsAreBothVisible(t *testing.T) {
	l := newTestList()
	l.insert(1)
	l.insert(1)
	count := 0
	l.forEachLive(func(key int64) {
		if key == 1 {
			count++
		}
	})
	if count != 2 {
		t.Fatalf("got %d live nodes for a duplicate-inserted key, want 2", count)
	}
}

func TestListConcurrentInsertRemove(t *testing.T) {
	l := newTestList()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(key int64) {
			defer wg.Done()
			l.insert(key)
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if !l.lookup(int64(i)) {
			t.Errorf("lookup(%d) = false after concurrent insert", i)
		}
	}

	for i := 0; i < n; i += 2 {
		wg.Add(1)
		go func(key int64) {
			defer wg.Done()
			l.remove(key)
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		want := i%2 != 0
		if got := l.lookup(int64(i)); got != want {
			t.Errorf("lookup(%d) = %t after concurrent remove of evens, want %t", i, got, want)
		}
	}

	got := liveKeys(l)
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("live keys %v are not sorted after concurrent mutation", got)
	}
}
