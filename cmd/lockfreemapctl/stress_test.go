// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"testing"

	"github.com/aristanetworks/lockfreemap/hashmap"
)

func TestRunWorkerCountsAllOperations(t *testing.T) {
	m, err := hashmap.NewMapSize(4)
	if err != nil {
		t.Fatalf("NewMapSize: %v", err)
	}
	defer m.Close()

	s := runWorker(m, 1, 300, 50)
	if total := s.inserts + s.removes + s.lookups; total != 300 {
		t.Errorf("worker performed %d operations, want 300", total)
	}
	if s.found > s.lookups {
		t.Errorf("found %d > lookups %d", s.found, s.lookups)
	}
}

func TestRunWorkerIsDeterministicForAFixedSeed(t *testing.T) {
	m1, _ := hashmap.NewMapSize(4)
	defer m1.Close()
	m2, _ := hashmap.NewMapSize(4)
	defer m2.Close()

	s1 := runWorker(m1, 42, 200, 50)
	s2 := runWorker(m2, 42, 200, 50)
	if s1 != s2 {
		t.Errorf("same seed produced different op mixes: %+v vs %+v", s1, s2)
	}
}

func TestRunStressFlags(t *testing.T) {
	if err := runStress([]string{"-buckets=4", "-workers=4", "-ops=100", "-keyspace=50"}); err != nil {
		t.Fatalf("runStress: %v", err)
	}
}
