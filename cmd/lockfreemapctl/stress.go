// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"flag"
	"fmt"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/aristanetworks/lockfreemap/hashmap"
)

// workerStats accumulates the operations one stress worker performed. Each
// worker owns one entry, so no synchronization is needed while running.
type workerStats struct {
	inserts, removes, lookups, found int
}

// runStress drives workers goroutines, each performing ops random
// insert/remove/lookup calls against a shared map, and reports a summary.
// It exercises the same map concurrently from many goroutines the way a
// caller worried about the lock-freedom property of the underlying bucket
// lists would.
func runStress(args []string) error {
	fs := flag.NewFlagSet("stress", flag.ExitOnError)
	buckets := fs.Int("buckets", 64, "number of buckets")
	workers := fs.Int("workers", 8, "number of concurrent goroutines")
	ops := fs.Int("ops", 10000, "operations performed by each worker")
	keyspace := fs.Int64("keyspace", 10000, "keys are drawn from [0, keyspace)")
	seed := fs.Uint64("seed", 1, "base seed; worker i uses seed+i")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := hashmap.NewMapSize(*buckets)
	if err != nil {
		return fmt.Errorf("stress: %w", err)
	}
	defer m.Close()

	stats := make([]workerStats, *workers)
	var g errgroup.Group
	for i := 0; i < *workers; i++ {
		i := i
		g.Go(func() error {
			stats[i] = runWorker(m, *seed+uint64(i), *ops, *keyspace)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var total workerStats
	for _, s := range stats {
		total.inserts += s.inserts
		total.removes += s.removes
		total.lookups += s.lookups
		total.found += s.found
	}
	fmt.Printf("workers=%d ops/worker=%d inserts=%d removes=%d lookups=%d found=%d\n",
		*workers, *ops, total.inserts, total.removes, total.lookups, total.found)
	return nil
}

func runWorker(m *hashmap.Map, seed uint64, ops int, keyspace int64) workerStats {
	r := rand.New(rand.NewSource(seed))
	var s workerStats
	for i := 0; i < ops; i++ {
		key := r.Int63n(keyspace)
		switch r.Intn(3) {
		case 0:
			m.Insert(key)
			s.inserts++
		case 1:
			m.Remove(key)
			s.removes++
		case 2:
			if m.Lookup(key) {
				s.found++
			}
			s.lookups++
		}
	}
	return s
}
