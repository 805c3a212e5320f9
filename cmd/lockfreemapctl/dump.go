// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/rand"

	"github.com/aristanetworks/lockfreemap/hashmap"
)

// runDump builds a map, inserts a batch of pseudo-random keys into it, and
// writes the diagnostic dump format to stdout.
func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	buckets := fs.Int("buckets", 8, "number of buckets")
	count := fs.Int("count", 20, "number of keys to insert before dumping")
	keyspace := fs.Int64("keyspace", 1000, "keys are drawn from [0, keyspace)")
	seed := fs.Uint64("seed", 1, "seed for the pseudo-random key generator")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := hashmap.NewMapSize(*buckets)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer m.Close()

	r := rand.New(rand.NewSource(*seed))
	for i := 0; i < *count; i++ {
		if err := m.Insert(r.Int63n(*keyspace)); err != nil {
			return fmt.Errorf("dump: insert: %w", err)
		}
	}

	return m.Dump(os.Stdout)
}
