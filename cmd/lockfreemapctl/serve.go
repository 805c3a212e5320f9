// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	glogger "github.com/aristanetworks/lockfreemap/glog"
	"github.com/aristanetworks/lockfreemap/hashmap"
	"github.com/aristanetworks/lockfreemap/monitor"
)

// runServe starts a map instrumented with prometheus counters and serves
// them, along with the usual /debug endpoints, over HTTP until killed.
// With -load it also runs a low-rate background workload so the exposed
// counters move, which is convenient when poking at the endpoints by hand.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8080", "address for the monitor HTTP server")
	buckets := fs.Int("buckets", 64, "number of buckets")
	reclaimInterval := fs.Duration("reclaim-interval", 50*time.Millisecond, "epoch reclaim sweep interval")
	load := fs.Bool("load", false, "run a background insert/remove/lookup workload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := hashmap.NewMap(hashmap.Config{
		BucketCount:     *buckets,
		ReclaimInterval: *reclaimInterval,
		Logger:          &glogger.Glog{},
		Registerer:      prometheus.DefaultRegisterer,
	})
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer m.Close()

	if *load {
		go func() {
			for i := uint64(0); ; i++ {
				runWorker(m, i, 1000, int64(*buckets)*100)
			}
		}()
	}

	fmt.Printf("serving on %s (/debug, /metrics)\n", *addr)
	monitor.NewMonitorServer(*addr).Run()
	return nil
}
