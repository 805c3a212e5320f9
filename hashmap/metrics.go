// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashmap

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the counters a Map exposes through monitor's /metrics
// endpoint. retries directly measures the lock-freedom property of spec
// §8: under a fair schedule it must grow in bounded steps relative to
// completed operations, never runaway.
type metrics struct {
	inserts         prometheus.Counter
	logicalDeletes  prometheus.Counter
	physicalUnlinks prometheus.Counter
	lookups         prometheus.Counter
	retries         prometheus.Counter
	nodesReclaimed  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_inserts_total",
			Help: "Number of completed Insert operations.",
		}),
		logicalDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_logical_deletes_total",
			Help: "Number of nodes marked for deletion by Remove.",
		}),
		physicalUnlinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_physical_unlinks_total",
			Help: "Number of nodes physically unlinked from a bucket list.",
		}),
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_lookups_total",
			Help: "Number of completed Lookup operations.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_window_retries_total",
			Help: "Number of times window restarted or looped due to contention.",
		}),
		nodesReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockfreemap_nodes_reclaimed_total",
			Help: "Number of unlinked nodes freed by the epoch reclaimer.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.inserts, m.logicalDeletes, m.physicalUnlinks,
			m.lookups, m.retries, m.nodesReclaimed)
	}
	return m
}
