// Copyright (C) 2015  Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monitor provides an embedded HTTP server to expose
// metrics for monitoring
package monitor

import (
	_ "expvar" // Go documentation recommended usage
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // Go documentation recommended usage

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aristanetworks/lockfreemap/monitor/internal/loglevel"
)

// Server represents a monitoring server
type Server interface {
	Run()

	// Handler returns the http.Handler Run would serve, without binding to
	// a socket. Exposed so callers embedding the monitor server inside a
	// larger mux, or exercising it in tests, don't need a real listener.
	Handler() http.Handler
}

// Config configures a monitoring server.
type Config struct {
	// ServerName is the host[:port] address Run listens on.
	ServerName string
	// Gatherer supplies the counters served on /metrics. Defaults to
	// prometheus.DefaultGatherer if nil.
	Gatherer prometheus.Gatherer
}

// server contains information for the monitoring server
type server struct {
	serverName string
	mux        *http.ServeMux
}

// NewMonitorServer creates a new server struct serving /debug, /debug/vars,
// /debug/pprof, /debug/loglevel and /metrics (against
// prometheus.DefaultGatherer).
func NewMonitorServer(serverName string) Server {
	return NewServer(Config{ServerName: serverName})
}

// NewServer creates a monitoring server per cfg.
func NewServer(cfg Config) Server {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug", debugHandler)
	mux.Handle("/debug/loglevel", loglevel.Handler())
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// expvar and net/http/pprof register themselves on http.DefaultServeMux
	// as a side effect of being imported; fall through to it for every
	// path this mux doesn't claim above.
	mux.Handle("/", http.DefaultServeMux)

	return &server{serverName: cfg.ServerName, mux: mux}
}

func debugHandler(w http.ResponseWriter, r *http.Request) {
	indexTmpl := `<html>
	<head>
	<title>/debug</title>
	</head>
	<body>
	<p>/debug</p>
	<div><a href="/debug/vars">vars</a></div>
	<div><a href="/debug/pprof">pprof</a></div>
	<div><a href="/debug/loglevel">loglevel</a></div>
	<div><a href="/metrics">metrics</a></div>
	</body>
	</html>
	`
	fmt.Fprintf(w, indexTmpl)
}

// Handler returns the mux Run would serve.
func (s *server) Handler() http.Handler {
	return s.mux
}

// Run sets up the HTTP server and any handlers
func (s *server) Run() {
	err := http.ListenAndServe(s.serverName, s.mux)
	if err != nil {
		log.Printf("Could not start monitor server: %s", err)
	}
}
