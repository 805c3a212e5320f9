// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package monitor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestDebugIndexListsHandlers(t *testing.T) {
	srv := NewMonitorServer("")
	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /debug status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"/debug/vars", "/debug/pprof", "/metrics"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("/debug index does not link to %s", want)
		}
	}
}

func TestMetricsServesRegisteredCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "monitor_test_counter_total"})
	c.Inc()
	reg.MustRegister(c)

	srv := NewServer(Config{Gatherer: reg})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "monitor_test_counter_total 1") {
		t.Errorf("/metrics body does not contain the registered counter: %s", rec.Body.String())
	}
}

func TestLoglevelGetServesForm(t *testing.T) {
	srv := NewMonitorServer("")
	req := httptest.NewRequest(http.MethodGet, "/debug/loglevel", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /debug/loglevel status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "glog") {
		t.Errorf("GET /debug/loglevel form does not mention glog: %s", rec.Body.String())
	}
}

func TestLoglevelAcceptsPost(t *testing.T) {
	srv := NewMonitorServer("")
	req := httptest.NewRequest(http.MethodPost, "/debug/loglevel?glog=2", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("POST /debug/loglevel?glog=2 status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
}
