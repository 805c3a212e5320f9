// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package loglevel exposes an HTTP handler that adjusts
// "github.com/aristanetworks/glog" verbosity at runtime.
//
// GET returns a small form showing the current verbosity; POST with a
// "glog" form or URL value sets it.
package loglevel

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aristanetworks/glog"
)

type logsetSrv struct{}

// Handler returns an http.Handler serving the loglevel form and updates.
func Handler() http.Handler {
	return logsetSrv{}
}

func (ls logsetSrv) err(w http.ResponseWriter, msg string, code int) {
	msg = fmt.Sprintf("loglevel error: %s (code %d)", msg, code)
	glog.Error(msg)
	http.Error(w, msg, code)
}

// ServeHTTP serves the loglevel form on GET and applies a verbosity change
// on POST.
func (ls logsetSrv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		ls.form(w, r)
		return
	}
	if r.Method != http.MethodPost {
		ls.err(w, "HTTP method must be GET or POST", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		ls.err(w, "could not parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	raw := r.Form.Get("glog")
	if raw == "" {
		ls.err(w, "missing glog argument", http.StatusBadRequest)
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		ls.err(w, fmt.Sprintf("invalid glog verbosity %q", raw), http.StatusBadRequest)
		return
	}
	glog.SetVGlobal(strconv.Itoa(v))
	fmt.Fprint(w, "OK\n")
}

func (ls logsetSrv) form(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, formHTML, r.URL.Path, flag.Lookup("v").Value.String())
}

const formHTML = `<html>
<head><title>loglevel</title></head>
<body>
<p>Current glog verbosity: %[2]s</p>
<form method="POST" action="%[1]s">
  <label>glog verbosity <input type="text" name="glog"></label>
  <input type="submit" value="apply">
</form>
</body>
</html>
`
