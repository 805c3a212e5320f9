// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package test provides the one comparison helper this module's test
// suites actually call.
package test

import "github.com/kylelemons/godebug/pretty"

// Diff returns a human readable description of how a and b differ, or an
// empty string if they are equal. hashmap and sliceutils tests use it to
// compare collected keys and dump output against expected values without
// hand-rolling reflect.DeepEqual failure messages.
func Diff(a, b interface{}) string {
	return pretty.Compare(a, b)
}
