// Copyright (C) 2016  Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monotime provides a fast monotonic clock source.
package monotime

import "time"

// start anchors Now's return values to time.Since's monotonic reading
// rather than wall-clock time, so Now is unaffected by NTP adjustments.
var start = time.Now()

// Now returns the current monotonic time, in nanoseconds since an arbitrary
// reference point. Only valid for computing the difference against another
// value returned by Now.
func Now() uint64 {
	return uint64(time.Since(start))
}

// Since returns the time elapsed since t, where t was obtained from Now.
func Since(t uint64) time.Duration {
	return time.Duration(Now() - t)
}
