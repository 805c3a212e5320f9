// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashmap

import (
	"fmt"
	"io"
)

// Dump writes a textual diagnostic of m to w: for each bucket, a line
// "Bucket <i> " followed by "- <key> " for every unmarked node in
// traversal order, or "-  " if the bucket is empty. Dump is not required
// to be consistent under concurrent mutation; it is a best-effort walk of
// each bucket that, unlike window, does not help unlink marked nodes.
func (m *Map) Dump(w io.Writer) error {
	if m == nil || m.buckets == nil {
		return nil
	}
	for i, b := range m.buckets {
		if _, err := fmt.Fprintf(w, "Bucket %d ", i); err != nil {
			return err
		}
		empty := true
		b.forEachLive(func(key int64) {
			empty = false
			fmt.Fprintf(w, "- %d ", key)
		})
		if empty {
			if _, err := fmt.Fprint(w, "-  "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if age := m.reclaim.OldestRetiredAge(); age > 0 {
		if _, err := fmt.Fprintf(w, "Oldest unreclaimed node retired %s ago\n", age); err != nil {
			return err
		}
	}
	return nil
}
