// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashmap

import "unsafe"

// node is a single element of a bucket list. next is a tagged pointer: the
// address of the successor node with the low bit reserved as the logical
// deletion mark for this node (see pointer.go).
type node struct {
	key  int64
	next unsafe.Pointer // *node
}

func newNode(key int64, next *node) *node {
	return &node{key: key, next: unsafe.Pointer(next)}
}
