// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package inode implements the inode arena: a slot-keyed table mapping a
// stable Key to an Entry, plus the lookup-count-style refcounting used to
// know when an inode becomes garbage.
package inode

import "github.com/vmagro/filesystem-in-a-file/entry"

// Key is a stable identity for an Entry, decoupled from any path. Equality
// of two Filesystems never compares Keys directly -- only the Entries they
// resolve to -- since a fresh Filesystem built from the same data is free to
// allocate Keys differently.
type Key uint64

// Arena is a slot-keyed table of Entries plus their refcounts. It does not
// know about paths; Filesystem layers that on top.
type Arena struct {
	nextKey   Key
	entries   map[Key]entry.Entry
	refcounts map[Key]*lookupCount
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{
		entries:   make(map[Key]entry.Entry),
		refcounts: make(map[Key]*lookupCount),
	}
}

// Insert allocates a fresh Key for e with an initial refcount of 1.
func (a *Arena) Insert(e entry.Entry) Key {
	a.nextKey++
	k := a.nextKey
	a.entries[k] = e
	a.refcounts[k] = &lookupCount{count: 1}
	return k
}

// Get returns the entry at k, and whether it exists.
func (a *Arena) Get(k Key) (entry.Entry, bool) {
	e, ok := a.entries[k]
	return e, ok
}

// Set replaces the entry at k. k must already exist.
func (a *Arena) Set(k Key, e entry.Entry) {
	a.entries[k] = e
}

// Incref increments k's refcount, e.g. when a new hard link is created.
func (a *Arena) Incref(k Key) {
	a.refcounts[k].Inc()
}

// Decref decrements k's refcount by one. If the count reaches zero, the
// entry is removed from the arena and destroyed is true.
func (a *Arena) Decref(k Key) (destroyed bool) {
	rc := a.refcounts[k]
	destroyed = rc.Dec(1)
	if destroyed {
		delete(a.entries, k)
		delete(a.refcounts, k)
	}
	return destroyed
}

// Refcount returns k's current refcount, or 0 if k is unknown.
func (a *Arena) Refcount(k Key) uint64 {
	rc, ok := a.refcounts[k]
	if !ok {
		return 0
	}
	return rc.count
}

// Clone returns a deep copy of the arena: every entry is independently
// cloned and refcounts are preserved. Used when a Subvol snapshot clones an
// entire Filesystem.
func (a *Arena) Clone() *Arena {
	out := &Arena{
		nextKey:   a.nextKey,
		entries:   make(map[Key]entry.Entry, len(a.entries)),
		refcounts: make(map[Key]*lookupCount, len(a.refcounts)),
	}
	for k, e := range a.entries {
		out.entries[k] = e.Clone()
	}
	for k, rc := range a.refcounts {
		cp := *rc
		out.refcounts[k] = &cp
	}
	return out
}

// Len returns the number of live entries.
func (a *Arena) Len() int {
	return len(a.entries)
}
