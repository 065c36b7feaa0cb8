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

// Package content implements the file content model: an ordered map from
// byte offset to Extent, plus a Reader, a Writer that splits overlapping
// writes, clone_range, and truncate. This is the hard part of the in-memory
// filesystem -- everything else is bookkeeping around this.
package content

import (
	"fmt"
	"sort"

	"github.com/vmagro/filesystem-in-a-file/extent"
)

// entry is one (start offset, Extent) pair. File keeps these sorted by
// start so that prefix scans (reader, clone_range) and determinism (to_bytes)
// fall out of a single linear structure instead of a real BTreeMap, which Go
// doesn't have built in.
type entry struct {
	start uint64
	ext   extent.Extent
}

// File is the extent map backing a regular file's content.
//
// INVARIANT: entries are sorted by start and non-overlapping: for adjacent
// entries i, i+1, entries[i].start+entries[i].ext.Len() <= entries[i+1].start.
type File struct {
	entries []entry
}

// New returns an empty file with no content.
func New() *File {
	return &File{}
}

// FromBytes returns a file whose entire content is a single Owned extent.
func FromBytes(data []byte) *File {
	f := New()
	if len(data) == 0 {
		return f
	}
	f.entries = []entry{{start: 0, ext: extent.NewOwnedBytes(data)}}
	return f
}

// Len returns the logical length of the file: the end offset of its last
// extent, or 0 if it has none.
func (f *File) Len() uint64 {
	if len(f.entries) == 0 {
		return 0
	}
	last := f.entries[len(f.entries)-1]
	return last.start + last.ext.Len()
}

// IsEmpty reports whether the file has no extents at all.
func (f *File) IsEmpty() bool {
	return len(f.entries) == 0
}

// Extents returns the (start, Extent) pairs making up the file, in
// ascending order of start. The returned slice must not be mutated.
func (f *File) Extents() []struct {
	Start uint64
	Ext   extent.Extent
} {
	out := make([]struct {
		Start uint64
		Ext   extent.Extent
	}, len(f.entries))
	for i, e := range f.entries {
		out[i].Start = e.start
		out[i].Ext = e.ext
	}
	return out
}

// NumExtents returns the number of extents currently in the file, mostly
// useful for tests asserting that a write split or merged as expected.
func (f *File) NumExtents() int {
	return len(f.entries)
}

// Clone returns a deep copy of f. Extents themselves are immutable and safe
// to share, but the entries slice is copied so appending to one file's
// clone can never reallocate or mutate the other's backing array.
func (f *File) Clone() *File {
	out := &File{entries: make([]entry, len(f.entries))}
	copy(out.entries, f.entries)
	return out
}

// indexForByte returns the index of the extent that contains pos, i.e. the
// entry with the greatest start <= pos whose range also covers pos. ok is
// false if no such extent exists (pos is at or past EOF, or in a gap).
func (f *File) indexForByte(pos uint64) (idx int, ok bool) {
	// Greatest start <= pos: binary search for the first start > pos, then
	// step back one.
	i := sort.Search(len(f.entries), func(i int) bool { return f.entries[i].start > pos })
	if i == 0 {
		return 0, false
	}
	i--
	e := f.entries[i]
	if pos >= e.start && pos < e.start+e.ext.Len() {
		return i, true
	}
	return 0, false
}

// insertionIndex returns the index at which an entry starting at start
// would be inserted to keep entries sorted.
func (f *File) insertionIndex(start uint64) int {
	return sort.Search(len(f.entries), func(i int) bool { return f.entries[i].start >= start })
}

// insertAt inserts a (start, ext) pair into entries at the correct sorted
// position. If an entry already exists at the exact same start, it is
// replaced (callers are expected to have already removed any overlap).
func (f *File) insertAt(start uint64, ext extent.Extent) {
	i := f.insertionIndex(start)
	if i < len(f.entries) && f.entries[i].start == start {
		f.entries[i].ext = ext
		return
	}
	f.entries = append(f.entries, entry{})
	copy(f.entries[i+1:], f.entries[i:])
	f.entries[i] = entry{start: start, ext: ext}
}

// removeRange deletes every entry whose start lies in [lo, hi).
func (f *File) removeRange(lo, hi uint64) {
	out := f.entries[:0]
	for _, e := range f.entries {
		if e.start >= lo && e.start < hi {
			continue
		}
		out = append(out, e)
	}
	f.entries = out
}

// ToBytes concatenates every extent into one contiguous buffer. When the
// file is a single extent starting at offset 0, this returns its bytes
// directly without an extra copy.
func (f *File) ToBytes() []byte {
	if len(f.entries) == 1 && f.entries[0].start == 0 {
		return f.entries[0].ext.Bytes()
	}
	buf := make([]byte, f.Len())
	for _, e := range f.entries {
		copy(buf[e.start:], e.ext.Bytes())
	}
	return buf
}

// CheckInvariants panics if the extent map is not sorted and non-overlapping.
// Exercised by tests and by callers paranoid about Writer bugs.
func (f *File) CheckInvariants() {
	for i := 1; i < len(f.entries); i++ {
		prev := f.entries[i-1]
		if prev.start+prev.ext.Len() > f.entries[i].start {
			panic(fmt.Sprintf("overlapping extents at %d and %d", prev.start, f.entries[i].start))
		}
	}
}
