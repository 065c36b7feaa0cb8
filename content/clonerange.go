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

package content

import (
	"github.com/vmagro/filesystem-in-a-file/extent"
	"github.com/vmagro/filesystem-in-a-file/rcbytes"
)

// CloneRange reads [lo, hi) out of src and returns it as a sequence of
// extents suitable for writing into another file, in order, with no gaps.
// srcID is an opaque identifier for src (e.g. its inode key) attached to
// every resulting Cloned extent purely for diagnostics.
//
// Extents that were already Holes in src stay Holes in the result, since
// there is no backing data to reference either way. Everything else becomes
// a Cloned extent referencing [lo,hi) of srcID, mirroring a BTRFS reflink.
func CloneRange(src *File, srcID any, lo, hi uint64) []extent.Extent {
	if hi <= lo {
		return nil
	}

	var out []extent.Extent
	idx := src.insertionIndex(lo)
	// insertionIndex finds the first entry with start >= lo; the entry
	// covering lo itself, if any, is the one just before that.
	if idx > 0 {
		prev := src.entries[idx-1]
		if lo < prev.start+prev.ext.Len() {
			idx--
		}
	}

	pos := lo
	for ; idx < len(src.entries) && pos < hi; idx++ {
		e := src.entries[idx]
		entStart, entEnd := e.start, e.start+e.ext.Len()
		if entStart >= hi {
			break
		}
		if entEnd <= pos {
			continue
		}

		segLo := max(pos, entStart)
		segHi := min(hi, entEnd)
		if segLo > pos {
			// A gap between extents should never occur given the
			// file invariants, but guard rather than silently
			// producing an inconsistent clone.
			out = append(out, extent.NewHole(segLo-pos))
		}

		offsetInExt := segLo - entStart
		length := segHi - segLo
		switch e.ext.Kind() {
		case extent.Hole:
			out = append(out, extent.NewHole(length))
		default:
			data := e.ext.Bytes()[offsetInExt : offsetInExt+length]
			out = append(out, extent.NewCloned(srcID, segLo, segHi, rcbytes.New(data)))
		}
		pos = segHi
	}
	if pos < hi {
		out = append(out, extent.NewHole(hi-pos))
	}
	return out
}
