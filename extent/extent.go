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

// Package extent implements Extent, a single immutable piece of file
// content. Files are built from a sequence of Extents so that a
// copy-on-write filesystem-in-a-file can stay zero-copy for data that
// originated elsewhere (an archive buffer, another file via clone_range)
// while still allowing in-place mutation through splitting.
package extent

import "github.com/vmagro/filesystem-in-a-file/rcbytes"

// Kind distinguishes the three shapes an Extent can take.
type Kind int

const (
	// Owned data originated from a write directly to the File containing
	// it.
	Owned Kind = iota
	// Cloned data was obtained by referencing a range of another file,
	// e.g. via a BTRFS clone/reflink command.
	Cloned
	// Hole is a zero-filled span with no backing bytes, created by
	// truncating a file past its previous end.
	Hole
)

// Extent is one immutable chunk of a file's content. The zero value is an
// empty Owned extent.
type Extent struct {
	kind Kind
	data rcbytes.Bytes

	// holeLen is only meaningful when kind == Hole, since a hole carries
	// no bytes.
	holeLen uint64

	// Present only when kind == Cloned: identifies the file the data was
	// cloned from (opaque, diagnostic only -- never used to fetch data)
	// and the byte range within it that this extent's data covers.
	srcFile    any
	srcRangeLo uint64
	srcRangeHi uint64
}

// NewOwned wraps data as an Owned extent.
func NewOwned(data rcbytes.Bytes) Extent {
	return Extent{kind: Owned, data: data}
}

// NewOwnedBytes wraps a raw byte slice as an Owned extent, taking ownership
// of it.
func NewOwnedBytes(data []byte) Extent {
	return NewOwned(rcbytes.New(data))
}

// NewHole creates a zero-filled extent of the given length.
func NewHole(length uint64) Extent {
	return Extent{kind: Hole, holeLen: length}
}

// NewCloned creates an extent whose data was obtained from srcRange of
// srcFile. srcFile is an opaque identifier (e.g. an inode key) kept only for
// diagnostics; data must already contain the materialized bytes for the
// range.
func NewCloned(srcFile any, srcRangeLo, srcRangeHi uint64, data rcbytes.Bytes) Extent {
	return Extent{
		kind:       Cloned,
		data:       data,
		srcFile:    srcFile,
		srcRangeLo: srcRangeLo,
		srcRangeHi: srcRangeHi,
	}
}

// Kind reports which variant this extent is.
func (e Extent) Kind() Kind {
	return e.kind
}

// Len returns the number of bytes this extent contributes to its file.
func (e Extent) Len() uint64 {
	if e.kind == Hole {
		return e.holeLen
	}
	return uint64(e.data.Len())
}

// Bytes returns the materialized content of the extent. For a Hole this
// synthesizes a zero-filled slice of the hole's length.
func (e Extent) Bytes() []byte {
	if e.kind == Hole {
		return make([]byte, e.holeLen)
	}
	return e.data.Bytes()
}

// SourceFile returns the diagnostic source-file identifier and the byte
// range within it, valid only when Kind() == Cloned.
func (e Extent) SourceFile() (src any, lo, hi uint64) {
	return e.srcFile, e.srcRangeLo, e.srcRangeHi
}

// Split divides e at offset pos (relative to the start of e), returning the
// left and right halves. pos must be in [0, e.Len()]. For a Cloned extent,
// the src_range bounds of each half are narrowed to the portion of the
// source they still reference.
func (e Extent) Split(pos uint64) (left, right Extent) {
	switch e.kind {
	case Hole:
		return NewHole(pos), NewHole(e.holeLen - pos)
	case Owned:
		return NewOwned(e.data.Slice(0, int(pos))), NewOwned(e.data.Slice(int(pos), e.data.Len()))
	case Cloned:
		leftData := e.data.Slice(0, int(pos))
		rightData := e.data.Slice(int(pos), e.data.Len())
		splitPoint := e.srcRangeLo + pos
		left = Extent{
			kind: Cloned, data: leftData, srcFile: e.srcFile,
			srcRangeLo: e.srcRangeLo, srcRangeHi: splitPoint,
		}
		right = Extent{
			kind: Cloned, data: rightData, srcFile: e.srcFile,
			srcRangeLo: splitPoint, srcRangeHi: e.srcRangeHi,
		}
		return left, right
	}
	panic("unreachable extent kind")
}
