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
	"errors"
	"io"
	"sort"
)

// Reader reads a File sequentially from some starting offset, synthesizing
// zero bytes for any Hole extents it crosses.
type Reader struct {
	file *File
	pos  uint64
}

// NewReader opens a Reader at the start of f.
func NewReader(f *File) *Reader {
	return &Reader{file: f}
}

// Read implements io.Reader. It never returns more than the bytes of a
// single underlying extent per call, matching the behavior callers of
// io.Reader must already tolerate.
func (r *Reader) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if r.pos >= r.file.Len() {
		return 0, io.EOF
	}

	idx, ok := r.file.indexForByte(r.pos)
	if !ok {
		// pos falls in a gap between extents; a gap reads as zeros, the
		// same as an explicit Hole, up to the start of the next extent.
		next := sort.Search(len(r.file.entries), func(i int) bool { return r.file.entries[i].start > r.pos })
		n := min(uint64(len(buf)), r.file.entries[next].start-r.pos)
		clear(buf[:n])
		r.pos += n
		return int(n), nil
	}
	e := r.file.entries[idx]
	offsetInExt := r.pos - e.start
	data := e.ext.Bytes()[offsetInExt:]

	n := copy(buf, data)
	r.pos += uint64(n)
	return n, nil
}

// Seek repositions the reader, mirroring io.Seeker semantics.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var base uint64
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, errors.New("content: invalid seek to a negative position")
		}
		r.pos = uint64(offset)
		return int64(r.pos), nil
	case io.SeekEnd:
		base = r.file.Len()
	case io.SeekCurrent:
		base = r.pos
	default:
		return 0, errors.New("content: invalid whence")
	}

	next := int64(base) + offset
	if next < 0 {
		return 0, errors.New("content: invalid seek to a negative or overflowing position")
	}
	r.pos = uint64(next)
	return next, nil
}

var _ io.ReadSeeker = (*Reader)(nil)
