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

	"github.com/vmagro/filesystem-in-a-file/extent"
)

// Writer writes Extents into a File without copying the underlying data the
// way an io.Writer would be forced to. It opens positioned at the end of the
// file (append mode); use Seek to move elsewhere first.
type Writer struct {
	file *File
	pos  uint64
}

// NewWriter opens a Writer at the end of f.
func NewWriter(f *File) *Writer {
	return &Writer{file: f, pos: f.Len()}
}

// Pos returns the writer's current offset.
func (w *Writer) Pos() uint64 {
	return w.pos
}

// Write installs ext at the writer's current position, replacing any bytes
// already occupying [pos, pos+ext.Len()). Neighbouring extents are split as
// needed so the file's extent map stays non-overlapping; it never leaves a
// gap or a stale overlapping entry behind. Advances pos by ext.Len().
func (w *Writer) Write(ext extent.Extent) {
	if ext.Len() == 0 {
		// Nothing to install; inserting an empty extent at pos would
		// replace whatever entry already starts there.
		return
	}
	ws := w.pos
	we := ws + ext.Len()
	f := w.file

	// A write positioned past the current end of file leaves a gap; fill
	// it with an explicit Hole rather than letting one exist implicitly.
	if curLen := f.Len(); ws > curLen {
		f.insertAt(curLen, extent.NewHole(ws-curLen))
	}

	// If an extent straddles the write's end, split it and keep the
	// surviving right-hand tail.
	if idx, ok := f.indexForByte(we); ok {
		e := f.entries[idx]
		if e.start != we {
			left, right := e.ext.Split(we - e.start)
			f.entries[idx].ext = left
			f.insertAt(we, right)
		}
	}

	// If an extent straddles the write's start, split it and keep only
	// the left-hand head; the rest falls inside the write and is
	// discarded.
	if idx, ok := f.indexForByte(ws); ok {
		e := f.entries[idx]
		if e.start != ws {
			left, _ := e.ext.Split(ws - e.start)
			f.entries[idx].ext = left
		}
	}

	// Anything else starting within [ws, we) is now wholly inside the new
	// write and must be dropped to preserve non-overlap.
	f.removeRange(ws, we)

	f.insertAt(ws, ext)
	w.pos += ext.Len()
}

// WriteBytes wraps data as an Owned extent and writes it. It takes ownership
// of data; callers must not mutate it afterwards.
func (w *Writer) WriteBytes(data []byte) {
	w.Write(extent.NewOwnedBytes(data))
}

// Seek repositions the writer. Mirrors io.Seeker semantics: whence is one of
// io.SeekStart, io.SeekCurrent, io.SeekEnd. Returns an error if the result
// would be negative or would overflow.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	var base uint64
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, errors.New("content: invalid seek to a negative position")
		}
		w.pos = uint64(offset)
		return int64(w.pos), nil
	case io.SeekEnd:
		base = w.file.Len()
	case io.SeekCurrent:
		base = w.pos
	default:
		return 0, errors.New("content: invalid whence")
	}

	next := int64(base) + offset
	if next < 0 {
		return 0, errors.New("content: invalid seek to a negative or overflowing position")
	}
	w.pos = uint64(next)
	return next, nil
}
