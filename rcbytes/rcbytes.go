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

// Package rcbytes implements the single byte-buffer primitive that every
// extent in this module is built on: an immutable view of a shared
// backing array. Go's slice headers already give subslicing for free, so
// Bytes is a thin wrapper rather than a manual refcount -- the Go runtime
// keeps the backing array alive for exactly as long as any Bytes still
// references it, which is the reference-counting behavior the data model
// requires.
package rcbytes

// Bytes is an immutable view over a shared byte array. The zero value is an
// empty buffer. Values are safe to copy and to share across Files; none of
// the methods ever mutate the backing array.
type Bytes struct {
	buf []byte
}

// New wraps data as a Bytes, taking ownership of the slice. Callers must not
// mutate data after passing it here.
func New(data []byte) Bytes {
	if len(data) == 0 {
		return Bytes{}
	}
	return Bytes{buf: data}
}

// FromString wraps the bytes of s. The conversion to []byte copies the
// string's bytes into a fresh slice that the result then owns.
func FromString(s string) Bytes {
	return New([]byte(s))
}

// Len returns the number of bytes in the view.
func (b Bytes) Len() int {
	return len(b.buf)
}

// Bytes returns the raw bytes backing this view. The caller must not modify
// the returned slice.
func (b Bytes) Bytes() []byte {
	return b.buf
}

// Slice returns the subrange [start, end) of b. This is a cheap reslice: it
// shares the backing array with b rather than copying.
func (b Bytes) Slice(start, end int) Bytes {
	if start == 0 && end == len(b.buf) {
		return b
	}
	return New(b.buf[start:end])
}

// Equal reports whether two views hold the same bytes, independent of
// whether they share a backing array.
func (b Bytes) Equal(o Bytes) bool {
	if len(b.buf) != len(o.buf) {
		return false
	}
	for i := range b.buf {
		if b.buf[i] != o.buf[i] {
			return false
		}
	}
	return true
}

// Clone returns a Bytes backed by a fresh copy of the data, severing any
// sharing with the original backing array. Used when an Owned extent must be
// insulated from later mutation of the caller's slice.
func Clone(data []byte) Bytes {
	if len(data) == 0 {
		return Bytes{}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return Bytes{buf: cp}
}
