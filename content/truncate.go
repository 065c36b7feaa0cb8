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

import "github.com/vmagro/filesystem-in-a-file/extent"

// Truncate resizes the file to newLen. Shrinking drops or splits the extent
// that used to straddle the new end. Growing appends a Hole covering the new
// bytes, the same as a sparse write past the old end of file.
func (f *File) Truncate(newLen uint64) {
	curLen := f.Len()
	if newLen == curLen {
		return
	}
	if newLen < curLen {
		if idx, ok := f.indexForByte(newLen); ok {
			e := f.entries[idx]
			if e.start != newLen {
				left, _ := e.ext.Split(newLen - e.start)
				f.entries[idx].ext = left
			}
		}
		f.removeRange(newLen, curLen+1)
		return
	}
	f.insertAt(curLen, extent.NewHole(newLen-curLen))
}
