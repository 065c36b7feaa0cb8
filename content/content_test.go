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

package content_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/content"
)

func TestOverlappingWrites(t *testing.T) {
	f := content.New()
	w := content.NewWriter(f)
	w.WriteBytes([]byte("Lorem lorem"))
	_, err := w.Seek(6, io.SeekStart)
	require.NoError(t, err)
	w.WriteBytes([]byte("ipsum dolor sit amet"))

	assert.Equal(t, "Lorem ipsum dolor sit amet", string(f.ToBytes()))
	assert.Equal(t, 2, f.NumExtents())
}

func TestInternalOverwrite(t *testing.T) {
	f := content.New()
	w := content.NewWriter(f)
	w.WriteBytes([]byte("Lorem lorem dolor sit amet"))
	_, err := w.Seek(6, io.SeekStart)
	require.NoError(t, err)
	w.WriteBytes([]byte("ipsum"))

	assert.Equal(t, "Lorem ipsum dolor sit amet", string(f.ToBytes()))
	assert.Equal(t, 3, f.NumExtents())
}

func TestTruncateShrink(t *testing.T) {
	f := content.FromBytes([]byte("Lorem ipsum dolor"))
	f.Truncate(11)
	assert.Equal(t, "Lorem ipsum", string(f.ToBytes()))
	assert.Equal(t, uint64(11), f.Len())
}

func TestTruncateGrowAppendsHole(t *testing.T) {
	f := content.FromBytes([]byte("Lorem"))
	f.Truncate(10)
	assert.Equal(t, uint64(10), f.Len())
	want := append([]byte("Lorem"), make([]byte, 5)...)
	assert.Equal(t, want, f.ToBytes())
}

func TestTruncateShrinkThenGrowLeavesHole(t *testing.T) {
	f := content.FromBytes([]byte("Lorem ipsum"))
	f.Truncate(5)
	f.Truncate(8)
	want := append([]byte("Lorem"), make([]byte, 3)...)
	assert.Equal(t, want, f.ToBytes())
}

func TestCloneRangeRoundTrip(t *testing.T) {
	src := content.FromBytes([]byte("Lorem ipsum dolor sit amet"))
	cloned := content.CloneRange(src, "src-inode", 6, 17)

	dst := content.New()
	w := content.NewWriter(dst)
	for _, e := range cloned {
		w.Write(e)
	}
	assert.Equal(t, "ipsum dolor", string(dst.ToBytes()))
}

func TestReaderSynthesizesHoles(t *testing.T) {
	f := content.New()
	w := content.NewWriter(f)
	w.WriteBytes([]byte("abc"))
	f.Truncate(8)

	r := content.NewReader(f)
	buf := make([]byte, 8)
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, append([]byte("abc"), make([]byte, 5)...), buf[:total])
}

func TestCheckInvariantsPassesAfterWrites(t *testing.T) {
	f := content.New()
	w := content.NewWriter(f)
	w.WriteBytes([]byte("Lorem lorem"))
	_, _ = w.Seek(6, io.SeekStart)
	w.WriteBytes([]byte("ipsum dolor sit amet"))
	f.CheckInvariants()
}
