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

package ingest_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/ingest"
)

func cpioEntry(buf *bytes.Buffer, name string, mode uint32, data []byte) {
	nameBytes := append([]byte(name), 0)
	fmt.Fprintf(buf, "070701%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x",
		0, mode, 0, 0, 1, 0, len(data), 0, 0, 0, 0, len(nameBytes), 0)
	buf.Write(nameBytes)
	for (buf.Len() % 4) != 0 {
		buf.WriteByte(0)
	}
	buf.Write(data)
	for (buf.Len() % 4) != 0 {
		buf.WriteByte(0)
	}
}

func cpioTrailer(buf *bytes.Buffer) {
	cpioEntry(buf, "TRAILER!!!", 0, nil)
}

func TestCpioBasicEntries(t *testing.T) {
	var buf bytes.Buffer
	cpioEntry(&buf, "dir", 0o040755, nil)
	cpioEntry(&buf, "dir/file.txt", 0o100644, []byte("hello"))
	cpioEntry(&buf, "link", 0o120777, []byte("dir/file.txt"))
	cpioTrailer(&buf)

	dst := fs.New()
	require.NoError(t, ingest.Cpio(&buf, dst))

	d, err := dst.Get(fspath.New([]byte("dir")))
	require.NoError(t, err)
	assert.Equal(t, entry.Directory, d.Kind())

	f, err := dst.Get(fspath.New([]byte("dir/file.txt")))
	require.NoError(t, err)
	c, _ := f.Content()
	assert.Equal(t, "hello", string(c.ToBytes()))

	l, err := dst.Get(fspath.New([]byte("link")))
	require.NoError(t, err)
	target, ok := l.Target()
	require.True(t, ok)
	assert.Equal(t, "dir/file.txt", target)
}

func TestCpioRejectsUnsupportedMagic(t *testing.T) {
	buf := bytes.NewBufferString("070707" + string(make([]byte, 200)))
	err := ingest.Cpio(buf, fs.New())
	assert.Error(t, err)
}
