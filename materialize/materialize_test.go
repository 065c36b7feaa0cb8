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

package materialize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/materialize"
)

func TestToDirectoryBasic(t *testing.T) {
	src := fs.New()
	src.Insert(fspath.New([]byte("dir")), entry.NewDirectory(entry.DefaultMetadata()))
	src.Insert(fspath.New([]byte("dir/file.txt")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("hello"))))
	src.Insert(fspath.New([]byte("link")), entry.NewSymlink("dir/file.txt", entry.DefaultSymlinkMetadata()))

	root := t.TempDir()
	require.NoError(t, materialize.ToDirectory(src, filepath.Join(root, "out")))

	out := filepath.Join(root, "out")
	info, err := os.Stat(filepath.Join(out, "dir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	data, err := os.ReadFile(filepath.Join(out, "dir/file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	target, err := os.Readlink(filepath.Join(out, "link"))
	require.NoError(t, err)
	assert.Equal(t, "dir/file.txt", target)
}
