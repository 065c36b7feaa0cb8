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

package fs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time"

	"github.com/vmagro/filesystem-in-a-file/clock"
	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fserrors"
	"github.com/vmagro/filesystem-in-a-file/fspath"
)

func TestInsertAndGet(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("foo")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("hi"))))

	e, err := store.Get(fspath.New([]byte("foo")))
	require.NoError(t, err)
	assert.Equal(t, entry.File, e.Kind())

	_, err = store.Get(fspath.New([]byte("missing")))
	assert.True(t, errors.Is(err, fserrors.NotFound))
}

func TestLinkThenUnlinkKeepsInodeAlive(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("a")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("hi"))))

	require.NoError(t, store.Link(fspath.New([]byte("a")), fspath.New([]byte("b"))))
	require.NoError(t, store.Unlink(fspath.New([]byte("a"))))

	e, err := store.Get(fspath.New([]byte("b")))
	require.NoError(t, err)
	c, ok := e.Content()
	require.True(t, ok)
	assert.Equal(t, "hi", string(c.ToBytes()))
}

func TestLinkDirectoryFails(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("dir")), entry.NewDirectory(entry.DefaultMetadata()))
	err := store.Link(fspath.New([]byte("dir")), fspath.New([]byte("dir2")))
	assert.True(t, errors.Is(err, fserrors.IsADirectory))
}

func TestRenameThenRenameBackIsIdentity(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("a")), entry.NewFile(entry.DefaultMetadata(), content.New()))
	before := store.Paths()

	require.NoError(t, store.Rename(fspath.New([]byte("a")), fspath.New([]byte("b"))))
	require.NoError(t, store.Rename(fspath.New([]byte("b")), fspath.New([]byte("a"))))

	assert.Equal(t, before, store.Paths())
}

func TestRenameFailsIfDestinationExists(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("a")), entry.NewDirectory(entry.DefaultMetadata()))
	store.Insert(fspath.New([]byte("b")), entry.NewDirectory(entry.DefaultMetadata()))
	err := store.Rename(fspath.New([]byte("a")), fspath.New([]byte("b")))
	assert.True(t, errors.Is(err, fserrors.AlreadyExists))
}

func TestRmdirRequiresEmpty(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("dir")), entry.NewDirectory(entry.DefaultMetadata()))
	store.Insert(fspath.New([]byte("dir/child")), entry.NewFile(entry.DefaultMetadata(), content.New()))

	err := store.Rmdir(fspath.New([]byte("dir")))
	assert.True(t, errors.Is(err, fserrors.DirectoryNotEmpty))

	require.NoError(t, store.Unlink(fspath.New([]byte("dir/child"))))
	require.NoError(t, store.Rmdir(fspath.New([]byte("dir"))))

	_, err = store.Get(fspath.New([]byte("dir")))
	assert.True(t, errors.Is(err, fserrors.NotFound))
}

func TestTruncateWrongTypeFails(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("dir")), entry.NewDirectory(entry.DefaultMetadata()))
	err := store.Truncate(fspath.New([]byte("dir")), 10)
	assert.True(t, errors.Is(err, fserrors.WrongEntryType))
}

func TestChmodChown(t *testing.T) {
	store := fs.New()
	store.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.New()))

	require.NoError(t, store.Chmod(fspath.New([]byte("f")), 0o600))
	require.NoError(t, store.Chown(fspath.New([]byte("f")), 1000, 1000))

	e, err := store.Get(fspath.New([]byte("f")))
	require.NoError(t, err)
	assert.EqualValues(t, 0o600, e.Metadata().Mode)
	assert.EqualValues(t, 1000, e.Metadata().UID)
	assert.EqualValues(t, 1000, e.Metadata().GID)
}

func TestClockStampsInsertAndMutation(t *testing.T) {
	sc := clock.NewSimulatedClock(time.Unix(1000, 0))
	store := fs.NewWithClock(sc)
	store.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.New()))

	e, err := store.Get(fspath.New([]byte("f")))
	require.NoError(t, err)
	assert.True(t, e.Metadata().Created.Equal(time.Unix(1000, 0)))

	sc.SetTime(time.Unix(2000, 0))
	require.NoError(t, store.Chmod(fspath.New([]byte("f")), 0o600))

	e, err = store.Get(fspath.New([]byte("f")))
	require.NoError(t, err)
	assert.True(t, e.Metadata().Modified.Equal(time.Unix(2000, 0)))
	assert.True(t, e.Metadata().Created.Equal(time.Unix(1000, 0)))
}
