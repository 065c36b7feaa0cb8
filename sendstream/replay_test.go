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

package sendstream_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/cmpfields"
	"github.com/vmagro/filesystem-in-a-file/fserrors"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/sendstream"
)

func TestTwoSubvolInheritance(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()

	subvols := sendstream.New()
	err := subvols.Receive([]sendstream.Command{
		{Kind: sendstream.Subvol, UUID: u1},
		{Kind: sendstream.Mkfile, Path: fspath.New([]byte("a"))},
		{Kind: sendstream.Write, Path: fspath.New([]byte("a")), Data: []byte("hello")},
	})
	require.NoError(t, err)

	err = subvols.Receive([]sendstream.Command{
		{Kind: sendstream.Snapshot, UUID: u2, CloneUUID: u1},
		{Kind: sendstream.Mkfile, Path: fspath.New([]byte("wow")), Mode: 0o644},
	})
	require.NoError(t, err)

	require.Len(t, subvols, 2)
	sv1, sv2 := subvols[u1], subvols[u2]
	require.NotNil(t, sv1)
	require.NotNil(t, sv2)
	assert.False(t, sv1.HasParent)
	assert.True(t, sv2.HasParent)
	assert.Equal(t, u1, sv2.ParentUUID)

	_, err = sv1.FS.Get(fspath.New([]byte("wow")))
	assert.True(t, errors.Is(err, fserrors.NotFound))

	_, err = sv2.FS.Get(fspath.New([]byte("wow")))
	require.NoError(t, err)

	af, err := sv1.FS.GetFile(fspath.New([]byte("a")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(af.ToBytes()))

	// The snapshot started as a copy of sv1, so "a" survives unchanged in
	// both, and the two filesystems are equal apart from the extra file.
	aEntryLeft, err := sv1.FS.Get(fspath.New([]byte("a")))
	require.NoError(t, err)
	aEntryRight, err := sv2.FS.Get(fspath.New([]byte("a")))
	require.NoError(t, err)
	assert.True(t, cmpfields.ApproxEq(aEntryLeft, aEntryRight, cmpfields.AllEntryFields&^cmpfields.TIME))
}

func TestMissingSnapshotParentFails(t *testing.T) {
	subvols := sendstream.New()
	err := subvols.Receive([]sendstream.Command{
		{Kind: sendstream.Snapshot, UUID: uuid.New(), CloneUUID: uuid.New()},
	})
	var missing *fserrors.MissingParentError
	assert.True(t, errors.As(err, &missing))
}

func TestFirstCommandMustBeSubvolStart(t *testing.T) {
	subvols := sendstream.New()
	err := subvols.Receive([]sendstream.Command{
		{Kind: sendstream.Mkdir, Path: fspath.New([]byte("a"))},
	})
	var invariant *fserrors.InvariantViolatedError
	assert.True(t, errors.As(err, &invariant))
}

func TestUpdateExtentUnsupported(t *testing.T) {
	subvols := sendstream.New()
	err := subvols.Receive([]sendstream.Command{
		{Kind: sendstream.Subvol, UUID: uuid.New()},
		{Kind: sendstream.UpdateExtent},
	})
	var apply *fserrors.ApplyError
	require.True(t, errors.As(err, &apply))
	var invariant *fserrors.InvariantViolatedError
	assert.True(t, errors.As(apply.Err, &invariant))
}
