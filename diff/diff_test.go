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

package diff_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/clock"
	"github.com/vmagro/filesystem-in-a-file/cmpfields"
	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/diff"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
)

func TestAddedRemovedChanged(t *testing.T) {
	a := fs.New()
	a.Insert(fspath.New([]byte("removed")), entry.NewFile(entry.DefaultMetadata(), content.New()))
	a.Insert(fspath.New([]byte("changed")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("old"))))

	b := fs.New()
	b.Insert(fspath.New([]byte("added")), entry.NewFile(entry.DefaultMetadata(), content.New()))
	b.Insert(fspath.New([]byte("changed")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("new"))))

	entries := diff.Filesystems(a, b, cmpfields.AllEntryFields)
	require.Len(t, entries, 3)

	byPath := map[string]diff.State{}
	for _, e := range entries {
		byPath[e.Path.String()] = e.State
	}
	assert.Equal(t, diff.Added, byPath["added"])
	assert.Equal(t, diff.Removed, byPath["removed"])
	assert.Equal(t, diff.Changed, byPath["changed"])
}

func TestRenderProducesHeaders(t *testing.T) {
	a := fs.New()
	a.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("old\n"))))
	b := fs.New()
	b.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("new\n"))))

	entries := diff.Filesystems(a, b, cmpfields.AllEntryFields)
	out := diff.Render(entries)
	assert.True(t, strings.Contains(out, "--- left/f"))
	assert.True(t, strings.Contains(out, "+++ right/f"))
	assert.True(t, strings.Contains(out, "-old"))
	assert.True(t, strings.Contains(out, "+new"))
}

func TestNoDiffWhenEqual(t *testing.T) {
	// Both filesystems share one simulated clock so Insert stamps the same
	// times on each.
	sc := clock.NewSimulatedClock(time.Unix(1000, 0))
	a := fs.NewWithClock(sc)
	a.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("same"))))
	b := fs.NewWithClock(sc)
	b.Insert(fspath.New([]byte("f")), entry.NewFile(entry.DefaultMetadata(), content.FromBytes([]byte("same"))))

	entries := diff.Filesystems(a, b, cmpfields.AllEntryFields)
	assert.Empty(t, entries)
}
