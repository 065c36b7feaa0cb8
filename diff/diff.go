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

// Package diff renders the difference between two Filesystems as a
// per-path tri-state plus a sectioned unified textual diff, built on top of
// the field-masked comparator in cmpfields.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vmagro/filesystem-in-a-file/cmpfields"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

// State is the tri-state outcome of comparing one path across two
// filesystems.
type State int

const (
	Added State = iota
	Removed
	Changed
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Entry is one path's outcome in a Filesystem diff.
type Entry struct {
	Path  fspath.Path
	State State
	Left  *entry.Entry // nil for Added
	Right *entry.Entry // nil for Removed
}

// Filesystems compares a (left) and b (right) under the given required
// field mask and returns an Entry for every path that is Added, Removed, or
// Changed (fails required). Paths equal under required are omitted.
func Filesystems(a, b *fs.Filesystem, required cmpfields.Fields) []Entry {
	leftPaths := a.Paths()
	rightSet := make(map[fspath.Path]struct{}, len(b.Paths()))
	for _, p := range b.Paths() {
		rightSet[p] = struct{}{}
	}
	leftSet := make(map[fspath.Path]struct{}, len(leftPaths))
	for _, p := range leftPaths {
		leftSet[p] = struct{}{}
	}

	all := make(map[fspath.Path]struct{}, len(leftPaths)+len(rightSet))
	for p := range leftSet {
		all[p] = struct{}{}
	}
	for p := range rightSet {
		all[p] = struct{}{}
	}
	paths := make([]fspath.Path, 0, len(all))
	for p := range all {
		paths = append(paths, p)
	}
	fspath.SortPaths(paths)

	var out []Entry
	for _, p := range paths {
		_, inLeft := leftSet[p]
		_, inRight := rightSet[p]
		switch {
		case inLeft && !inRight:
			le, _ := a.Get(p)
			out = append(out, Entry{Path: p, State: Removed, Left: &le})
			metrics.DiffEntries.WithLabelValues(Removed.String()).Inc()
		case !inLeft && inRight:
			re, _ := b.Get(p)
			out = append(out, Entry{Path: p, State: Added, Right: &re})
			metrics.DiffEntries.WithLabelValues(Added.String()).Inc()
		default:
			le, _ := a.Get(p)
			re, _ := b.Get(p)
			if !cmpfields.ApproxEq(le, re, required) {
				out = append(out, Entry{Path: p, State: Changed, Left: &le, Right: &re})
				metrics.DiffEntries.WithLabelValues(Changed.String()).Inc()
			}
		}
	}
	return out
}

// Render formats entries as a unified textual diff: one `--- left/<p>` /
// `+++ right/<p>` header pair per path (or /dev/null for add/remove),
// followed by a per-section diff of the entry's type, metadata, and
// contents.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		leftHeader, rightHeader := "/dev/null", "/dev/null"
		if e.Left != nil {
			leftHeader = "left/" + e.Path.String()
		}
		if e.Right != nil {
			rightHeader = "right/" + e.Path.String()
		}
		fmt.Fprintf(&b, "--- %s\n+++ %s\n", leftHeader, rightHeader)

		for _, section := range sections(e.Left, e.Right) {
			if section.left == section.right {
				continue
			}
			ud := difflib.UnifiedDiff{
				A:        difflib.SplitLines(section.left),
				B:        difflib.SplitLines(section.right),
				FromFile: leftHeader + " (" + section.name + ")",
				ToFile:   rightHeader + " (" + section.name + ")",
				Context:  3,
			}
			text, _ := difflib.GetUnifiedDiffString(ud)
			b.WriteString(text)
		}
	}
	return b.String()
}

type section struct {
	name        string
	left, right string
}

func sections(left, right *entry.Entry) []section {
	return []section{
		{"Type", kindString(left), kindString(right)},
		{"Metadata", metadataString(left), metadataString(right)},
		{"Contents", contentsString(left), contentsString(right)},
	}
}

func kindString(e *entry.Entry) string {
	if e == nil {
		return ""
	}
	return e.Kind().String() + "\n"
}

func metadataString(e *entry.Entry) string {
	if e == nil {
		return ""
	}
	m := e.Metadata()
	keys := make([]string, 0, len(m.Xattrs))
	for k := range m.Xattrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	xattrs := make([]string, 0, len(keys))
	for _, k := range keys {
		xattrs = append(xattrs, fmt.Sprintf("%s=%q", k, m.Xattrs[k]))
	}
	return fmt.Sprintf("mode=%#o uid=%d gid=%d xattrs={%s}\nmtime=%s\n",
		m.Mode, m.UID, m.GID, strings.Join(xattrs, ","), m.Modified)
}

func contentsString(e *entry.Entry) string {
	if e == nil {
		return ""
	}
	switch e.Kind() {
	case entry.File:
		c, _ := e.Content()
		return string(c.ToBytes())
	case entry.Symlink:
		t, _ := e.Target()
		return t + "\n"
	case entry.Special:
		t, _ := e.SpecialType()
		rdev, _ := e.Rdev()
		return fmt.Sprintf("%s rdev=%d\n", t, rdev)
	default:
		return ""
	}
}
