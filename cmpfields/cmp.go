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

package cmpfields

import (
	"bytes"
	"maps"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
)

// CmpEntry compares two entries and returns the bitmask of fields that are
// equal between them. It never returns early: every applicable bit is
// always checked, so callers can safely ask ApproxEq about any subset.
func CmpEntry(a, b entry.Entry) Fields {
	result := AllEntryFields

	sameKind := a.Kind() == b.Kind()
	if !sameKind {
		result &^= TYPE
	}
	result &^= metadataDiffBits(a.Metadata(), b.Metadata())

	if !sameKind {
		// DATA, EXTENTS and RDEV are variant-specific and not
		// applicable when the kinds differ outright; only the
		// metadata bits checked above are comparable.
		return result
	}

	switch a.Kind() {
	case entry.Directory:
		// Metadata only; nothing further to compare.
	case entry.File:
		ac, _ := a.Content()
		bc, _ := b.Content()
		if !extentsEqual(ac, bc) {
			result &^= EXTENTS
		}
		if !bytes.Equal(ac.ToBytes(), bc.ToBytes()) {
			result &^= DATA
		}
	case entry.Special:
		at, _ := a.SpecialType()
		bt, _ := b.SpecialType()
		if at != bt {
			result &^= TYPE
		}
		ar, _ := a.Rdev()
		br, _ := b.Rdev()
		if ar != br {
			result &^= RDEV
		}
	case entry.Symlink:
		at, _ := a.Target()
		bt, _ := b.Target()
		if at != bt {
			result &^= DATA
		}
	}

	return result
}

// metadataDiffBits returns the bits that differ between a and b, i.e. the
// bits CmpEntry should clear from its result. Every field is checked
// unconditionally so no bit is left set on account of an early return.
func metadataDiffBits(a, b entry.Metadata) Fields {
	var diff Fields
	if a.Mode != b.Mode {
		diff |= MODE
	}
	if a.UID != b.UID || a.GID != b.GID {
		diff |= OWNER
	}
	if !a.Created.Equal(b.Created) || !a.Accessed.Equal(b.Accessed) || !a.Modified.Equal(b.Modified) {
		diff |= TIME
	}
	if !maps.EqualFunc(a.Xattrs, b.Xattrs, bytes.Equal) {
		diff |= XATTR
	}
	return diff
}

func extentsEqual(a, b *content.File) bool {
	ae, be := a.Extents(), b.Extents()
	if len(ae) != len(be) {
		return false
	}
	for i := range ae {
		if ae[i].Start != be[i].Start {
			return false
		}
		l, r := ae[i].Ext, be[i].Ext
		if l.Kind() != r.Kind() || l.Len() != r.Len() {
			return false
		}
		if !bytes.Equal(l.Bytes(), r.Bytes()) {
			return false
		}
	}
	return true
}

// CmpFilesystem compares two filesystems path by path, returning the
// bitmask of fields equal across every shared path. PATH is cleared iff the
// set of paths differs at all.
func CmpFilesystem(a, b *fs.Filesystem) Fields {
	result := All

	ap, bp := a.Paths(), b.Paths()
	if !samePaths(ap, bp) {
		result &^= PATH
	}

	shared := intersectPaths(ap, bp)
	for _, p := range shared {
		ae, _ := a.Get(p)
		be, _ := b.Get(p)
		// CmpEntry never sets PATH; keep the PATH verdict from above.
		result &= CmpEntry(ae, be) | PATH
	}

	return result
}

// ApproxEq reports whether cmp(a, b) is a superset of required.
func ApproxEq(a, b entry.Entry, required Fields) bool {
	return CmpEntry(a, b).Has(required)
}

// FilesystemApproxEq reports whether CmpFilesystem(a, b) is a superset of
// required.
func FilesystemApproxEq(a, b *fs.Filesystem, required Fields) bool {
	return CmpFilesystem(a, b).Has(required)
}

// FilesystemEqual reports whether a and b are equal: same paths, same
// entry content at each, ignoring inode identity.
func FilesystemEqual(a, b *fs.Filesystem) bool {
	return FilesystemApproxEq(a, b, All)
}

func samePaths(a, b []fspath.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intersectPaths(a, b []fspath.Path) []fspath.Path {
	bset := make(map[fspath.Path]struct{}, len(b))
	for _, p := range b {
		bset[p] = struct{}{}
	}
	var out []fspath.Path
	for _, p := range a {
		if _, ok := bset[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
