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

// Package entry implements the tagged-variant Entry type (Directory, File,
// Special, Symlink) and its common Metadata, the unit of content a
// Filesystem stores at each inode.
package entry

import (
	"time"
)

// Metadata is the set of attributes every Entry variant carries, independent
// of its kind. The recognized fields are exactly these; there is no builder,
// just a plain struct literal.
//
// Mode is a raw POSIX permission mask (e.g. 0o644), not a Go os.FileMode:
// the file-type bits live in Entry.Kind instead, so there is no need to
// reconcile the two incompatible bit layouts.
type Metadata struct {
	Mode     uint32
	UID      uint32
	GID      uint32
	Xattrs   map[string][]byte
	Created  time.Time
	Accessed time.Time
	Modified time.Time
}

// DefaultMetadata returns the zero-value defaults used for newly created
// entries other than symlinks: mode 0444, uid/gid 0, no xattrs, and all
// three times left at the zero time.Time (not the Unix epoch).
func DefaultMetadata() Metadata {
	return Metadata{Mode: 0o444}
}

// DefaultSymlinkMetadata returns the defaults used for symlinks, which carry
// mode 0777 since the permission bits of a symlink itself are not
// meaningful on most systems.
func DefaultSymlinkMetadata() Metadata {
	return Metadata{Mode: 0o777}
}

// Clone returns a deep copy, so mutating the xattr map of one does not
// affect the other (used when a Subvol snapshot clones a Filesystem).
func (m Metadata) Clone() Metadata {
	out := m
	if m.Xattrs != nil {
		out.Xattrs = make(map[string][]byte, len(m.Xattrs))
		for k, v := range m.Xattrs {
			cp := make([]byte, len(v))
			copy(cp, v)
			out.Xattrs[k] = cp
		}
	}
	return out
}

// SetXattr sets name to a copy of data, allocating the map if needed.
func (m *Metadata) SetXattr(name string, data []byte) {
	if m.Xattrs == nil {
		m.Xattrs = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.Xattrs[name] = cp
}

// RemoveXattr deletes name, a no-op if it is not set.
func (m *Metadata) RemoveXattr(name string) {
	delete(m.Xattrs, name)
}
