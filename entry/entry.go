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

package entry

import (
	"fmt"

	"github.com/vmagro/filesystem-in-a-file/content"
)

// Kind distinguishes the four shapes an Entry can take.
type Kind int

const (
	Directory Kind = iota
	File
	Special
	Symlink
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	case Special:
		return "special"
	case Symlink:
		return "symlink"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SpecialType identifies which kind of device node a Special entry is.
type SpecialType int

const (
	FIFO SpecialType = iota
	Socket
	CharDevice
	BlockDevice
)

func (t SpecialType) String() string {
	switch t {
	case FIFO:
		return "fifo"
	case Socket:
		return "socket"
	case CharDevice:
		return "char"
	case BlockDevice:
		return "block"
	default:
		return fmt.Sprintf("SpecialType(%d)", int(t))
	}
}

// Entry is one node in a Filesystem's inode arena: a Directory, a File (with
// its extent-mapped content), a Special device node, or a Symlink. It is a
// single struct with a Kind discriminant rather than four distinct Go types,
// mirroring how Extent represents its own tagged variants.
type Entry struct {
	kind     Kind
	metadata Metadata

	content     *content.File // valid only when kind == File
	specialType SpecialType   // valid only when kind == Special
	rdev        uint64        // valid only when kind == Special
	target      string        // valid only when kind == Symlink
}

// NewDirectory returns a Directory entry with the given metadata.
func NewDirectory(meta Metadata) Entry {
	return Entry{kind: Directory, metadata: meta}
}

// NewFile returns a File entry wrapping content. A nil content is treated as
// an empty file.
func NewFile(meta Metadata, c *content.File) Entry {
	if c == nil {
		c = content.New()
	}
	return Entry{kind: File, metadata: meta, content: c}
}

// NewSpecial returns a Special (device node) entry.
func NewSpecial(t SpecialType, rdev uint64, meta Metadata) Entry {
	return Entry{kind: Special, metadata: meta, specialType: t, rdev: rdev}
}

// NewSymlink returns a Symlink entry pointing at target.
func NewSymlink(target string, meta Metadata) Entry {
	return Entry{kind: Symlink, metadata: meta, target: target}
}

// Kind reports which variant this entry is.
func (e Entry) Kind() Kind { return e.kind }

// Metadata returns the entry's metadata.
func (e Entry) Metadata() Metadata { return e.metadata }

// SetMetadata replaces the entry's metadata wholesale.
func (e *Entry) SetMetadata(m Metadata) { e.metadata = m }

// Content returns the entry's file content. ok is false unless Kind() ==
// File.
func (e Entry) Content() (c *content.File, ok bool) {
	if e.kind != File {
		return nil, false
	}
	return e.content, true
}

// SpecialType returns the device node type. ok is false unless Kind() ==
// Special.
func (e Entry) SpecialType() (t SpecialType, ok bool) {
	if e.kind != Special {
		return 0, false
	}
	return e.specialType, true
}

// Rdev returns the device number. ok is false unless Kind() == Special.
func (e Entry) Rdev() (rdev uint64, ok bool) {
	if e.kind != Special {
		return 0, false
	}
	return e.rdev, true
}

// Target returns the symlink target. ok is false unless Kind() == Symlink.
func (e Entry) Target() (target string, ok bool) {
	if e.kind != Symlink {
		return "", false
	}
	return e.target, true
}

// Clone returns a deep copy, safe to mutate independently of e. Used when a
// Subvol snapshot clones an entire Filesystem.
func (e Entry) Clone() Entry {
	out := e
	out.metadata = e.metadata.Clone()
	if e.kind == File && e.content != nil {
		out.content = e.content.Clone()
	}
	return out
}
