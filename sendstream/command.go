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

// Package sendstream implements the BTRFS sendstream replay engine: it
// applies an ordered command log to a tree of subvolumes, with Snapshot
// commands cloning an existing subvolume's filesystem and recording their
// parent.
package sendstream

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fspath"
)

var kindNames = [...]string{
	"Subvol", "Snapshot", "Chmod", "Chown", "Clone", "End", "Link",
	"Mkdir", "Mkfifo", "Mkfile", "Mknod", "Mksock", "RemoveXattr",
	"Rename", "Rmdir", "SetXattr", "Symlink", "Truncate", "Unlink",
	"UpdateExtent", "Utimes", "Write",
}

// Kind identifies which operation a Command represents.
type Kind int

const (
	Subvol Kind = iota
	Snapshot
	Chmod
	Chown
	Clone
	End
	Link
	Mkdir
	Mkfifo
	Mkfile
	Mknod
	Mksock
	RemoveXattr
	Rename
	Rmdir
	SetXattr
	Symlink
	Truncate
	Unlink
	UpdateExtent
	Utimes
	Write
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalYAML renders a Kind as its name, so a Command log reads naturally
// in a YAML replay file.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML parses a Kind from its name.
func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown sendstream command kind %q", s)
}

// Command is one entry in a sendstream's command log. It is a single
// struct with a Kind discriminant, mirroring how Entry and Extent represent
// their own tagged variants; only the fields relevant to Kind are
// populated.
type Command struct {
	Kind Kind `yaml:"kind"`

	UUID      uuid.UUID `yaml:"uuid,omitempty"`       // Subvol, Snapshot
	CloneUUID uuid.UUID `yaml:"clone-uuid,omitempty"` // Snapshot: the subvol this one was cloned from

	Path  fspath.Path `yaml:"path,omitempty"`  // most commands' primary path
	Path2 fspath.Path `yaml:"path2,omitempty"` // Rename's "to", Link's "new" (Path is "old")

	Mode uint32 `yaml:"mode,omitempty"` // Chmod, Mkfifo/Mknod/Mksock
	UID  uint32 `yaml:"uid,omitempty"`  // Chown
	GID  uint32 `yaml:"gid,omitempty"`  // Chown

	SpecialType entry.SpecialType `yaml:"special-type,omitempty"` // Mkfifo/Mknod/Mksock
	Rdev        uint64            `yaml:"rdev,omitempty"`         // Mkfifo/Mknod/Mksock

	Target string `yaml:"target,omitempty"` // Symlink

	XattrName string `yaml:"xattr-name,omitempty"` // SetXattr, RemoveXattr
	XattrData []byte `yaml:"xattr-data,omitempty"` // SetXattr

	Size uint64 `yaml:"size,omitempty"` // Truncate

	Offset uint64 `yaml:"offset,omitempty"` // Write
	Data   []byte `yaml:"data,omitempty"`   // Write

	SrcPath   fspath.Path `yaml:"src-path,omitempty"`
	SrcOffset uint64      `yaml:"src-offset,omitempty"`
	Len       uint64      `yaml:"len,omitempty"`
	DstPath   fspath.Path `yaml:"dst-path,omitempty"`
	DstOffset uint64      `yaml:"dst-offset,omitempty"`

	Ctime, Atime, Mtime time.Time `yaml:"-"` // Utimes; set programmatically, not via replay files
}
