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

package sendstream

import (
	"io"

	"github.com/google/uuid"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fserrors"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

// Subvol is one subvolume's filesystem plus the uuid of the subvolume it was
// snapshotted from, if any.
type Subvol struct {
	ParentUUID uuid.UUID
	HasParent  bool
	FS         *fs.Filesystem
}

func newSubvol() *Subvol {
	return &Subvol{FS: fs.New()}
}

func (s *Subvol) clone() *Subvol {
	return &Subvol{ParentUUID: s.ParentUUID, HasParent: s.HasParent, FS: s.FS.Clone()}
}

// Subvols is the map of subvolume uuid to Subvol built up by replaying one
// or more sendstreams.
type Subvols map[uuid.UUID]*Subvol

// New returns an empty Subvols map.
func New() Subvols {
	return Subvols{}
}

// Receive replays a single sendstream's command log. The first command must
// be Subvol or Snapshot; anything else fails InvariantViolatedError. Every
// Subvol/Snapshot command thereafter commits the current subvolume to the
// map and begins a new one. The trailing subvolume is committed once the
// stream ends.
func (s Subvols) Receive(commands []Command) error {
	if len(commands) == 0 {
		return &fserrors.InvariantViolatedError{Reason: "sendstream has no commands"}
	}

	curUUID, cur, err := s.begin(commands[0])
	if err != nil {
		return err
	}

	for _, cmd := range commands[1:] {
		switch cmd.Kind {
		case Subvol, Snapshot:
			s[curUUID] = cur
			curUUID, cur, err = s.begin(cmd)
			if err != nil {
				return err
			}
		default:
			if err := s.applyCmd(cur, cmd); err != nil {
				return &fserrors.ApplyError{Command: cmd.Kind.String(), Err: err}
			}
		}
	}

	s[curUUID] = cur
	return nil
}

func (s Subvols) begin(cmd Command) (uuid.UUID, *Subvol, error) {
	switch cmd.Kind {
	case Subvol:
		return cmd.UUID, newSubvol(), nil
	case Snapshot:
		parent, ok := s[cmd.CloneUUID]
		if !ok {
			return uuid.UUID{}, nil, &fserrors.MissingParentError{UUID: cmd.CloneUUID.String()}
		}
		sv := parent.clone()
		sv.ParentUUID = cmd.CloneUUID
		sv.HasParent = true
		return cmd.UUID, sv, nil
	default:
		return uuid.UUID{}, nil, &fserrors.InvariantViolatedError{Reason: "first command was not subvol start"}
	}
}

// applyCmd mutates subvol's filesystem according to cmd. Subvol/Snapshot
// are never passed here; Receive handles them at the outer loop.
func (s Subvols) applyCmd(subvol *Subvol, cmd Command) error {
	metrics.SendstreamCommands.WithLabelValues(cmd.Kind.String()).Inc()
	store := subvol.FS
	switch cmd.Kind {
	case Chmod:
		return store.Chmod(cmd.Path, cmd.Mode)
	case Chown:
		return store.Chown(cmd.Path, cmd.UID, cmd.GID)
	case Mkdir:
		store.Insert(cmd.Path, entry.NewDirectory(entry.DefaultMetadata()))
		return nil
	case Mkfile:
		store.Insert(cmd.Path, entry.NewFile(entry.DefaultMetadata(), content.New()))
		return nil
	case Mkfifo, Mknod, Mksock:
		meta := entry.DefaultMetadata()
		meta.Mode = cmd.Mode & 0o7777
		store.Insert(cmd.Path, entry.NewSpecial(cmd.SpecialType, cmd.Rdev, meta))
		return nil
	case Symlink:
		store.Insert(cmd.Path, entry.NewSymlink(cmd.Target, entry.DefaultSymlinkMetadata()))
		return nil
	case Link:
		return store.Link(cmd.Path, cmd.Path2)
	case Rename:
		return store.Rename(cmd.Path, cmd.Path2)
	case Unlink:
		return store.Unlink(cmd.Path)
	case Rmdir:
		return store.Rmdir(cmd.Path)
	case SetXattr:
		return store.SetXattr(cmd.Path, cmd.XattrName, cmd.XattrData)
	case RemoveXattr:
		return store.RemoveXattr(cmd.Path, cmd.XattrName)
	case Truncate:
		return store.Truncate(cmd.Path, cmd.Size)
	case Write:
		f, err := store.GetFile(cmd.Path)
		if err != nil {
			return err
		}
		w := content.NewWriter(f)
		if _, err := w.Seek(int64(cmd.Offset), io.SeekStart); err != nil {
			return err
		}
		w.WriteBytes(cmd.Data)
		return nil
	case Clone:
		srcKey, err := store.KeyOf(cmd.SrcPath)
		if err != nil {
			return err
		}
		src, err := store.GetFile(cmd.SrcPath)
		if err != nil {
			return err
		}
		extents := content.CloneRange(src, srcKey, cmd.SrcOffset, cmd.SrcOffset+cmd.Len)
		dst, err := store.GetFile(cmd.DstPath)
		if err != nil {
			return err
		}
		w := content.NewWriter(dst)
		if _, err := w.Seek(int64(cmd.DstOffset), io.SeekStart); err != nil {
			return err
		}
		for _, ext := range extents {
			w.Write(ext)
		}
		return nil
	case Utimes:
		return store.SetTimes(cmd.Path, cmd.Ctime, cmd.Atime, cmd.Mtime)
	case End:
		return nil
	case UpdateExtent:
		return &fserrors.InvariantViolatedError{Reason: "UpdateExtent command is not supported"}
	default:
		return &fserrors.InvariantViolatedError{Reason: "unknown command kind"}
	}
}

