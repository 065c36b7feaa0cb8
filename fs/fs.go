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

// Package fs implements Filesystem, the inode-indexed store at the heart of
// the model: an inode arena plus an ordered path -> inode map supporting
// hard links, rename, rmdir and the other POSIX-flavored mutators.
package fs

import (
	"fmt"
	"sort"
	"time"

	"github.com/vmagro/filesystem-in-a-file/clock"
	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs/inode"
	"github.com/vmagro/filesystem-in-a-file/fserrors"
	"github.com/vmagro/filesystem-in-a-file/fspath"
)

type pathEntry struct {
	path fspath.Path
	key  inode.Key
}

// Filesystem is the inode-indexed store: an arena of Entries plus an ordered
// map from path to the inode backing it. The same inode may be reachable
// from multiple paths (hard links); the ordered map keeps iteration
// byte-lexicographic and deterministic.
type Filesystem struct {
	arena *inode.Arena
	paths []pathEntry // sorted by path, non-duplicate
	clock clock.Clock
}

// New returns a filesystem containing only an empty root directory with
// default (unstamped) metadata. Entries inserted later are stamped with the
// real wall-clock time.
func New() *Filesystem {
	return NewWithClock(clock.RealClock{})
}

// NewWithClock is like New but stamps mutation times using c, letting tests
// assert on exact timestamps with a clock.SimulatedClock.
func NewWithClock(c clock.Clock) *Filesystem {
	fs := &Filesystem{arena: inode.NewArena(), clock: c}
	root := entry.NewDirectory(entry.DefaultMetadata())
	key := fs.arena.Insert(root)
	fs.paths = []pathEntry{{path: fspath.New(nil), key: key}}
	return fs
}

// Clone returns a deep copy of fs: every entry is independently cloned, so
// mutating the clone (e.g. replaying further sendstream commands against
// it) never affects the original. Used by Snapshot commands.
func (fs *Filesystem) Clone() *Filesystem {
	out := &Filesystem{
		arena: fs.arena.Clone(),
		paths: make([]pathEntry, len(fs.paths)),
		clock: fs.clock,
	}
	copy(out.paths, fs.paths)
	return out
}

func (fs *Filesystem) indexOf(p fspath.Path) (int, bool) {
	i := sort.Search(len(fs.paths), func(i int) bool { return !fs.paths[i].path.Less(p) })
	if i < len(fs.paths) && fs.paths[i].path == p {
		return i, true
	}
	return i, false
}

// Paths returns every path in the filesystem, in byte-lexicographic order.
// The returned slice must not be mutated.
func (fs *Filesystem) Paths() []fspath.Path {
	out := make([]fspath.Path, len(fs.paths))
	for i, pe := range fs.paths {
		out[i] = pe.path
	}
	return out
}

// Insert allocates a fresh inode holding e and associates path with it,
// returning the new inode's key. If path already exists its prior
// association is overwritten, but the prior inode's refcount is left
// untouched -- callers that want a clean replacement should Unlink first.
// An entry with a zero Created/Modified time is stamped with the current
// time; entries carrying real timestamps (e.g. from ingest) keep them.
func (fs *Filesystem) Insert(path fspath.Path, e entry.Entry) inode.Key {
	m := e.Metadata()
	if m.Created.IsZero() && m.Modified.IsZero() {
		now := fs.clock.Now()
		m.Created, m.Modified = now, now
		e.SetMetadata(m)
	}
	key := fs.arena.Insert(e)
	fs.setPath(path, key)
	return key
}

func (fs *Filesystem) setPath(path fspath.Path, key inode.Key) {
	i := sort.Search(len(fs.paths), func(i int) bool { return !fs.paths[i].path.Less(path) })
	if i < len(fs.paths) && fs.paths[i].path == path {
		fs.paths[i].key = key
		return
	}
	fs.paths = append(fs.paths, pathEntry{})
	copy(fs.paths[i+1:], fs.paths[i:])
	fs.paths[i] = pathEntry{path: path, key: key}
}

func (fs *Filesystem) removePathAt(i int) {
	fs.paths = append(fs.paths[:i], fs.paths[i+1:]...)
}

// Get returns the entry at path.
func (fs *Filesystem) Get(path fspath.Path) (entry.Entry, error) {
	i, ok := fs.indexOf(path)
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: %s", fserrors.NotFound, path)
	}
	e, _ := fs.arena.Get(fs.paths[i].key)
	return e, nil
}

// GetFile returns the File content at path, erroring WrongEntryType if the
// entry there is not a File.
func (fs *Filesystem) GetFile(path fspath.Path) (*content.File, error) {
	e, err := fs.Get(path)
	if err != nil {
		return nil, err
	}
	c, ok := e.Content()
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", fserrors.WrongEntryType, path, e.Kind())
	}
	return c, nil
}

// KeyOf returns the inode key backing path, for callers (e.g. clone_range)
// that need a stable diagnostic identity.
func (fs *Filesystem) KeyOf(path fspath.Path) (inode.Key, error) {
	i, ok := fs.indexOf(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", fserrors.NotFound, path)
	}
	return fs.paths[i].key, nil
}

// mutate fetches the entry at path, applies fn, and writes it back. fn may
// mutate metadata freely; the File/content pointer embedded in a File entry
// is shared, so in-place writes through GetFile remain visible without going
// through mutate at all.
func (fs *Filesystem) mutate(path fspath.Path, fn func(e *entry.Entry) error) error {
	i, ok := fs.indexOf(path)
	if !ok {
		return fmt.Errorf("%w: %s", fserrors.NotFound, path)
	}
	e, _ := fs.arena.Get(fs.paths[i].key)
	if err := fn(&e); err != nil {
		return err
	}
	fs.arena.Set(fs.paths[i].key, e)
	return nil
}

// Chmod updates path's permission bits.
func (fs *Filesystem) Chmod(path fspath.Path, mode uint32) error {
	return fs.mutate(path, func(e *entry.Entry) error {
		m := e.Metadata()
		m.Mode = mode & 0o7777
		m.Modified = fs.clock.Now()
		e.SetMetadata(m)
		return nil
	})
}

// Chown updates path's owning uid/gid.
func (fs *Filesystem) Chown(path fspath.Path, uid, gid uint32) error {
	return fs.mutate(path, func(e *entry.Entry) error {
		m := e.Metadata()
		m.UID, m.GID = uid, gid
		m.Modified = fs.clock.Now()
		e.SetMetadata(m)
		return nil
	})
}

// SetTimes updates path's created/accessed/modified timestamps.
func (fs *Filesystem) SetTimes(path fspath.Path, created, accessed, modified time.Time) error {
	return fs.mutate(path, func(e *entry.Entry) error {
		m := e.Metadata()
		m.Created, m.Accessed, m.Modified = created, accessed, modified
		e.SetMetadata(m)
		return nil
	})
}

// SetXattr sets an xattr on path.
func (fs *Filesystem) SetXattr(path fspath.Path, name string, data []byte) error {
	return fs.mutate(path, func(e *entry.Entry) error {
		m := e.Metadata()
		m.SetXattr(name, data)
		e.SetMetadata(m)
		return nil
	})
}

// RemoveXattr removes an xattr from path, a no-op if unset.
func (fs *Filesystem) RemoveXattr(path fspath.Path, name string) error {
	return fs.mutate(path, func(e *entry.Entry) error {
		m := e.Metadata()
		m.RemoveXattr(name)
		e.SetMetadata(m)
		return nil
	})
}

// Truncate resizes the file at path, erroring WrongEntryType if it is not a
// File.
func (fs *Filesystem) Truncate(path fspath.Path, length uint64) error {
	c, err := fs.GetFile(path)
	if err != nil {
		return err
	}
	c.Truncate(length)
	return nil
}

// Unlink removes path's association, decrementing the backing inode's
// refcount. It does not cascade into a directory's children; use Rmdir for
// that.
func (fs *Filesystem) Unlink(path fspath.Path) error {
	i, ok := fs.indexOf(path)
	if !ok {
		return fmt.Errorf("%w: %s", fserrors.NotFound, path)
	}
	key := fs.paths[i].key
	fs.removePathAt(i)
	fs.arena.Decref(key)
	return nil
}

// Rename atomically moves the inode association at from to to. Fails if
// from does not exist, or if to already exists (rename never overwrites).
func (fs *Filesystem) Rename(from, to fspath.Path) error {
	i, ok := fs.indexOf(from)
	if !ok {
		return fmt.Errorf("%w: %s", fserrors.NotFound, from)
	}
	if _, exists := fs.indexOf(to); exists {
		return fmt.Errorf("%w: %s", fserrors.AlreadyExists, to)
	}
	key := fs.paths[i].key
	fs.removePathAt(i)
	fs.setPath(to, key)
	return nil
}

// Link creates a hard link: new becomes a second path to the inode at old.
// Fails NotFound if old does not exist, IsADirectory if it is a directory.
func (fs *Filesystem) Link(old, new fspath.Path) error {
	i, ok := fs.indexOf(old)
	if !ok {
		return fmt.Errorf("%w: %s", fserrors.NotFound, old)
	}
	key := fs.paths[i].key
	e, _ := fs.arena.Get(key)
	if e.Kind() == entry.Directory {
		return fmt.Errorf("%w: %s", fserrors.IsADirectory, old)
	}
	fs.arena.Incref(key)
	fs.setPath(new, key)
	return nil
}

// Rmdir removes the directory at path. Fails NotADirectory if path is not a
// directory, DirectoryNotEmpty if any other path is strictly contained
// within it.
func (fs *Filesystem) Rmdir(path fspath.Path) error {
	e, err := fs.Get(path)
	if err != nil {
		return err
	}
	if e.Kind() != entry.Directory {
		return fmt.Errorf("%w: %s", fserrors.NotADirectory, path)
	}
	for _, pe := range fs.paths {
		if pe.path.HasPrefixDir(path) {
			return fmt.Errorf("%w: %s", fserrors.DirectoryNotEmpty, path)
		}
	}
	return fs.Unlink(path)
}

