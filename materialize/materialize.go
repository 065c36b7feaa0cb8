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

// Package materialize writes a Filesystem out onto a real directory tree,
// the inverse of ingest: it walks paths in order, creating each node kind
// with the real syscall that matches it, then lays down permissions,
// ownership and xattrs once the node exists.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/xattr"
	"golang.org/x/sys/unix"

	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
)

// ToDirectory creates root (which must not yet exist, or be empty) and
// writes every path in src under it. Paths are processed in the order
// Filesystem.Paths returns them -- byte-lexicographic, so a directory is
// always created before its children.
func ToDirectory(src *fs.Filesystem, root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating root %s: %w", root, err)
	}

	for _, p := range src.Paths() {
		if p.String() == "" {
			continue // root already created above
		}
		e, err := src.Get(p)
		if err != nil {
			return err
		}
		real := filepath.Join(root, filepath.FromSlash(p.String()))
		if err := create(real, e); err != nil {
			return fmt.Errorf("materializing %s: %w", p, err)
		}
	}

	for _, p := range src.Paths() {
		if p.String() == "" {
			continue
		}
		e, err := src.Get(p)
		if err != nil {
			return err
		}
		real := filepath.Join(root, filepath.FromSlash(p.String()))
		if err := applyMetadata(real, e); err != nil {
			return fmt.Errorf("applying metadata to %s: %w", p, err)
		}
	}
	return nil
}

func create(real string, e entry.Entry) error {
	switch e.Kind() {
	case entry.Directory:
		return os.Mkdir(real, 0o755)
	case entry.File:
		c, _ := e.Content()
		return os.WriteFile(real, c.ToBytes(), 0o644)
	case entry.Symlink:
		target, _ := e.Target()
		return os.Symlink(target, real)
	case entry.Special:
		t, _ := e.SpecialType()
		rdev, _ := e.Rdev()
		return mknod(real, t, rdev)
	default:
		return fmt.Errorf("unhandled entry kind %s", e.Kind())
	}
}

func mknod(real string, t entry.SpecialType, rdev uint64) error {
	var mode uint32
	switch t {
	case entry.FIFO:
		mode = unix.S_IFIFO
	case entry.Socket:
		mode = unix.S_IFSOCK
	case entry.CharDevice:
		mode = unix.S_IFCHR
	case entry.BlockDevice:
		mode = unix.S_IFBLK
	default:
		return fmt.Errorf("unknown special type %s", t)
	}
	return unix.Mknod(real, mode|0o600, int(rdev))
}

// applyMetadata sets permissions, ownership, timestamps and xattrs on an
// already-created node. Symlinks never get their permission bits changed
// (most platforms do not honor them) but do get lchown'd.
func applyMetadata(real string, e entry.Entry) error {
	m := e.Metadata()

	if e.Kind() == entry.Symlink {
		if err := unix.Lchown(real, int(m.UID), int(m.GID)); err != nil {
			return fmt.Errorf("lchown: %w", err)
		}
		return nil
	}

	if e.Kind() != entry.Special {
		if err := os.Chmod(real, os.FileMode(m.Mode)); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
	}
	if err := os.Chown(real, int(m.UID), int(m.GID)); err != nil {
		return fmt.Errorf("chown: %w", err)
	}
	for name, data := range m.Xattrs {
		if err := xattr.Set(real, name, data); err != nil {
			return fmt.Errorf("setxattr %s: %w", name, err)
		}
	}
	if !m.Modified.IsZero() {
		if err := os.Chtimes(real, m.Accessed, m.Modified); err != nil {
			return fmt.Errorf("chtimes: %w", err)
		}
	}
	return nil
}
