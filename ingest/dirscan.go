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

package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/xattr"
	"github.com/spf13/afero"

	fsmodel "github.com/vmagro/filesystem-in-a-file/fs"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

// ScanDirectory walks root on the real filesystem and inserts every entry it
// finds into dst. Symlinks are not traversed: a symlink is recorded using
// its own (lstat) metadata, never the metadata of whatever it points to.
func ScanDirectory(afs afero.Fs, root string, dst *fsmodel.Filesystem) error {
	return afero.Walk(afs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dstPath := fspath.New([]byte(filepath.ToSlash(rel)))
		metrics.PathsIngested.WithLabelValues("directory").Inc()

		meta, err := metadataFromFileInfo(p, info)
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := afs.(afero.LinkReader).ReadlinkIfPossible(p)
			if err != nil {
				return fmt.Errorf("reading symlink %s: %w", p, err)
			}
			meta.Mode = 0o777
			dst.Insert(dstPath, entry.NewSymlink(target, meta))
		case info.IsDir():
			dst.Insert(dstPath, entry.NewDirectory(meta))
		case info.Mode()&os.ModeNamedPipe != 0:
			dst.Insert(dstPath, entry.NewSpecial(entry.FIFO, 0, meta))
		case info.Mode()&os.ModeSocket != 0:
			dst.Insert(dstPath, entry.NewSpecial(entry.Socket, 0, meta))
		case info.Mode()&os.ModeDevice != 0:
			rdev := rdevOf(info)
			t := entry.CharDevice
			if info.Mode()&os.ModeCharDevice == 0 {
				t = entry.BlockDevice
			}
			dst.Insert(dstPath, entry.NewSpecial(t, rdev, meta))
		default:
			data, err := afero.ReadFile(afs, p)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			dst.Insert(dstPath, entry.NewFile(meta, content.FromBytes(data)))
		}
		return nil
	})
}

func metadataFromFileInfo(p string, info fs.FileInfo) (entry.Metadata, error) {
	meta := entry.DefaultMetadata()
	meta.Mode = uint32(info.Mode().Perm())
	meta.Modified = info.ModTime()

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		meta.UID = st.Uid
		meta.GID = st.Gid
	}

	names, err := xattr.LList(p)
	if err != nil {
		// Not every backing filesystem supports xattrs; treat
		// ENOTSUP-like failures as "no xattrs" rather than aborting
		// the whole scan.
		return meta, nil
	}
	for _, name := range names {
		data, err := xattr.LGet(p, name)
		if err != nil {
			continue
		}
		meta.SetXattr(name, data)
	}
	return meta, nil
}

func rdevOf(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Rdev)
	}
	return 0
}
