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
	"archive/tar"
	"fmt"
	"io"
	"strings"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

// xattrPrefix is the pax extended-header key prefix star/GNU tar (and
// SCHILY-aware writers) use to carry xattrs that have no other home in the
// ustar header.
const xattrPrefix = "SCHILY.xattr."

// Tar reads a ustar/pax stream from r and inserts every entry into dst.
// Directory paths carry a trailing slash in the archive; it is stripped
// before insertion since Filesystem paths never carry one. Xattrs travel as
// pax records keyed "SCHILY.xattr.<name>".
func Tar(r io.Reader, dst *fs.Filesystem) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		metrics.PathsIngested.WithLabelValues("tar").Inc()

		name := strings.TrimSuffix(hdr.Name, "/")
		path := fspath.New([]byte(name))
		meta := entry.DefaultMetadata()
		meta.Mode = uint32(hdr.Mode) & 0o7777
		meta.UID = uint32(hdr.Uid)
		meta.GID = uint32(hdr.Gid)
		meta.Modified = hdr.ModTime
		meta.Accessed = hdr.AccessTime
		meta.Created = hdr.ChangeTime
		for k, v := range hdr.PAXRecords {
			if xattrName, ok := strings.CutPrefix(k, xattrPrefix); ok {
				meta.SetXattr(xattrName, []byte(v))
			}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			dst.Insert(path, entry.NewDirectory(meta))
		case tar.TypeReg, tar.TypeRegA:
			data := make([]byte, hdr.Size)
			if _, err := io.ReadFull(tr, data); err != nil {
				return fmt.Errorf("reading tar contents for %s: %w", name, err)
			}
			dst.Insert(path, entry.NewFile(meta, content.FromBytes(data)))
		case tar.TypeSymlink:
			meta.Mode = 0o777
			dst.Insert(path, entry.NewSymlink(hdr.Linkname, meta))
		case tar.TypeLink:
			target := fspath.New([]byte(strings.TrimSuffix(hdr.Linkname, "/")))
			if err := dst.Link(target, path); err != nil {
				return fmt.Errorf("hardlinking %s -> %s: %w", name, hdr.Linkname, err)
			}
		case tar.TypeFifo:
			dst.Insert(path, entry.NewSpecial(entry.FIFO, 0, meta))
		case tar.TypeChar:
			rdev := makedev(uint32(hdr.Devmajor), uint32(hdr.Devminor))
			dst.Insert(path, entry.NewSpecial(entry.CharDevice, rdev, meta))
		case tar.TypeBlock:
			rdev := makedev(uint32(hdr.Devmajor), uint32(hdr.Devminor))
			dst.Insert(path, entry.NewSpecial(entry.BlockDevice, rdev, meta))
		default:
			return fmt.Errorf("unsupported tar entry type %q for %s", hdr.Typeflag, name)
		}
	}
}

// makedev packs major/minor device numbers the same way glibc's makedev
// does, matching what a Linux stat(2) rdev field would report.
func makedev(major, minor uint32) uint64 {
	return uint64(minor&0xff) | uint64(major&0xfff)<<8 |
		uint64(minor&0xffffff00)<<12 | uint64(major&0xfffff000)<<32
}
