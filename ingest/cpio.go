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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vmagro/filesystem-in-a-file/content"
	"github.com/vmagro/filesystem-in-a-file/entry"
	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/fspath"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

// newc is the magic of the "new ASCII" cpio format, the only one Cpio
// understands. cpio carries no xattrs, so entries ingested this way never
// have any.
const newcMagic = "070701"

const trailer = "TRAILER!!!"

// cpioHeader is the fixed 110-byte newc header, every field 8 hex digits
// wide apart from the 6-byte magic.
type cpioHeader struct {
	ino, mode, uid, gid               uint32
	nlink                             uint32
	mtime                             uint32
	filesize                          uint32
	devmajor, devminor                uint32
	rdevmajor, rdevminor              uint32
	namesize                          uint32
	check                             uint32
}

// Cpio reads a newc-format cpio stream from r and inserts every entry into
// dst.
func Cpio(r io.Reader, dst *fs.Filesystem) error {
	br := bufio.NewReader(r)
	var read uint64

	readFull := func(n int) ([]byte, error) {
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, err
		}
		read += uint64(n)
		return buf, nil
	}
	pad := func() error {
		if rem := read % 4; rem != 0 {
			if _, err := readFull(int(4 - rem)); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		hdrBytes, err := readFull(110)
		if err != nil {
			return fmt.Errorf("reading cpio header: %w", err)
		}
		if string(hdrBytes[:6]) != newcMagic {
			return fmt.Errorf("unsupported cpio magic %q, only newc is supported", hdrBytes[:6])
		}
		hdr, err := parseCpioHeader(hdrBytes)
		if err != nil {
			return err
		}

		nameBytes, err := readFull(int(hdr.namesize))
		if err != nil {
			return fmt.Errorf("reading cpio entry name: %w", err)
		}
		if err := pad(); err != nil {
			return err
		}
		name := string(nameBytes[:len(nameBytes)-1]) // drop the trailing NUL

		if name == trailer {
			return nil
		}

		dataBytes, err := readFull(int(hdr.filesize))
		if err != nil {
			return fmt.Errorf("reading cpio entry data for %s: %w", name, err)
		}
		if err := pad(); err != nil {
			return err
		}

		if err := insertCpioEntry(dst, name, hdr, dataBytes); err != nil {
			return err
		}
		metrics.PathsIngested.WithLabelValues("cpio").Inc()
	}
}

func parseCpioHeader(b []byte) (cpioHeader, error) {
	field := func(off int) (uint32, error) {
		v, err := strconv.ParseUint(string(b[off:off+8]), 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parsing cpio header field: %w", err)
		}
		return uint32(v), nil
	}
	var h cpioHeader
	var err error
	for _, f := range []struct {
		off int
		dst *uint32
	}{
		{6, &h.ino}, {14, &h.mode}, {22, &h.uid}, {30, &h.gid},
		{38, &h.nlink}, {46, &h.mtime}, {54, &h.filesize},
		{62, &h.devmajor}, {70, &h.devminor},
		{78, &h.rdevmajor}, {86, &h.rdevminor},
		{94, &h.namesize}, {102, &h.check},
	} {
		*f.dst, err = field(f.off)
		if err != nil {
			return cpioHeader{}, err
		}
	}
	return h, nil
}

const (
	cpioFmtMask   = 0o170000
	cpioFmtSocket = 0o140000
	cpioFmtLink   = 0o120000
	cpioFmtReg    = 0o100000
	cpioFmtBlock  = 0o060000
	cpioFmtDir    = 0o040000
	cpioFmtChar   = 0o020000
	cpioFmtFifo   = 0o010000
)

func insertCpioEntry(dst *fs.Filesystem, name string, hdr cpioHeader, data []byte) error {
	path := fspath.New([]byte(name))
	meta := entry.DefaultMetadata()
	meta.Mode = hdr.mode & 0o7777
	meta.UID = hdr.uid
	meta.GID = hdr.gid
	meta.Modified = time.Unix(int64(hdr.mtime), 0)

	switch hdr.mode & cpioFmtMask {
	case cpioFmtDir:
		dst.Insert(path, entry.NewDirectory(meta))
	case cpioFmtReg:
		dst.Insert(path, entry.NewFile(meta, content.FromBytes(data)))
	case cpioFmtLink:
		meta.Mode = 0o777
		dst.Insert(path, entry.NewSymlink(string(data), meta))
	case cpioFmtFifo:
		dst.Insert(path, entry.NewSpecial(entry.FIFO, 0, meta))
	case cpioFmtSocket:
		dst.Insert(path, entry.NewSpecial(entry.Socket, 0, meta))
	case cpioFmtChar:
		dst.Insert(path, entry.NewSpecial(entry.CharDevice, makedev(hdr.rdevmajor, hdr.rdevminor), meta))
	case cpioFmtBlock:
		dst.Insert(path, entry.NewSpecial(entry.BlockDevice, makedev(hdr.rdevmajor, hdr.rdevminor), meta))
	default:
		return fmt.Errorf("unsupported cpio mode %o for %s", hdr.mode, name)
	}
	return nil
}
