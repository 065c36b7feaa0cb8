// Copyright 2024 Google Inc. All Rights Reserved.
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

package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/vmagro/filesystem-in-a-file/fs"
	"github.com/vmagro/filesystem-in-a-file/ingest"
)

// loadPath inspects path and loads it into a fresh Filesystem: a directory
// is scanned in place, a ".tar"/".tar.gz" is untarred, anything else is
// assumed to be a newc cpio stream.
func loadPath(path string) (*fs.Filesystem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	store := fs.New()
	if info.IsDir() {
		if err := ingest.ScanDirectory(afero.NewOsFs(), path, store); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		return store, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzipping %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	switch {
	case strings.Contains(path, ".tar"):
		if err := ingest.Tar(r, store); err != nil {
			return nil, fmt.Errorf("untarring %s: %w", path, err)
		}
	default:
		if err := ingest.Cpio(r, store); err != nil {
			return nil, fmt.Errorf("reading cpio %s: %w", path, err)
		}
	}
	return store, nil
}
