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

// Package ingest holds the external collaborators that populate a
// Filesystem from an archive or a real directory: tar, cpio (newc), and a
// directory scanner. These are thin decoders that call into *fs.Filesystem's
// own exported mutators (Insert, Chmod, Chown, SetXattr, ...) -- those
// methods are themselves the builder contract a decoder writes through, so
// there is no separate interface to satisfy.
package ingest
