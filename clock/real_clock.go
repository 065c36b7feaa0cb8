// Copyright 2025 Google LLC
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

// Package clock provides the Now() source the Filesystem stamps mutation
// times with. There is no blocking I/O anywhere in this model, so unlike the
// clock this package started from, there is no After(d) -- nothing ever
// waits on a timer.
package clock

import "time"

// Clock is a source of the current time, swappable in tests for determinism.
type Clock interface {
	Now() time.Time
}

// RealClock reports the actual wall-clock time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
