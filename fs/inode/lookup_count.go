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

package inode

import "fmt"

// A helper struct counting the number of paths referencing an inode.
// External synchronization is required.
type lookupCount struct {
	count uint64
}

func (lc *lookupCount) Inc() {
	lc.count++
}

func (lc *lookupCount) Dec(n uint64) (destroyed bool) {
	if n > lc.count {
		panic(fmt.Sprintf(
			"n is greater than lookup count: %v vs. %v",
			n,
			lc.count))
	}

	lc.count -= n
	return lc.count == 0
}
