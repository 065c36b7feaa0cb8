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

package cmpfields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/cmpfields"
)

func TestParseFields(t *testing.T) {
	f, err := cmpfields.ParseFields([]string{"type", "MODE"})
	require.NoError(t, err)
	assert.Equal(t, cmpfields.TYPE|cmpfields.MODE, f)
}

func TestParseFieldsGroups(t *testing.T) {
	f, err := cmpfields.ParseFields([]string{"stat"})
	require.NoError(t, err)
	assert.Equal(t, cmpfields.STAT, f)

	f, err = cmpfields.ParseFields([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, cmpfields.All, f)
}

func TestParseFieldsRejectsUnknown(t *testing.T) {
	_, err := cmpfields.ParseFields([]string{"bogus"})
	assert.Error(t, err)
}
