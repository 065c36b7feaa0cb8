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

package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

func TestPathsIngestedIncrements(t *testing.T) {
	before := testutil.ToFloat64(metrics.PathsIngested.WithLabelValues("tar"))
	metrics.PathsIngested.WithLabelValues("tar").Inc()
	after := testutil.ToFloat64(metrics.PathsIngested.WithLabelValues("tar"))
	assert.Equal(t, before+1, after)
}

func TestTimeRecordsDurationAndPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	err := metrics.Time("test-op", func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)

	count := testutil.CollectAndCount(metrics.OperationDuration)
	assert.Greater(t, count, 0)
}
