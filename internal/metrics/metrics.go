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

// Package metrics exposes prometheus counters and histograms for the
// command-line tools: how many paths were ingested, diffed or replayed, and
// how long each of those operations took.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PathsIngested counts entries inserted by an ingest.* collaborator,
	// labeled by source format.
	PathsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filesystem_in_a_file",
		Name:      "paths_ingested_total",
		Help:      "Number of filesystem entries read in by an ingest source.",
	}, []string{"format"})

	// DiffEntries counts the Added/Removed/Changed entries a diff run
	// produces, labeled by state.
	DiffEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filesystem_in_a_file",
		Name:      "diff_entries_total",
		Help:      "Number of entries classified by a diff run, by state.",
	}, []string{"state"})

	// SendstreamCommands counts commands replayed by the sendstream
	// package, labeled by command kind.
	SendstreamCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filesystem_in_a_file",
		Name:      "sendstream_commands_total",
		Help:      "Number of sendstream commands applied, by kind.",
	}, []string{"kind"})

	// OperationDuration times a whole CLI operation (ingest, diff,
	// replay, materialize), labeled by its name.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "filesystem_in_a_file",
		Name:      "operation_duration_seconds",
		Help:      "Wall-clock duration of a top-level CLI operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// Time records how long fn took to run against OperationDuration, under
// operation's label.
func Time(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	return err
}
