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
	"github.com/spf13/cobra"

	"github.com/vmagro/filesystem-in-a-file/internal/logger"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
	"github.com/vmagro/filesystem-in-a-file/materialize"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize <artifact> <out-dir>",
	Short: "Write an artifact's filesystem out onto a real directory tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return metrics.Time("materialize", func() error {
			store, err := loadPath(args[0])
			if err != nil {
				return err
			}
			if err := materialize.ToDirectory(store, args[1]); err != nil {
				return err
			}
			logger.Infof("materialized %d path(s) into %s", len(store.Paths()), args[1])
			return nil
		})
	},
}
