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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmagro/filesystem-in-a-file/cmpfields"
	"github.com/vmagro/filesystem-in-a-file/diff"
	"github.com/vmagro/filesystem-in-a-file/internal/logger"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
)

var diffCmd = &cobra.Command{
	Use:   "diff <left> <right>",
	Short: "Compare two filesystem artifacts and print a unified diff",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		required := cmpfields.AllEntryFields
		if len(MountConfig.Fields.Compare) > 0 {
			var err error
			required, err = cmpfields.ParseFields(MountConfig.Fields.Compare)
			if err != nil {
				return err
			}
		}

		var entries []diff.Entry
		err := metrics.Time("diff", func() error {
			left, err := loadPath(args[0])
			if err != nil {
				return err
			}
			right, err := loadPath(args[1])
			if err != nil {
				return err
			}
			entries = diff.Filesystems(left, right, required)
			return nil
		})
		if err != nil {
			return err
		}

		logger.Infof("found %d differing path(s)", len(entries))
		fmt.Fprint(cmd.OutOrStdout(), diff.Render(entries))
		if len(entries) > 0 {
			cmd.SilenceErrors = true
			return errDiffFound
		}
		return nil
	},
}

// errDiffFound is returned (silently) so the process exit code reflects
// that a difference was found, the way diff(1) itself does.
var errDiffFound = fmt.Errorf("filesystems differ")
