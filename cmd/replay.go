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
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vmagro/filesystem-in-a-file/internal/logger"
	"github.com/vmagro/filesystem-in-a-file/internal/metrics"
	"github.com/vmagro/filesystem-in-a-file/materialize"
	"github.com/vmagro/filesystem-in-a-file/sendstream"
)

var replayOutDir string

var replayCmd = &cobra.Command{
	Use:   "replay <commands.yaml>",
	Short: "Replay a decoded sendstream command log into subvolumes",
	Long: `replay reads a YAML list of sendstream commands (this tool has no
binary BTRFS sendstream decoder of its own) and applies them in order,
printing which subvolumes resulted. With --out, each subvolume's final
filesystem is additionally materialized under <out>/<uuid>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return metrics.Time("replay", func() error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			var commands []sendstream.Command
			if err := yaml.Unmarshal(raw, &commands); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			subvols := sendstream.New()
			if err := subvols.Receive(commands); err != nil {
				return fmt.Errorf("replaying %s: %w", args[0], err)
			}

			for id, sv := range subvols {
				logger.Infof("subvol %s: %d path(s), parent=%v", id, len(sv.FS.Paths()), sv.HasParent)
				if replayOutDir == "" {
					continue
				}
				dest := replayOutDir + "/" + id.String()
				if err := materialize.ToDirectory(sv.FS, dest); err != nil {
					return fmt.Errorf("materializing subvol %s: %w", id, err)
				}
			}
			return nil
		})
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayOutDir, "out", "", "Directory to materialize each resulting subvolume under.")
}
