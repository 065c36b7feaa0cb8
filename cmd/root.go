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
	"github.com/spf13/viper"

	"github.com/vmagro/filesystem-in-a-file/internal/cfg"
)

var (
	cfgFile       string
	bindErr       error
	MountConfig   cfg.Config
)

// Execute runs the root command, wiring its subcommands.
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "fsif",
	Short: "Compare and manipulate filesystem-in-a-file artifacts",
	Long: `fsif loads tarballs, cpio archives, decoded BTRFS sendstream command
logs (YAML) and real directories into an in-memory filesystem model, then
diffs, replays or materializes them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		var err error
		MountConfig, err = cfg.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		MountConfig.InitLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			_ = viper.ReadInConfig()
		}
	})

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(materializeCmd)
	rootCmd.AddCommand(replayCmd)
}
