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

// Package cfg holds the configuration shared by every subcommand: flags
// bound through pflag/viper so a value can come from a CLI flag or a config
// file, with that precedence. Environment variables are not consulted.
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vmagro/filesystem-in-a-file/internal/logger"
)

// Config is the root of every tunable these tools expose.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`

	Fields FieldsConfig `yaml:"fields"`
}

type LoggingConfig struct {
	Format   string `yaml:"format"`
	Severity string `yaml:"severity"`
	FilePath string `yaml:"file-path" mapstructure:"file-path"`
}

// FieldsConfig names the cmpfields bits diff compares by, given on the
// CLI as a comma-separated list (e.g. "type,data,mode").
type FieldsConfig struct {
	Compare []string `yaml:"compare"`
}

// BindFlags registers every flag on flagSet and binds it into viper under
// the matching dotted key, giving the precedence flags > config file >
// defaults.
func BindFlags(flagSet *pflag.FlagSet) error {
	flagSet.String("log-format", "text", "Log output format: text or json.")
	if err := viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.String("log-severity", string(logger.INFO), "Minimum severity to log: OFF, ERROR, WARNING, INFO, DEBUG, TRACE.")
	if err := viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.String("log-file", "", "Path to write logs to; empty means stderr.")
	if err := viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	flagSet.StringSlice("compare-fields", nil, "Comma-separated cmpfields names to compare; empty means all.")
	if err := viper.BindPFlag("fields.compare", flagSet.Lookup("compare-fields")); err != nil {
		return err
	}

	return nil
}

// Load reads bound viper state (flags + any loaded config file) into a
// Config.
func Load() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// InitLogger configures the package-level logger from c.
func (c Config) InitLogger() {
	logger.Init(logger.Config{
		Format:   c.Logging.Format,
		Severity: logger.Severity(c.Logging.Severity),
		FilePath: c.Logging.FilePath,
	})
}
