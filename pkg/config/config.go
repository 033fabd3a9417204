// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/NVIDIA/hostprobe/pkg/defaults"
	"github.com/NVIDIA/hostprobe/pkg/errors"
	"github.com/NVIDIA/hostprobe/pkg/serializer"
)

const (
	// Name is the base name of the config file.
	Name = "hostprobe"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HOSTPROBE"
)

// Config holds the hostprobe settings.
type Config struct {
	SamplingWindow    time.Duration     `mapstructure:"sampling_window"`
	LogLevel          string            `mapstructure:"log_level"`
	Format            string            `mapstructure:"format"`
	Output            string            `mapstructure:"output"`
	Include           []string          `mapstructure:"include"`
	IncludeInterfaces []string          `mapstructure:"include_interfaces"`
	ExcludeInterfaces []string          `mapstructure:"exclude_interfaces"`
	IncludePartitions []string          `mapstructure:"include_partitions"`
	ExcludePartitions []string          `mapstructure:"exclude_partitions"`
	Commands          map[string]string `mapstructure:"commands"`
	ProcRoot          string            `mapstructure:"proc_root"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		SamplingWindow: defaults.SamplingWindow,
		LogLevel:       "info",
		Format:         string(serializer.FormatYAML),
		Commands:       map[string]string{},
	}
}

// Load reads the config file at path, or searches the default locations when
// path is empty. A missing file is only an error when path was given.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"failed to read config file", err, map[string]any{"path": path})
		}
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+Name))
		}
		v.AddConfigPath(filepath.Join("/etc", Name))

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read config file", err)
			}
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config", slog.String("path", used))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode config", err)
	}
	if cfg.Commands == nil {
		cfg.Commands = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("sampling_window", d.SamplingWindow)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("format", d.Format)
	v.SetDefault("output", "")
	v.SetDefault("include", []string{})
	v.SetDefault("exclude_interfaces", []string{})
	v.SetDefault("exclude_partitions", []string{})
	v.SetDefault("proc_root", "")
}

// Validate checks the format and brings the sampling window into
// [defaults.MinSamplingWindow, defaults.MaxSamplingWindow].
func (c *Config) Validate() error {
	if serializer.Format(c.Format).IsUnknown() {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q", c.Format),
			map[string]any{"supported": serializer.SupportedFormats()})
	}

	switch {
	case c.SamplingWindow <= 0:
		c.SamplingWindow = defaults.SamplingWindow
	case c.SamplingWindow < defaults.MinSamplingWindow:
		slog.Warn("sampling window raised to minimum",
			slog.Duration("configured", c.SamplingWindow),
			slog.Duration("minimum", defaults.MinSamplingWindow))
		c.SamplingWindow = defaults.MinSamplingWindow
	case c.SamplingWindow > defaults.MaxSamplingWindow:
		slog.Warn("sampling window lowered to maximum",
			slog.Duration("configured", c.SamplingWindow),
			slog.Duration("maximum", defaults.MaxSamplingWindow))
		c.SamplingWindow = defaults.MaxSamplingWindow
	}
	return nil
}
