/*
 *
 * Copyright 2025 The Aeron-Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package config loads the YAML configuration shared by the command line
// tools. Flags override file values; the file is optional.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	CncFile string     `yaml:"cnc_file"` // Path to the counters file
	Stat    StatConfig `yaml:"stat"`
}

// StatConfig holds settings for the counters stat tool.
type StatConfig struct {
	Interval Duration `yaml:"interval"` // Refresh interval for watch mode
	JSON     bool     `yaml:"json"`     // Emit one JSON snapshot and exit
	NoTUI    bool     `yaml:"no_tui"`   // Plain listing even on a TTY
	TypeID   int32    `yaml:"type_id"`  // Show only counters of this type; -1 for all
}

// Duration is a time.Duration that unmarshals from YAML strings such as
// "250ms" or "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Stat: StatConfig{
			Interval: Duration(time.Second),
			TypeID:   -1,
		},
	}
}

// Load reads and parses a configuration file, applying defaults for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Stat.Interval <= 0 {
		cfg.Stat.Interval = Duration(time.Second)
	}

	return cfg, nil
}
