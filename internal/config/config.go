// Copyright 2026 The mdtk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config defines the mdserve configuration file format.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for the playground server.
type Config struct {
	// Addr is the TCP address the HTTP server listens on.
	Addr string `yaml:"addr"`
	// PublicDir is the directory of static files served at the root path.
	// Empty disables static file serving.
	PublicDir string `yaml:"publicDir"`
	// LogLevel is one of "debug", "info", "warn", or "error".
	LogLevel string `yaml:"logLevel"`
	// MaxSourceBytes caps the size of request bodies accepted by the
	// parse and render endpoints.
	MaxSourceBytes int64 `yaml:"maxSourceBytes"`
	// ShutdownTimeout bounds how long a graceful shutdown may take.
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// Duration is a [time.Duration] that reads from YAML
// as a string like "5s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements [yaml.Unmarshaler].
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements [yaml.Marshaler].
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file or flags are given.
func Default() *Config {
	return &Config{
		Addr:            "localhost:8275",
		LogLevel:        "info",
		MaxSourceBytes:  1 << 20,
		ShutdownTimeout: Duration(5 * time.Second),
	}
}

// Load reads a YAML configuration file.
// Settings absent from the file keep their default values,
// and unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.MaxSourceBytes <= 0 {
		return fmt.Errorf("config: maxSourceBytes must be positive (got %d)", c.MaxSourceBytes)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: shutdownTimeout must not be negative (got %v)", time.Duration(c.ShutdownTimeout))
	}
	return nil
}
