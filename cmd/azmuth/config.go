// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/azmuth/remote"
)

// config holds the peripheral parameters. The zero values of
// the file are replaced by defaults.
type config struct {
	Name           string        `yaml:"name"`
	Characteristic string        `yaml:"characteristic"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
}

func defaults() config {
	return config{
		Name:           remote.DefaultName,
		Characteristic: remote.CommandCharacteristicID,
		Timeout:        5 * time.Second,
		LogLevel:       "warn",
	}
}

func configPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "azmuth", "config.yaml")
}

// loadConfig reads the config file at path over the defaults. A missing
// file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// validate checks cfg and returns the parsed characteristic UUID.
func (c config) validate() (bluetooth.UUID, error) {
	if c.Name == "" {
		return bluetooth.UUID{}, errors.New("device name must not be empty")
	}
	if c.Timeout <= 0 {
		return bluetooth.UUID{}, fmt.Errorf("scan timeout must be positive: %v", c.Timeout)
	}
	char, err := bluetooth.ParseUUID(c.Characteristic)
	if err != nil {
		return bluetooth.UUID{}, fmt.Errorf("invalid characteristic %q: %w", c.Characteristic, err)
	}
	return char, nil
}
