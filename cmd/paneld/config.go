// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	// SPIPort is the SPI port name understood by spireg, e.g.
	// "SPI0.0". Empty selects the first available port.
	SPIPort string `yaml:"spi_port"`

	// DCPin and ResetPin are the gpioreg names of the data/command and
	// reset lines.
	DCPin    string `yaml:"dc_pin"`
	ResetPin string `yaml:"reset_pin"`

	// BacklightName selects a kernel backlight class device. When set it
	// takes precedence over BacklightPin.
	BacklightName string `yaml:"backlight_name"`
	// BacklightPin is the gpioreg name of a GPIO driven backlight.
	BacklightPin string `yaml:"backlight_pin"`
	// Brightness is the level applied to a kernel backlight, 1 to 19.
	Brightness int `yaml:"brightness"`

	// Model is the panel model, e.g. "tft18019" or "jd-t18003-t01".
	Model string `yaml:"model"`
	// Rotation of the picture in degrees: 0, 90, 180 or 270.
	Rotation int `yaml:"rotation"`
	// FrameRate is the panel refresh rate in frames per second.
	FrameRate int `yaml:"frame_rate"`

	// Width and Height size the preview outputs when no panel is
	// attached.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Redraw is a cron-style schedule for scene redraws, e.g.
	// "* * * * *" for once a minute.
	Redraw string `yaml:"redraw"`

	// Timezone is the IANA timezone the clock scene is rendered in.
	// Empty uses the system timezone.
	Timezone string `yaml:"timezone"`

	// Listen is the HTTP listen address for the web preview. Empty
	// disables the web preview.
	Listen string `yaml:"listen"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DCPin:     "GPIO25",
		ResetPin:  "GPIO17",
		Model:     "tft18019",
		FrameRate: 30,
		Width:     128,
		Height:    160,
		Redraw:    "* * * * *",
	}
}

// Normalize fills in missing or zero values so partially filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.DCPin == "" {
		c.DCPin = "GPIO25"
	}
	if c.ResetPin == "" {
		c.ResetPin = "GPIO17"
	}
	if c.Model == "" {
		c.Model = "tft18019"
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 30
	}
	if c.Width <= 0 {
		c.Width = 128
	}
	if c.Height <= 0 {
		c.Height = 160
	}
	if c.Redraw == "" {
		c.Redraw = "* * * * *"
	}
}

// LoadConfig loads configuration from the given YAML path. A missing file
// is a first run: the default config is written out and returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := SaveConfig(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// SaveConfig writes the configuration to the given path, atomically via a
// temp file in the same directory, with 0600 permissions.
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".paneld-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
