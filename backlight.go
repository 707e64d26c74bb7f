// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"periph.io/x/conn/v3/gpio"
)

// Backlight is the panel backlight device. The driver switches it on at
// the end of a successful Enable and off during Disable.
type Backlight interface {
	Enable() error
	Disable() error
}

// PinBacklight drives a backlight wired directly to a GPIO pin.
type PinBacklight struct {
	Pin gpio.PinOut
}

// Enable implements Backlight.
func (b *PinBacklight) Enable() error {
	return b.Pin.Out(gpio.High)
}

// Disable implements Backlight.
func (b *PinBacklight) Disable() error {
	return b.Pin.Out(gpio.Low)
}

// Brightness levels accepted by the kernel backlight device on supported
// boards. 9 is a comfortable indoor level, 1 the lowest visible one.
const (
	BrightnessMin     = 1
	BrightnessMax     = 19
	BrightnessDefault = 9
)

// SysfsBacklight drives a kernel backlight class device, e.g.
// /sys/class/backlight/backlight.
type SysfsBacklight struct {
	// Name is the directory name under /sys/class/backlight.
	Name string
	// Level is the brightness applied by Enable. Zero means
	// BrightnessDefault.
	Level int

	root string // test override
}

// Enable implements Backlight.
func (b *SysfsBacklight) Enable() error {
	level := b.Level
	if level == 0 {
		level = BrightnessDefault
	}
	return b.SetBrightness(level)
}

// Disable implements Backlight.
func (b *SysfsBacklight) Disable() error {
	return b.write("brightness", 0)
}

// SetBrightness sets the brightness, clamped to the valid range.
func (b *SysfsBacklight) SetBrightness(level int) error {
	if level < BrightnessMin {
		level = BrightnessMin
	}
	if level > BrightnessMax {
		level = BrightnessMax
	}
	return b.write("brightness", level)
}

func (b *SysfsBacklight) write(file string, value int) error {
	root := b.root
	if root == "" {
		root = "/sys/class/backlight"
	}
	path := filepath.Join(root, b.Name, file)
	if err := os.WriteFile(path, []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("st7735r: backlight: %w", err)
	}
	return nil
}

var _ Backlight = &PinBacklight{}
var _ Backlight = &SysfsBacklight{}
