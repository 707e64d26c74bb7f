// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPinBacklight(t *testing.T) {
	pin := &gpiotest.Pin{N: "bl"}
	bl := &PinBacklight{Pin: pin}

	if err := bl.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if pin.L != gpio.High {
		t.Error("pin is low after Enable")
	}
	if err := bl.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if pin.L != gpio.Low {
		t.Error("pin is high after Disable")
	}
}

func TestSysfsBacklight(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "panel"), 0o755); err != nil {
		t.Fatal(err)
	}
	bl := &SysfsBacklight{Name: "panel", root: root}

	read := func() string {
		t.Helper()
		b, err := os.ReadFile(filepath.Join(root, "panel", "brightness"))
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}

	for _, tc := range []struct {
		name string
		call func() error
		want string
	}{
		{"enable default", bl.Enable, "9"},
		{"clamp high", func() error { return bl.SetBrightness(42) }, "19"},
		{"clamp low", func() error { return bl.SetBrightness(-3) }, "1"},
		{"disable", bl.Disable, "0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err != nil {
				t.Fatalf("%v", err)
			}
			if got := read(); got != tc.want {
				t.Errorf("brightness = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestSysfsBacklightLevel(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "panel"), 0o755); err != nil {
		t.Fatal(err)
	}
	bl := &SysfsBacklight{Name: "panel", Level: 4, root: root}

	if err := bl.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(root, "panel", "brightness"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "4" {
		t.Errorf("brightness = %q; want %q", b, "4")
	}
}

func TestSysfsBacklightMissing(t *testing.T) {
	bl := &SysfsBacklight{Name: "nope", root: t.TempDir()}
	if err := bl.Enable(); err == nil {
		t.Error("Enable on a missing device did not fail")
	}
}
