// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"errors"
	"testing"
)

func TestResolveOrientation(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cfg      *Config
		rotation int
		madctl   byte
		w, h     int
	}{
		{"tft18019 0", &TFT18019, 0, madMX | madMY, 128, 160},
		{"tft18019 90", &TFT18019, 90, madMX | madMV, 160, 128},
		{"tft18019 180", &TFT18019, 180, 0x00, 128, 160},
		{"tft18019 270", &TFT18019, 270, madMY | madMV, 160, 128},
		{"jd-t18003-t01 0", &JDT18003, 0, madMX | madMY | madBGR, 128, 160},
		{"jd-t18003-t01 180", &JDT18003, 180, madBGR, 128, 160},
	} {
		t.Run(tc.name, func(t *testing.T) {
			madctl, w, h, err := resolveOrientation(tc.cfg, tc.rotation)
			if err != nil {
				t.Fatalf("resolveOrientation(%d): %v", tc.rotation, err)
			}
			if madctl != tc.madctl || w != tc.w || h != tc.h {
				t.Errorf("resolveOrientation(%d) = %#02x, %dx%d; want %#02x, %dx%d",
					tc.rotation, madctl, w, h, tc.madctl, tc.w, tc.h)
			}
		})
	}
}

func TestResolveOrientationInvalid(t *testing.T) {
	for _, rotation := range []int{45, 91, -90, 360} {
		if _, _, _, err := resolveOrientation(&TFT18019, rotation); !errors.Is(err, ErrInvalidRotation) {
			t.Errorf("resolveOrientation(%d) = %v; want ErrInvalidRotation", rotation, err)
		}
	}
}
