// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import "fmt"

// MADCTL register bits.
const (
	madMY  byte = 0x80 // mirror Y
	madMX  byte = 0x40 // mirror X
	madMV  byte = 0x20 // swap axes
	madBGR byte = 0x08
)

// resolveOrientation maps a rotation in degrees to the MADCTL value the
// panel needs and to the logical frame geometry. Rotations of 90 and 270
// degrees swap width and height. Anything that is not a multiple of 90 is
// rejected so a misconfiguration surfaces when the driver is created, not
// as a garbled picture.
func resolveOrientation(cfg *Config, rotation int) (byte, int, int, error) {
	var madctl byte
	w, h := cfg.Width, cfg.Height
	switch rotation {
	case 0:
		madctl = madMX | madMY
	case 90:
		madctl = madMX | madMV
		w, h = h, w
	case 180:
		madctl = 0
	case 270:
		madctl = madMY | madMV
		w, h = h, w
	default:
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidRotation, rotation)
	}
	if cfg.BGR {
		madctl |= madBGR
	}
	return madctl, w, h, nil
}
