// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import "time"

// controller is the command surface the panel sequences are written
// against. Dev implements it through errorHandler; tests substitute a
// recorder.
type controller interface {
	command(cmd byte, data ...byte)
	delay(t time.Duration)
}

// initPanel issues the power-up sequence. The frame, power and gamma
// tuning values are the module vendor's; the delays after soft reset,
// sleep-out, display-on and normal-mode are mandated minimums from the
// ST7735R datasheet.
func initPanel(ctrl controller, madctl byte) {
	ctrl.command(cmdSoftReset)
	ctrl.delay(5 * time.Millisecond)

	ctrl.command(cmdSleepOut)
	ctrl.delay(500 * time.Millisecond)

	ctrl.command(cmdFrameCtlNormal, 0x01, 0x2c, 0x2d)
	ctrl.command(cmdFrameCtlIdle, 0x01, 0x2c, 0x2d)
	ctrl.command(cmdFrameCtlPartial, 0x01, 0x2c, 0x2d, 0x01, 0x2c, 0x2d)
	ctrl.command(cmdInversionCtl, 0x07)
	ctrl.command(cmdPowerCtl1, 0xa2, 0x02, 0x84)
	ctrl.command(cmdPowerCtl2, 0xc5)
	ctrl.command(cmdPowerCtl3, 0x0a, 0x00)
	ctrl.command(cmdPowerCtl4, 0x8a, 0x2a)
	ctrl.command(cmdPowerCtl5, 0x8a, 0xee)
	ctrl.command(cmdVcomCtl, 0x0e)
	ctrl.command(cmdInvertOff)

	ctrl.command(cmdAddressMode, madctl)
	ctrl.command(cmdPixelFormat, pixelFormat16Bit)

	ctrl.command(cmdGammaPositive,
		0x02, 0x1c, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2d,
		0x29, 0x25, 0x2b, 0x39, 0x00, 0x01, 0x03, 0x10)
	ctrl.command(cmdGammaNegative,
		0x03, 0x1d, 0x07, 0x06, 0x2e, 0x2c, 0x29, 0x2d,
		0x2e, 0x2e, 0x37, 0x3f, 0x00, 0x00, 0x02, 0x10)

	ctrl.command(cmdDisplayOn)
	ctrl.delay(100 * time.Millisecond)

	ctrl.command(cmdNormalMode)
	ctrl.delay(20 * time.Millisecond)
}

// setWindow selects the full visible rectangle, shifted by the module's
// RAM offsets, and opens memory write mode. The write pointer resets to
// the window origin on every cmdMemoryWrite, which is why the sequence is
// reissued before each frame.
func setWindow(ctrl controller, cfg *Config, w, h int) {
	xs := cfg.LeftOffset
	xe := cfg.LeftOffset + w
	ys := cfg.TopOffset
	ye := cfg.TopOffset + h

	ctrl.command(cmdColumnAddr, byte(xs>>8), byte(xs), byte(xe>>8), byte(xe))
	ctrl.command(cmdPageAddr, byte(ys>>8), byte(ys), byte(ye>>8), byte(ye))
	ctrl.command(cmdMemoryWrite)
}

// haltPanel blanks the panel and puts the controller in its low-power
// sleep state.
func haltPanel(ctrl controller) {
	ctrl.command(cmdDisplayOff)
	ctrl.command(cmdSleepIn)
}
