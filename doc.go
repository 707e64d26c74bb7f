// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7735r controls TFT panels driven by a Sitronix ST7715R or
// ST7735R display controller wired to a 4-wire SPI bus.
//
// The driver exposes the display pipe lifecycle used by a compositing
// graphics stack: Enable brings the panel up and stages the first frame,
// Update records the newest source framebuffer, and RefreshTick streams
// the recorded frame to the panel. RefreshTick is meant to be invoked by
// a periodic refresh source owned by the embedding runtime, typically a
// time.Ticker running at Opts.FrameRate.
//
// Frames are converted to the panel's native 16-bit 5-6-5 pixel format;
// see the rgb565 subpackage.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package st7735r
