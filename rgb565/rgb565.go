// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements the 16-bit 5-6-5 pixel format used by
// ST7735-class panels.
//
// Pixels are stored in wire order: big-endian, red in the top five bits.
// The package provides a color model, a draw.Image implementation, and
// packers that convert whole source buffers into wire order.
package rgb565

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Color is a single RGB565 value, red in bits 15..11, green in bits 10..5
// and blue in bits 4..0.
type Color uint16

// RGBA implements color.Color. The truncated channels are replicated into
// the low bits so full intensity maps to full intensity.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11) & 0x1f
	g = uint32(c>>5) & 0x3f
	b = uint32(c) & 0x1f
	r = r<<3 | r>>2
	g = g<<2 | g>>4
	b = b<<3 | b>>2
	return r<<8 | r, g<<8 | g, b<<8 | b, 0xffff
}

func toColor(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color(r>>11<<11 | g>>10<<5 | b>>11)
}

// Model converts any color.Color to the closest RGB565 value.
var Model = color.ModelFunc(toColor)

// Image is an in-memory RGB565 image whose Pix slice holds pixels in wire
// order, two bytes per pixel.
type Image struct {
	// Pix holds the pixels in big-endian RGB565, row-major.
	Pix []byte
	// Stride is the Pix stride between vertically adjacent pixels, in
	// bytes.
	Stride int
	// Rect is the image bounds.
	Rect image.Rectangle
}

// New returns an initialized Image with all pixels black.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	return &Image{
		Pix:    make([]byte, w*h*2),
		Stride: w * 2,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y) without boxing through
// color.Color conversions.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return 0
	}
	o := i.PixOffset(x, y)
	return Color(binary.BigEndian.Uint16(i.Pix[o:]))
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	binary.BigEndian.PutUint16(i.Pix[o:], uint16(toColor(c).(Color)))
}

// PixOffset returns the index into Pix of the first byte of the pixel at
// (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

// PackXRGB8888 converts a little-endian XRGB8888 buffer (four bytes per
// pixel, byte order B, G, R, X) into wire order RGB565. dst must hold two
// bytes for every four bytes of src.
func PackXRGB8888(dst, src []byte) error {
	if len(src)%4 != 0 {
		return fmt.Errorf("rgb565: XRGB8888 source length %d is not a multiple of 4", len(src))
	}
	n := len(src) / 4
	if len(dst) < n*2 {
		return fmt.Errorf("rgb565: destination too small: %d < %d", len(dst), n*2)
	}
	for i := 0; i < n; i++ {
		b := src[i*4]
		g := src[i*4+1]
		r := src[i*4+2]
		v := uint16(r)>>3<<11 | uint16(g)>>2<<5 | uint16(b)>>3
		binary.BigEndian.PutUint16(dst[i*2:], v)
	}
	return nil
}

// PackRGB565LE converts a host little-endian RGB565 buffer into wire
// order. dst and src may alias.
func PackRGB565LE(dst, src []byte) error {
	if len(src)%2 != 0 {
		return fmt.Errorf("rgb565: RGB565 source length %d is not a multiple of 2", len(src))
	}
	if len(dst) < len(src) {
		return fmt.Errorf("rgb565: destination too small: %d < %d", len(dst), len(src))
	}
	for i := 0; i < len(src); i += 2 {
		dst[i], dst[i+1] = src[i+1], src[i]
	}
	return nil
}
