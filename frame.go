// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/devices/v3/st7735r/rgb565"
)

// PixelFormat identifies the memory layout of a source framebuffer.
type PixelFormat int

const (
	// RGB565 is 16 bits per pixel in host little-endian byte order.
	RGB565 PixelFormat = iota
	// XRGB8888 is 32 bits per pixel in little-endian byte order (B, G,
	// R, X); the X byte is ignored.
	XRGB8888
)

func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case XRGB8888:
		return "XRGB8888"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// bytesPerPixel returns the source stride per pixel.
func (f PixelFormat) bytesPerPixel() int {
	if f == XRGB8888 {
		return 4
	}
	return 2
}

// Framebuffer is a non-owning handle to a source buffer supplied by the
// graphics side. The driver reads it during refresh ticks and never frees
// it; the producer guarantees the pixel memory stays valid and unchanged
// between BeginCPUAccess and EndCPUAccess.
type Framebuffer interface {
	// Format reports the pixel layout of the mapped memory.
	Format() PixelFormat
	// Bounds reports the buffer geometry.
	Bounds() image.Rectangle
	// BeginCPUAccess opens a read-access window. While the window is
	// open the producer must not resize or reclaim the buffer.
	BeginCPUAccess() error
	// EndCPUAccess closes the window opened by BeginCPUAccess.
	EndCPUAccess()
	// Map exposes the raw pixel memory, row-major and tightly packed.
	// The slice is valid until Unmap.
	Map() ([]byte, error)
	// Unmap releases the mapping returned by Map.
	Unmap()
}

// stage converts one full source rectangle into dst in panel wire order.
func stage(dst, src []byte, format PixelFormat, w, h int) error {
	need := w * h * format.bytesPerPixel()
	if len(src) < need {
		return fmt.Errorf("st7735r: short source buffer: %d < %d", len(src), need)
	}
	src = src[:need]
	switch format {
	case RGB565:
		return rgb565.PackRGB565LE(dst, src)
	case XRGB8888:
		return rgb565.PackXRGB8888(dst, src)
	}
	return fmt.Errorf("st7735r: unsupported pixel format %s", format)
}

// ImageFrame is an in-memory Framebuffer for runtimes that render frames
// on the CPU. SetImage and Draw take the producer-side write lock, so a
// refresh tick that is copying the previous contents finishes before new
// pixels land; the tick's read-access window in turn blocks writers for
// the duration of the copy.
type ImageFrame struct {
	format PixelFormat
	rect   image.Rectangle

	mu  sync.RWMutex
	pix []byte
}

// NewImageFrame allocates a black frame with the given format and bounds.
func NewImageFrame(format PixelFormat, r image.Rectangle) *ImageFrame {
	return &ImageFrame{
		format: format,
		rect:   r,
		pix:    make([]byte, r.Dx()*r.Dy()*format.bytesPerPixel()),
	}
}

// Format implements Framebuffer.
func (f *ImageFrame) Format() PixelFormat {
	return f.format
}

// Bounds implements Framebuffer.
func (f *ImageFrame) Bounds() image.Rectangle {
	return f.rect
}

// BeginCPUAccess implements Framebuffer.
func (f *ImageFrame) BeginCPUAccess() error {
	f.mu.RLock()
	return nil
}

// EndCPUAccess implements Framebuffer.
func (f *ImageFrame) EndCPUAccess() {
	f.mu.RUnlock()
}

// Map implements Framebuffer.
func (f *ImageFrame) Map() ([]byte, error) {
	return f.pix, nil
}

// Unmap implements Framebuffer.
func (f *ImageFrame) Unmap() {
}

// SetImage rasterizes src over the whole frame.
func (f *ImageFrame) SetImage(src image.Image) {
	f.Draw(f.rect, src, src.Bounds().Min)
}

// Draw rasterizes src into the rectangle r of the frame, reading from
// src starting at sp.
func (f *ImageFrame) Draw(r image.Rectangle, src image.Image, sp image.Point) {
	r = r.Intersect(f.rect)
	f.mu.Lock()
	defer f.mu.Unlock()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			f.setLocked(x, y, c)
		}
	}
}

func (f *ImageFrame) setLocked(x, y int, c color.Color) {
	r16, g16, b16, _ := c.RGBA()
	r := byte(r16 >> 8)
	g := byte(g16 >> 8)
	b := byte(b16 >> 8)
	i := ((y-f.rect.Min.Y)*f.rect.Dx() + (x - f.rect.Min.X)) * f.format.bytesPerPixel()
	switch f.format {
	case XRGB8888:
		f.pix[i] = b
		f.pix[i+1] = g
		f.pix[i+2] = r
		f.pix[i+3] = 0xff
	case RGB565:
		v := uint16(r)>>3<<11 | uint16(g)>>2<<5 | uint16(b)>>3
		f.pix[i] = byte(v)
		f.pix[i+1] = byte(v >> 8)
	}
}

var _ Framebuffer = &ImageFrame{}
