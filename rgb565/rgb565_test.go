// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgb565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorRGBA(t *testing.T) {
	for _, tc := range []struct {
		c       Color
		r, g, b uint32
	}{
		{0x0000, 0x0000, 0x0000, 0x0000},
		{0xffff, 0xffff, 0xffff, 0xffff},
		{0xf800, 0xffff, 0x0000, 0x0000},
		{0x07e0, 0x0000, 0xffff, 0x0000},
		{0x001f, 0x0000, 0x0000, 0xffff},
	} {
		r, g, b, a := tc.c.RGBA()
		if r != tc.r || g != tc.g || b != tc.b || a != 0xffff {
			t.Errorf("Color(%#04x).RGBA() = %#04x, %#04x, %#04x, %#04x; want %#04x, %#04x, %#04x, 0xffff",
				uint16(tc.c), r, g, b, a, tc.r, tc.g, tc.b)
		}
	}
}

func TestModel(t *testing.T) {
	for _, tc := range []struct {
		in   color.Color
		want Color
	}{
		{color.RGBA{R: 0xff, A: 0xff}, 0xf800},
		{color.RGBA{G: 0xff, A: 0xff}, 0x07e0},
		{color.RGBA{B: 0xff, A: 0xff}, 0x001f},
		{color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, 0x8410},
		{color.White, 0xffff},
		{Color(0x1234), 0x1234},
	} {
		if got := Model.Convert(tc.in).(Color); got != tc.want {
			t.Errorf("Convert(%v) = %#04x; want %#04x", tc.in, uint16(got), uint16(tc.want))
		}
	}
}

func TestImageSetAt(t *testing.T) {
	img := New(image.Rect(0, 0, 4, 4))

	img.Set(1, 2, color.RGBA{R: 0xff, A: 0xff})
	if got := img.RGB565At(1, 2); got != 0xf800 {
		t.Errorf("RGB565At(1, 2) = %#04x; want 0xf800", uint16(got))
	}
	if got := img.RGB565At(0, 0); got != 0 {
		t.Errorf("RGB565At(0, 0) = %#04x; want 0", uint16(got))
	}

	// Wire order: big-endian, red first.
	o := img.PixOffset(1, 2)
	if img.Pix[o] != 0xf8 || img.Pix[o+1] != 0x00 {
		t.Errorf("Pix[%d:] = %#02x, %#02x; want 0xf8, 0x00", o, img.Pix[o], img.Pix[o+1])
	}

	// Out of bounds access is a no-op.
	img.Set(-1, 0, color.White)
	if got := img.RGB565At(-1, 0); got != 0 {
		t.Errorf("RGB565At(-1, 0) = %#04x; want 0", uint16(got))
	}
}

func TestImageDraw(t *testing.T) {
	img := New(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{B: 0xff, A: 0xff}), image.Point{}, draw.Src)

	want := []byte{0x00, 0x1f, 0x00, 0x1f, 0x00, 0x1f, 0x00, 0x1f}
	if diff := cmp.Diff(img.Pix, want); diff != "" {
		t.Errorf("pixel difference (-got +want):\n%s", diff)
	}
}

func TestPackXRGB8888(t *testing.T) {
	src := []byte{
		0x00, 0x00, 0xff, 0x00, // red
		0x00, 0xff, 0x00, 0x00, // green
		0xff, 0x00, 0x00, 0x00, // blue
		0x80, 0x80, 0x80, 0xff, // gray; the X byte is ignored
	}
	dst := make([]byte, 8)
	if err := PackXRGB8888(dst, src); err != nil {
		t.Fatalf("PackXRGB8888: %v", err)
	}
	want := []byte{0xf8, 0x00, 0x07, 0xe0, 0x00, 0x1f, 0x84, 0x10}
	if diff := cmp.Diff(dst, want); diff != "" {
		t.Errorf("difference (-got +want):\n%s", diff)
	}
}

func TestPackXRGB8888Errors(t *testing.T) {
	if err := PackXRGB8888(make([]byte, 2), make([]byte, 5)); err == nil {
		t.Error("ragged source did not fail")
	}
	if err := PackXRGB8888(make([]byte, 1), make([]byte, 4)); err == nil {
		t.Error("short destination did not fail")
	}
}

func TestPackRGB565LE(t *testing.T) {
	src := []byte{0x00, 0xf8, 0xe0, 0x07, 0x1f, 0x00}
	dst := make([]byte, 6)
	if err := PackRGB565LE(dst, src); err != nil {
		t.Fatalf("PackRGB565LE: %v", err)
	}
	want := []byte{0xf8, 0x00, 0x07, 0xe0, 0x00, 0x1f}
	if diff := cmp.Diff(dst, want); diff != "" {
		t.Errorf("difference (-got +want):\n%s", diff)
	}

	// In-place conversion is allowed.
	if err := PackRGB565LE(src, src); err != nil {
		t.Fatalf("PackRGB565LE in place: %v", err)
	}
	if diff := cmp.Diff(src, want); diff != "" {
		t.Errorf("in place difference (-got +want):\n%s", diff)
	}
}

func TestPackRGB565LEErrors(t *testing.T) {
	if err := PackRGB565LE(make([]byte, 2), make([]byte, 3)); err == nil {
		t.Error("ragged source did not fail")
	}
	if err := PackRGB565LE(make([]byte, 2), make([]byte, 4)); err == nil {
		t.Error("short destination did not fail")
	}
}
