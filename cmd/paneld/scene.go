// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// scene renders the clock picture shown on the panel.
type scene struct {
	w, h  int
	title string
	big   font.Face
	small font.Face
}

func newScene(w, h int, title string) (*scene, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &scene{
		w:     w,
		h:     h,
		title: title,
		big: truetype.NewFace(f, &truetype.Options{
			Size: 28,
		}),
		small: truetype.NewFace(f, &truetype.Options{
			Size: 13,
		}),
	}, nil
}

// render draws the scene for the given instant.
func (s *scene) render(now time.Time) image.Image {
	dc := gg.NewContext(s.w, s.h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	cx := float64(s.w) / 2
	cy := float64(s.h) / 2

	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(s.big)
	dc.DrawStringAnchored(now.Format("15:04"), cx, cy-12, 0.5, 0.5)

	dc.SetRGB(0.7, 0.7, 0.7)
	dc.SetFontFace(s.small)
	dc.DrawStringAnchored(now.Format("Mon Jan 2"), cx, cy+16, 0.5, 0.5)
	dc.DrawStringAnchored(s.title, cx, float64(s.h)-12, 0.5, 0.5)

	dc.SetLineWidth(1)
	dc.DrawLine(8, cy+30, float64(s.w)-8, cy+30)
	dc.Stroke()

	return dc.Image()
}
