// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"
	"time"
)

func TestSceneRender(t *testing.T) {
	s, err := newScene(128, 160, "tft18019")
	if err != nil {
		t.Fatalf("newScene: %v", err)
	}

	img := s.render(time.Date(2024, 6, 1, 12, 34, 0, 0, time.UTC))
	if got := img.Bounds(); got != image.Rect(0, 0, 128, 160) {
		t.Fatalf("bounds = %v; want (0,0)-(128,160)", got)
	}

	// The clock digits must have left some non-black pixels behind.
	lit := 0
	for y := 0; y < 160; y++ {
		for x := 0; x < 128; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0 || g != 0 || b != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("rendered scene is entirely black")
	}
}
