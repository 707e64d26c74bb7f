// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServeHTTP(t *testing.T) {
	d := New(&Options{Width: 8, Height: 8})
	if err := d.Draw(d.Bounds(), image.NewUniform(color.RGBA{R: 0xff, A: 0xff}), image.Point{}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q; want %q", got, "image/png")
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Errorf("bounds = %v", got)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("pixel (3,3) = %#04x, %#04x, %#04x; want red", r, g, b)
	}
}

func TestServeHTTPFormats(t *testing.T) {
	d := New(&Options{Width: 4, Height: 4})

	for _, tc := range []struct {
		url      string
		status   int
		mimeType string
	}{
		{"/?format=png", http.StatusOK, "image/png"},
		{"/?format=jpeg", http.StatusOK, "image/jpeg"},
		{"/?format=jpg", http.StatusOK, "image/jpeg"},
		{"/?format=gif", http.StatusBadRequest, ""},
	} {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if rec.Code != tc.status {
			t.Errorf("GET %s: status = %d; want %d", tc.url, rec.Code, tc.status)
			continue
		}
		if tc.mimeType != "" {
			if got := rec.Header().Get("Content-Type"); got != tc.mimeType {
				t.Errorf("GET %s: Content-Type = %q; want %q", tc.url, got, tc.mimeType)
			}
		}
	}
}

func TestServeHTTPMethod(t *testing.T) {
	d := New(&Options{Width: 4, Height: 4})
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSnapshotInvalidation(t *testing.T) {
	d := New(&Options{Width: 4, Height: 4})

	fetch := func() []byte {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Body.Bytes()
	}

	black := fetch()
	if err := d.Draw(d.Bounds(), image.NewUniform(color.White), image.Point{}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	white := fetch()
	if string(black) == string(white) {
		t.Error("snapshot did not change after Draw")
	}
}
