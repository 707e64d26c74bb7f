// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package webview provides a display driver implementing an HTTP request
// handler. Every client request gets a snapshot of the current graphics
// buffer as a single image.
//
// The primary use case is the development of display outputs on a host
// machine. Additionally devices with network connectivity can use this
// driver to provide a copy of their local panel via a web interface.
//
// Because of its better suitability for computer-drawn graphics the PNG
// image format is used by default. JPEG can be selected via Options.Format
// or using the "format" URL parameter.
package webview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/display"
)

// ImageFormat selects the encoding sent to clients.
type ImageFormat int

const (
	PNG ImageFormat = iota
	JPEG

	// DefaultFormat is the format used when not set explicitly in options
	// or as a URL parameter.
	DefaultFormat = PNG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprint(int(f))
	}
}

func (f ImageFormat) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// ImageFormatFromString returns the ImageFormat value for the given format
// abbreviation.
func ImageFormatFromString(value string) (ImageFormat, error) {
	switch value {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return DefaultFormat, fmt.Errorf("unrecognized image format %q", value)
}

// Options for webview devices.
type Options struct {
	// Width and height of the image buffer.
	Width, Height int

	// Format specifies the image format to send to clients.
	Format ImageFormat
}

// Display is a drawable buffer that doubles as an HTTP handler serving
// its current contents.
type Display struct {
	defaultFormat ImageFormat

	mu       sync.Mutex
	buffer   *image.RGBA
	snapshot map[ImageFormat][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new webview device instance.
func New(opt *Options) *Display {
	buffer := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))

	// By default the alpha channel is set to full transparency. The
	// following draw operation makes it opaque.
	draw.Draw(buffer, buffer.Bounds(), image.Black, image.Point{}, draw.Src)

	return &Display{
		buffer:        buffer,
		snapshot:      map[ImageFormat][]byte{},
		defaultFormat: opt.Format,
	}
}

// String returns the name of the device.
func (d *Display) String() string {
	return "WebView"
}

// Halt implements conn.Resource.
func (d *Display) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.Draw(d.buffer, dstRect, src, srcPts, draw.Src)
	for f := range d.snapshot {
		delete(d.snapshot, f)
	}
	d.mu.Unlock()

	return nil
}

func (d *Display) formatFromQuery(values url.Values) (ImageFormat, error) {
	if value := values.Get("format"); value != "" {
		return ImageFormatFromString(value)
	}
	return d.defaultFormat, nil
}

// grabSnapshot returns the current buffer encoded in the given format,
// reusing the previous encoding if the buffer has not changed since.
func (d *Display) grabSnapshot(format ImageFormat) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if encoded, ok := d.snapshot[format]; ok {
		return encoded, nil
	}

	var buf bytes.Buffer
	switch format {
	case PNG:
		if err := png.Encode(&buf, d.buffer); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(&buf, d.buffer, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unhandled image format %s", format)
	}

	encoded := buf.Bytes()
	d.snapshot[format] = encoded
	return encoded, nil
}

// ServeHTTP handles HTTP GET requests and responds with a snapshot of the
// display buffer. The display options control the default format and
// clients can explicitly request PNG or JPEG images using the "format"
// parameter ("?format=png", "?format=jpeg").
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	format, err := d.formatFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := d.grabSnapshot(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mime.FormatMediaType(format.mimeType(), nil))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(payload)
}
