// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"periph.io/x/devices/v3/st7735r/rgb565"
)

// Command opcodes. The 0x00-0x3f range is standard MIPI DCS; the 0xbX and
// 0xcX/0xeX ranges are ST7735R vendor commands.
const (
	cmdNop         byte = 0x00
	cmdSoftReset   byte = 0x01
	cmdSleepIn     byte = 0x10
	cmdSleepOut    byte = 0x11
	cmdNormalMode  byte = 0x13
	cmdInvertOff   byte = 0x20
	cmdDisplayOff  byte = 0x28
	cmdDisplayOn   byte = 0x29
	cmdColumnAddr  byte = 0x2a
	cmdPageAddr    byte = 0x2b
	cmdMemoryWrite byte = 0x2c
	cmdAddressMode byte = 0x36
	cmdPixelFormat byte = 0x3a

	cmdFrameCtlNormal  byte = 0xb1
	cmdFrameCtlIdle    byte = 0xb2
	cmdFrameCtlPartial byte = 0xb3
	cmdInversionCtl    byte = 0xb4
	cmdPowerCtl1       byte = 0xc0
	cmdPowerCtl2       byte = 0xc1
	cmdPowerCtl3       byte = 0xc2
	cmdPowerCtl4       byte = 0xc3
	cmdPowerCtl5       byte = 0xc4
	cmdVcomCtl         byte = 0xc5
	cmdGammaPositive   byte = 0xe0
	cmdGammaNegative   byte = 0xe1

	// COLMOD parameter selecting 16 bits per pixel.
	pixelFormat16Bit byte = 0x05
)

// Configuration and probe errors.
var (
	ErrUnknownModel    = errors.New("st7735r: unknown panel model")
	ErrInvalidRotation = errors.New("st7735r: rotation must be 0, 90, 180 or 270")
	ErrMissingPin      = errors.New("st7735r: dc and rst pins are required")
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Model:     "tft18019",
	Rotation:  0,
	FrameRate: 30,
}

// Opts holds the options for the driver.
type Opts struct {
	// Model selects the panel configuration by compatible name, e.g.
	// "tft18019" or "jd-t18003-t01".
	Model string

	// Rotation of the picture in degrees. Must be 0, 90, 180 or 270.
	Rotation int

	// FrameRate is the refresh rate in frames per second the embedding
	// runtime should drive RefreshTick at. Defaults to 30.
	FrameRate int

	// Backlight is the optional backlight device. It is switched on after
	// the first frame has been staged during Enable and switched off
	// during Disable.
	Backlight Backlight

	// Logger, when set, receives a low-rate diagnostic line every 30th
	// refresh tick.
	Logger *log.Logger
}

// Dev is the driver handle for one panel.
//
// Two call contexts touch a Dev: the control path (Enable, Disable,
// Update, serialized by the caller) and the refresh path (RefreshTick,
// invoked by the periodic refresh source). Every logical bus operation, a
// whole command with its parameters or a whole frame, runs under a single
// lock so the two contexts cannot interleave on the wire.
type Dev struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinOut
	bl  Backlight

	cfg      *Config
	rotation int
	madctl   byte
	w, h     int
	rate     int
	logger   *log.Logger

	maxTxSize int

	// mu guards all bus traffic, including the dc phase line.
	mu sync.Mutex
	// bufs holds bus-safe transfer copies; see transferLocked.
	bufs sync.Pool

	state  atomic.Int32
	fb     atomic.Pointer[frameSlot]
	frames atomic.Uint32

	// scratch holds the staged frame in wire order. Written only by the
	// refresh path.
	scratch []byte

	// own is the frame backing Draw(); allocated on first use.
	own *ImageFrame
}

// New returns a Dev that drives an ST7735R panel over the given SPI port.
//
// dc is the data/command phase line and rst the active-low reset line.
// Both are required; the backlight is optional and set through Opts.
func New(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || rst == nil {
		return nil, ErrMissingPin
	}
	cfg, err := configForModel(opts.Model)
	if err != nil {
		return nil, err
	}
	rotation := opts.Rotation % 360
	if rotation < 0 {
		rotation += 360
	}
	madctl, w, h, err := resolveOrientation(cfg, rotation)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(32*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7735r: failed to connect: %w", err)
	}
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}
	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultOpts.FrameRate
	}
	d := &Dev{
		c:         c,
		dc:        dc,
		rst:       rst,
		bl:        opts.Backlight,
		cfg:       cfg,
		rotation:  rotation,
		madctl:    madctl,
		w:         w,
		h:         h,
		rate:      rate,
		logger:    opts.Logger,
		maxTxSize: maxTxSize,
		scratch:   make([]byte, w*h*2),
	}
	d.bufs.New = func() interface{} {
		return &txBuf{}
	}
	return d, nil
}

// NewHat returns a Dev using the default Raspberry Pi wiring: dc on pin
// 22, rst on pin 11 and the backlight on pin 12.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	o := *opts
	if o.Backlight == nil {
		o.Backlight = &PinBacklight{Pin: rpi.P1_12}
	}
	return New(p, rpi.P1_22, rpi.P1_11, &o)
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("st7735r.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.w, d.h)
}

// Halt implements conn.Resource. It shuts the pipe down; see Disable.
func (d *Dev) Halt() error {
	return d.Disable()
}

// FrameRate returns the refresh rate the embedding runtime should drive
// RefreshTick at, in frames per second.
func (d *Dev) FrameRate() int {
	return d.rate
}

// FrameCount returns the number of frames transferred so far.
func (d *Dev) FrameCount() uint32 {
	return d.frames.Load()
}

// ModeValid reports whether the requested geometry matches the panel's
// single fixed mode after rotation.
func (d *Dev) ModeValid(w, h int) bool {
	return w == d.w && h == d.h
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. The bounds reflect the configured
// rotation.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// txBuf is a reusable bus-safe copy of one transfer payload.
type txBuf struct {
	b []byte
}

// transferLocked performs one bus transaction. The payload is first
// duplicated into a pooled buffer so the caller's memory is never handed
// to the bus layer, then sent in chunks no larger than the port allows.
// Chunks stay 16-bit aligned so a frame split never tears a pixel.
//
// The caller must hold d.mu for the whole logical operation it is
// composing.
func (d *Dev) transferLocked(p []byte) error {
	t := d.bufs.Get().(*txBuf)
	defer d.bufs.Put(t)
	t.b = append(t.b[:0], p...)
	buf := t.b
	for off := 0; off < len(buf); {
		n := len(buf) - off
		if n > d.maxTxSize {
			n = d.maxTxSize &^ 1
		}
		if err := d.c.Tx(buf[off:off+n], nil); err != nil {
			return fmt.Errorf("st7735r: transfer failed: %w", err)
		}
		off += n
	}
	return nil
}

// sendCommand issues one whole command transaction: the opcode byte in
// command phase followed by its parameter bytes in data phase. The bus
// lock is held across both halves so a concurrent frame transfer cannot
// slip in between them.
func (d *Dev) sendCommand(cmd byte, data ...byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7735r: dc: %w", err)
	}
	if err := d.transferLocked([]byte{cmd}); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7735r: dc: %w", err)
	}
	return d.transferLocked(data)
}

// sendFrame streams the staged scratch buffer in data phase as a single
// locked operation.
func (d *Dev) sendFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7735r: dc: %w", err)
	}
	return d.transferLocked(d.scratch)
}

var _ conn.Resource = &Dev{}
var _ display.Drawer = &Dev{}
