// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"errors"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Pipe states.
const (
	stateDisabled int32 = iota
	stateInitializing
	stateActive
)

// frameSlot wraps the framebuffer reference so it can be swapped with a
// single atomic pointer store.
type frameSlot struct {
	fb Framebuffer
}

// Enable brings the pipe from Disabled to Active: hardware reset pulse,
// full init sequence, the given frame staged and transferred, and finally
// the backlight switched on. The backlight comes last so the panel never
// shows stale memory.
//
// On any transfer failure the pipe returns to Disabled with the backlight
// off and the error is returned. The panel may have been left mid-sequence;
// the caller should not assume it is usable and may retry Enable.
func (d *Dev) Enable(fb Framebuffer) error {
	if !d.state.CompareAndSwap(stateDisabled, stateInitializing) {
		return errors.New("st7735r: pipe is not disabled")
	}

	eh := &errorHandler{d: d}

	// Hardware reset: low pulse, then the mandated 120ms wake delay.
	eh.rstOut(gpio.Low)
	eh.delay(5 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.delay(120 * time.Millisecond)

	initPanel(eh, d.madctl)
	setWindow(eh, d.cfg, d.w, d.h)

	if eh.err != nil {
		d.state.Store(stateDisabled)
		return eh.err
	}

	d.fb.Store(&frameSlot{fb: fb})
	d.state.Store(stateActive)
	d.RefreshTick()

	if d.bl != nil {
		if err := d.bl.Enable(); err != nil {
			return err
		}
	}
	return nil
}

// Disable brings the pipe from Active to Disabled. The state flips before
// any bus traffic so a refresh tick racing with the teardown degrades to a
// no-op instead of touching half-torn-down hardware. Disable does not wait
// for an in-flight tick; the embedding runtime owns the tick source and
// its cancellation.
func (d *Dev) Disable() error {
	if !d.state.CompareAndSwap(stateActive, stateDisabled) {
		return nil
	}

	eh := &errorHandler{d: d}
	haltPanel(eh)

	if d.bl != nil {
		if err := d.bl.Disable(); err != nil && eh.err == nil {
			eh.err = err
		}
	}
	return eh.err
}

// Update records fb as the newest source buffer. No pixels move until the
// next refresh tick; several rapid updates coalesce into one transferred
// frame, last write wins.
func (d *Dev) Update(fb Framebuffer) {
	if d.state.Load() != stateActive {
		return
	}
	d.fb.Store(&frameSlot{fb: fb})
}

// RefreshTick converts the most recently recorded frame into the panel's
// native format and streams it out. It is invoked by the periodic refresh
// source and is safe to run concurrently with Update and Disable.
//
// A failed tick drops the frame silently; the next tick tries again with
// current data. A persistently broken bus also surfaces through Enable
// and Disable, so nothing is escalated from here.
func (d *Dev) RefreshTick() {
	if d.state.Load() != stateActive {
		return
	}
	slot := d.fb.Load()
	if slot == nil || slot.fb == nil {
		return
	}
	fb := slot.fb

	if err := fb.BeginCPUAccess(); err != nil {
		return
	}
	defer fb.EndCPUAccess()

	pix, err := fb.Map()
	if err != nil {
		return
	}
	defer fb.Unmap()

	if err := stage(d.scratch, pix, fb.Format(), d.w, d.h); err != nil {
		return
	}

	// The write pointer only returns to the window origin on a new
	// memory-write command, so the window is reasserted for every frame.
	eh := &errorHandler{d: d}
	setWindow(eh, d.cfg, d.w, d.h)
	if eh.err != nil {
		return
	}

	n := d.frames.Add(1)
	if err := d.sendFrame(); err != nil {
		return
	}
	if d.logger != nil && n%30 == 0 {
		d.logger.Printf("st7735r: refresh frame=%d", n)
	}
}

// Draw implements display.Drawer. It rasterizes src into a driver-owned
// frame and records it for the next refresh tick, which makes Dev usable
// wherever a generic periph display is expected.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.state.Load() != stateActive {
		return errors.New("st7735r: pipe is disabled")
	}
	if d.own == nil {
		d.own = NewImageFrame(RGB565, d.Bounds())
	}
	d.own.Draw(r, src, sp)
	d.Update(d.own)
	return nil
}
