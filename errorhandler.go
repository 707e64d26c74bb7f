// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management: after the first failure
// every further operation is a no-op, so a sequence can be written
// straight-line and checked once at the end.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	if err := eh.d.rst.Out(l); err != nil {
		eh.err = fmt.Errorf("st7735r: rst: %w", err)
	}
}

func (eh *errorHandler) command(cmd byte, data ...byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(cmd, data...)
}

func (eh *errorHandler) delay(t time.Duration) {
	if eh.err != nil {
		return
	}
	time.Sleep(t)
}

var _ controller = &errorHandler{}
