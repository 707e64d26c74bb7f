// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735r

import "fmt"

// Config describes one supported panel model. The set of supported panels
// is fixed at build time; a Config is selected by model name when the
// driver is created and is never modified afterwards.
type Config struct {
	// Width and Height are the panel dimensions before rotation.
	Width  int
	Height int

	// LeftOffset and TopOffset locate the visible glass area inside the
	// controller's larger RAM array.
	LeftOffset int
	TopOffset  int

	// BGR is set for modules whose subpixels are wired in BGR order.
	BGR bool

	// WriteOnly marks modules without a MISO line. Read commands are
	// never issued to such panels.
	WriteOnly bool
}

// TFT18019 is the YYH 1.8" 128x160 module (compatible "yyh,tft18019").
var TFT18019 = Config{
	Width:      128,
	Height:     160,
	LeftOffset: 1,
	TopOffset:  2,
	WriteOnly:  true,
}

// JDT18003 is the Jianda JD-T18003-T01 1.8" 128x160 module found on the
// Adafruit 358 breakout (compatible "jianda,jd-t18003-t01").
var JDT18003 = Config{
	Width:     128,
	Height:    160,
	BGR:       true,
	WriteOnly: true,
}

var panelConfigs = map[string]*Config{
	"tft18019":      &TFT18019,
	"jd-t18003-t01": &JDT18003,
}

func configForModel(model string) (*Config, error) {
	if cfg, ok := panelConfigs[model]; ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
}
