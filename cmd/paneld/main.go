// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// paneld drives an ST7735R panel as a small status display: it renders a
// clock scene on a cron schedule and keeps the panel refreshed at the
// configured frame rate. Without hardware it can preview the scene in the
// terminal (-preview) or over HTTP (listen address in the config).
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"periph.io/x/devices/v3/st7735r"
	"periph.io/x/devices/v3/st7735r/termview"
	"periph.io/x/devices/v3/st7735r/webview"
)

type flagConfig struct {
	configPath string
	listen     string
	preview    bool
	once       bool
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/paneld/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for the web preview (overrides config if set)")
	flag.BoolVar(&cfg.preview, "preview", false, "Render to the terminal; do not touch display hardware")
	flag.BoolVar(&cfg.once, "once", false, "Render one scene and exit")

	flag.Parse()

	return cfg
}

// app ties the scene to its outputs: the panel, if attached, and any
// number of preview drawers mirroring it.
type app struct {
	scene   *scene
	loc     *time.Location
	dev     *st7735r.Dev
	frame   *st7735r.ImageFrame
	mirrors []display.Drawer
}

// redraw renders the scene once and pushes it to every output.
func (a *app) redraw() {
	img := a.scene.render(time.Now().In(a.loc))
	if a.dev != nil {
		a.frame.SetImage(img)
		a.dev.Update(a.frame)
	}
	for _, m := range a.mirrors {
		if err := m.Draw(m.Bounds(), img, image.Point{}); err != nil {
			log.Printf("paneld: preview: %v", err)
		}
	}
}

func backlightFromConfig(conf *Config) st7735r.Backlight {
	if conf.BacklightName != "" {
		return &st7735r.SysfsBacklight{Name: conf.BacklightName, Level: conf.Brightness}
	}
	if conf.BacklightPin != "" {
		if p := gpioreg.ByName(conf.BacklightPin); p != nil {
			return &st7735r.PinBacklight{Pin: p}
		}
		log.Printf("paneld: backlight pin %q not found, running without backlight control", conf.BacklightPin)
	}
	return nil
}

func openPanel(conf *Config) (*st7735r.Dev, spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	port, err := spireg.Open(conf.SPIPort)
	if err != nil {
		return nil, nil, err
	}
	dc := gpioreg.ByName(conf.DCPin)
	rst := gpioreg.ByName(conf.ResetPin)
	if dc == nil || rst == nil {
		port.Close()
		return nil, nil, fmt.Errorf("gpio pins %q and %q are required", conf.DCPin, conf.ResetPin)
	}
	d, err := st7735r.New(port, dc, rst, &st7735r.Opts{
		Model:     conf.Model,
		Rotation:  conf.Rotation,
		FrameRate: conf.FrameRate,
		Backlight: backlightFromConfig(conf),
		Logger:    log.Default(),
	})
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return d, port, nil
}

func run(flags flagConfig) error {
	conf, err := LoadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", flags.configPath, err)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("paneld: %s received, shutting down", sig)
		cancel()
	}()

	a := &app{loc: time.Local}
	if conf.Timezone != "" {
		a.loc, err = time.LoadLocation(conf.Timezone)
		if err != nil {
			return fmt.Errorf("timezone %q: %w", conf.Timezone, err)
		}
	}

	w, h := conf.Width, conf.Height
	if !flags.preview {
		dev, port, err := openPanel(conf)
		if err != nil {
			return err
		}
		defer port.Close()
		a.dev = dev
		a.frame = st7735r.NewImageFrame(st7735r.XRGB8888, dev.Bounds())
		w, h = dev.Bounds().Dx(), dev.Bounds().Dy()
	} else {
		a.mirrors = append(a.mirrors, termview.New(&termview.Opts{Width: w, Height: h}))
	}

	a.scene, err = newScene(w, h, conf.Model)
	if err != nil {
		return err
	}

	if conf.Listen != "" {
		wv := webview.New(&webview.Options{Width: w, Height: h})
		a.mirrors = append(a.mirrors, wv)
		srv := &http.Server{Addr: conf.Listen, Handler: wv}
		go func() {
			log.Printf("paneld: web preview on http://%s/", conf.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("paneld: web preview: %v", err)
			}
		}()
		defer srv.Close()
	}

	a.redraw()

	if a.dev != nil {
		if err := a.dev.Enable(a.frame); err != nil {
			return err
		}
		defer func() {
			if err := a.dev.Disable(); err != nil {
				log.Printf("paneld: disable: %v", err)
			}
		}()

		go func() {
			tick := time.NewTicker(time.Second / time.Duration(a.dev.FrameRate()))
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tick.C:
					a.dev.RefreshTick()
				}
			}
		}()
	}

	if flags.once {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.Redraw, a.redraw); err != nil {
		return fmt.Errorf("redraw schedule %q: %w", conf.Redraw, err)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		log.Fatalf("paneld: %v", err)
	}
}
