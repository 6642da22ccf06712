// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the settings shared by the mandel commands.
//
// Values are resolved in order: Default, then MANDEL_* environment
// variables (FromEnv), then command-line flags (BindFlags). Validate is
// called once at startup, before any worker or surface is created.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/ajroetker/hwy-mandel/mandel"
	"github.com/ajroetker/hwy-mandel/render"
)

// Environment variables read by FromEnv.
const (
	EnvWidth   = "MANDEL_WIDTH"
	EnvHeight  = "MANDEL_HEIGHT"
	EnvMaxIter = "MANDEL_MAX_ITER"
	EnvLanes   = "MANDEL_LANES"
	EnvWorkers = "MANDEL_WORKERS"
)

// Config is the full renderer configuration.
type Config struct {
	Width, Height int
	MaxIter       int

	// Lanes is the evaluator batch width; 0 selects the detected width.
	Lanes int

	// Workers is the number of row ranges a frame is split into.
	Workers int

	OffsetX, OffsetY float64
	Zoom             float64
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Width:   800,
		Height:  600,
		MaxIter: 1000,
		Lanes:   mandel.DefaultLanes,
		Workers: runtime.GOMAXPROCS(0),
		OffsetX: mandel.DefaultViewport.OffsetX,
		OffsetY: mandel.DefaultViewport.OffsetY,
		Zoom:    mandel.DefaultViewport.Zoom,
	}
}

// FromEnv overrides fields of c from the MANDEL_* environment variables.
// lookup is usually os.LookupEnv. Unset variables are ignored; a set
// variable that is not an integer is an error.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	vars := []struct {
		name string
		dst  *int
	}{
		{EnvWidth, &c.Width},
		{EnvHeight, &c.Height},
		{EnvMaxIter, &c.MaxIter},
		{EnvLanes, &c.Lanes},
		{EnvWorkers, &c.Workers},
	}
	var errs []error
	for _, v := range vars {
		s, ok := lookup(v.name)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", v.name, s, err))
			continue
		}
		*v.dst = n
	}
	return errors.Join(errs...)
}

// BindFlags registers a flag for every field, using the current values of c
// as defaults. Parsing fs writes straight into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.Width, "width", "W", c.Width, "frame width in pixels")
	fs.IntVarP(&c.Height, "height", "H", c.Height, "frame height in pixels")
	fs.IntVarP(&c.MaxIter, "max-iter", "i", c.MaxIter, "iteration cap")
	fs.IntVar(&c.Lanes, "lanes", c.Lanes, "evaluator lane width (0 = detected vector width)")
	fs.IntVarP(&c.Workers, "workers", "j", c.Workers, "worker count")
	fs.Float64Var(&c.OffsetX, "x", c.OffsetX, "real coordinate of the frame centre")
	fs.Float64Var(&c.OffsetY, "y", c.OffsetY, "imaginary coordinate of the frame centre")
	fs.Float64VarP(&c.Zoom, "zoom", "z", c.Zoom, "zoom factor")
}

// Validate reports every configuration error at once. All errors wrap
// render.ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if err := c.Options().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: worker count %d must be positive", render.ErrInvalidConfig, c.Workers))
	}
	if err := c.Viewport().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", render.ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// Options returns the renderer options.
func (c Config) Options() render.Options {
	return render.Options{
		Grid:    render.Grid{Width: c.Width, Height: c.Height},
		MaxIter: c.MaxIter,
		Lanes:   c.Lanes,
	}
}

// Viewport returns the starting viewport.
func (c Config) Viewport() mandel.Viewport {
	return mandel.Viewport{OffsetX: c.OffsetX, OffsetY: c.OffsetY, Zoom: c.Zoom}
}
