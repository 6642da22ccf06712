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

// Package imageio writes rendered frames to image files.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for a format name or file extension that has
// no encoder.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

type encodeFunc func(io.Writer, image.Image) error

var encoders = map[Format]encodeFunc{
	PNG: png.Encode,
	BMP: bmp.Encode,
	TIFF: func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	},
}

var extensions = map[string]Format{
	".png":  PNG,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := lo.Map(lo.Keys(encoders), func(f Format, _ int) string { return string(f) })
	slices.Sort(names)
	return names
}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "tif" {
		f = TIFF
	}
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// FormatFromPath picks the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q of %s", ErrUnknownFormat, ext, path)
	}
	return f, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	enc, ok := encoders[f]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// WriteFile encodes img into the file at path. The format comes from the
// extension unless f is non-empty.
func WriteFile(path string, img image.Image, f Format) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(file, img, f)
}
