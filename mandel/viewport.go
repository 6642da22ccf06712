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

package mandel

import (
	"fmt"
	"math"
)

// Navigation constants used by the interactive front ends.
const (
	// PanStep is the distance moved per pan unit at zoom 1. The actual
	// distance is PanStep/Zoom, so panning feels the same at every depth.
	PanStep = 0.1

	// ZoomFactor is the zoom multiplier for one zoom-in step.
	ZoomFactor = 1.1

	// span is the width of the real axis visible at zoom 1.
	span = 4.0
)

// Viewport is the pan offset and zoom that define the visible region of the
// complex plane. The grid centre maps to (OffsetX, OffsetY).
type Viewport struct {
	OffsetX, OffsetY float64
	Zoom             float64
}

// DefaultViewport frames the whole set.
var DefaultViewport = Viewport{OffsetX: -0.5, OffsetY: 0, Zoom: 1}

// Validate reports whether v can be rendered.
func (v Viewport) Validate() error {
	if math.IsNaN(v.OffsetX) || math.IsInf(v.OffsetX, 0) ||
		math.IsNaN(v.OffsetY) || math.IsInf(v.OffsetY, 0) {
		return fmt.Errorf("viewport offset (%v, %v) is not finite", v.OffsetX, v.OffsetY)
	}
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("viewport zoom %v must be positive and finite", v.Zoom)
	}
	return nil
}

// Pan returns v moved by (dx, dy) pan units.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OffsetX += dx * PanStep / v.Zoom
	v.OffsetY += dy * PanStep / v.Zoom
	return v
}

// ZoomBy returns v with its zoom multiplied by f.
func (v Viewport) ZoomBy(f float64) Viewport {
	v.Zoom *= f
	return v
}

// MapToComplex converts the sample at (col, row) of a width × height grid to
// a point of the complex plane:
//
//	re = (col - width/2) * 4 / (width * zoom) + offsetX
//	im = (row - height/2) * 4 / (height * zoom) + offsetY
//
// The halves are real divisions, so odd sizes centre between two samples.
func MapToComplex(col, row, width, height int, v Viewport) (re, im float64) {
	w, h := float64(width), float64(height)
	re = (float64(col)-w/2)*span/(w*v.Zoom) + v.OffsetX
	im = (float64(row)-h/2)*span/(h*v.Zoom) + v.OffsetY
	return re, im
}
