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

package hwy

import "os"

// DispatchLevel identifies the widest vector instruction set detected on
// the running CPU.
type DispatchLevel int

const (
	DispatchScalar DispatchLevel = iota
	DispatchSSE2
	DispatchAVX2
	DispatchAVX512
	DispatchNEON
	DispatchSVE
)

func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	case DispatchSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// Set by the per-architecture init functions.
var (
	currentLevel = DispatchScalar
	currentWidth = 16
	currentName  = "scalar"
)

// CurrentLevel returns the detected dispatch level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the detected vector register width in bytes.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a short name for the detected dispatch level.
func CurrentName() string {
	return currentName
}

// NoSimdEnv reports whether HWY_NO_SIMD is set, which forces scalar mode.
func NoSimdEnv() bool {
	v, ok := os.LookupEnv("HWY_NO_SIMD")
	return ok && v != "" && v != "0"
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // Use 16-byte vectors even in scalar mode for consistency
	currentName = "scalar"
}
