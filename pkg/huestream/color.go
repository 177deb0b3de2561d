// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package huestream

import "math"

// MaxBrightness is full brightness in ColorSpaceXY.
const MaxBrightness = math.MaxUint16

// Color is a CIE 1931 chromaticity scaled to the frame's 16 bit range.
type Color struct {
	X uint16
	Y uint16
}

// XY scales a chromaticity in [0, 1] to a Color. Values outside the range
// are clamped.
func XY(x, y float64) Color {
	return Color{X: scale(x), Y: scale(y)}
}

func scale(v float64) uint16 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return math.MaxUint16
	default:
		return uint16(v * math.MaxUint16) //nolint:gosec
	}
}

// Palette is an ordered list of colors cycled through by a stream.
type Palette []Color

// DansenPalette is red, green, purplish blue and orange.
var DansenPalette = Palette{ //nolint:gochecknoglobals
	{X: 42597, Y: 19660}, // (0.65, 0.3)
	{X: 6553, Y: 45874},  // (0.1, 0.7)
	{X: 9830, Y: 4915},   // (0.15, 0.075)
	{X: 35388, Y: 28180}, // (0.54, 0.43)
}

// At returns the color at index i, wrapping around the palette.
func (p Palette) At(i int) (Color, error) {
	if len(p) == 0 {
		return Color{}, errNoColors
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}

	return p[i], nil
}

// Fill builds an XY frame setting every light in ids to c at brightness.
func Fill(seq uint8, c Color, brightness uint16, ids ...uint16) *Frame {
	f := &Frame{Sequence: seq, ColorSpace: ColorSpaceXY, Lights: make([]Light, 0, len(ids))}
	for _, id := range ids {
		f.Lights = append(f.Lights, Light{ID: id, X: c.X, Y: c.Y, Brightness: brightness})
	}

	return f
}
