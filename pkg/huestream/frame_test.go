// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package huestream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameMarshal(t *testing.T) {
	f := &Frame{
		Sequence:   7,
		ColorSpace: ColorSpaceXY,
		Lights: []Light{
			{ID: 0, X: 42597, Y: 19660, Brightness: 0xffff},
			{ID: 0x0102, X: 1, Y: 2, Brightness: 3},
		},
	}

	raw, err := f.MarshalBinary()
	require.NoError(t, err)

	expect := []byte{
		'H', 'u', 'e', 'S', 't', 'r', 'e', 'a', 'm',
		0x01, 0x00, // version
		0x07,       // sequence
		0x00, 0x00, // reserved
		0x01, // color space
		0x00, // reserved
		0x00, 0x00, 0x00, 0xa6, 0x65, 0x4c, 0xcc, 0xff, 0xff,
		0x00, 0x01, 0x02, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03,
	}
	assert.Equal(t, expect, raw)

	var parsed Frame
	require.NoError(t, parsed.UnmarshalBinary(expect))
	assert.Equal(t, *f, parsed)
}

func TestFrameMarshalNoLights(t *testing.T) {
	raw, err := (&Frame{ColorSpace: ColorSpaceRGB}).MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, raw, HeaderSize)
	assert.Equal(t, byte(0), raw[14])
}

func TestFrameMarshalTooManyLights(t *testing.T) {
	ids := make([]uint16, MaxLights+1)
	for i := range ids {
		ids[i] = uint16(i) //nolint:gosec
	}

	_, err := Fill(0, DansenPalette[0], MaxBrightness, ids...).MarshalBinary()
	assert.ErrorIs(t, err, errTooManyLights)

	raw, err := Fill(0, DansenPalette[0], MaxBrightness, ids[:MaxLights]...).MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, raw, HeaderSize+MaxLights*LightRecordSize)
}

func TestFrameUnmarshalErrors(t *testing.T) {
	valid, err := Fill(1, DansenPalette[1], 10, 4).MarshalBinary()
	require.NoError(t, err)

	corrupt := func(i int, v byte) []byte {
		out := append([]byte{}, valid...)
		out[i] = v

		return out
	}

	for name, test := range map[string]struct {
		data []byte
		err  error
	}{
		"Short":        {valid[:HeaderSize-1], errBufferTooSmall},
		"PartialLight": {valid[:len(valid)-1], errInvalidLength},
		"Protocol":     {corrupt(0, 'h'), errInvalidProtocol},
		"Version":      {corrupt(9, 2), errUnsupportedVersion},
		"ColorSpace":   {corrupt(14, 9), errInvalidColorSpace},
		"DeviceType":   {corrupt(HeaderSize, 1), errInvalidDeviceType},
	} {
		test := test
		t.Run(name, func(t *testing.T) {
			var f Frame
			assert.ErrorIs(t, f.UnmarshalBinary(test.data), test.err)
		})
	}
}

func TestXY(t *testing.T) {
	assert.Equal(t, Color{}, XY(-1, 0))
	assert.Equal(t, Color{X: 0xffff, Y: 0xffff}, XY(1, 2))
	assert.Equal(t, DansenPalette[0], XY(0.65, 0.3))
	assert.Equal(t, DansenPalette[1], XY(0.1, 0.7))
}

func TestPaletteAt(t *testing.T) {
	for i, c := range DansenPalette {
		got, err := DansenPalette.At(i + len(DansenPalette))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := DansenPalette.At(-1)
	require.NoError(t, err)
	assert.Equal(t, DansenPalette[3], got)

	_, err = Palette{}.At(0)
	assert.ErrorIs(t, err, errNoColors)
}
