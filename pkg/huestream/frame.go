// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package huestream implements the HueStream v1 entertainment frame a bridge
// expects inside an established DTLS session.
package huestream

import (
	"golang.org/x/crypto/cryptobyte"
)

// Frame layout constants.
const (
	ProtocolName    = "HueStream"
	HeaderSize      = 16
	LightRecordSize = 9
	MaxLights       = 10

	VersionMajor = 1
	VersionMinor = 0
)

// ColorSpace selects how the three channel values of a Light are read.
type ColorSpace uint8

// ColorSpace enums.
const (
	ColorSpaceRGB ColorSpace = 0
	ColorSpaceXY  ColorSpace = 1
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceXY:
		return "XY"
	default:
		return "Invalid"
	}
}

// DeviceType is the addressing type of one light record.
type DeviceType uint8

// DeviceLight is the only device type v1 frames carry.
const DeviceLight DeviceType = 0

// Light is one light record. In ColorSpaceXY the channels are X, Y and
// brightness; in ColorSpaceRGB they are red, green and blue.
type Light struct {
	ID         uint16
	X          uint16
	Y          uint16
	Brightness uint16
}

// Frame is one HueStream v1 message.
//
//	 0                   9    10   11   12   14   15
//	+--------------------+----+----+----+----+----+----+
//	| "HueStream"        |maj |min |seq |rsvd|cs  |rsvd|
//	+--------------------+----+----+----+----+----+----+
//	| type | id (16) | x (16) | y (16) | bri (16) |  x N
//	+------+---------+--------+--------+----------+
type Frame struct {
	Sequence   uint8
	ColorSpace ColorSpace
	Lights     []Light
}

// MarshalBinary encodes the frame.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if len(f.Lights) > MaxLights {
		return nil, errTooManyLights
	}
	if f.ColorSpace > ColorSpaceXY {
		return nil, errInvalidColorSpace
	}

	b := cryptobyte.NewFixedBuilder(make([]byte, 0, HeaderSize+LightRecordSize*len(f.Lights)))
	b.AddBytes([]byte(ProtocolName))
	b.AddUint8(VersionMajor)
	b.AddUint8(VersionMinor)
	b.AddUint8(f.Sequence)
	b.AddUint16(0)
	b.AddUint8(uint8(f.ColorSpace))
	b.AddUint8(0)

	for _, l := range f.Lights {
		b.AddUint8(uint8(DeviceLight))
		b.AddUint16(l.ID)
		b.AddUint16(l.X)
		b.AddUint16(l.Y)
		b.AddUint16(l.Brightness)
	}

	return b.Bytes()
}

// UnmarshalBinary populates the frame from data.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return errBufferTooSmall
	}
	if (len(data)-HeaderSize)%LightRecordSize != 0 {
		return errInvalidLength
	}

	str := cryptobyte.String(data)

	var (
		name              []byte
		major, minor, seq uint8
		reserved          uint16
		cs, pad           uint8
	)
	if !str.ReadBytes(&name, len(ProtocolName)) || string(name) != ProtocolName {
		return errInvalidProtocol
	}
	if !str.ReadUint8(&major) || !str.ReadUint8(&minor) || major != VersionMajor {
		return errUnsupportedVersion
	}
	if !str.ReadUint8(&seq) || !str.ReadUint16(&reserved) || !str.ReadUint8(&cs) || !str.ReadUint8(&pad) {
		return errBufferTooSmall
	}
	if ColorSpace(cs) > ColorSpaceXY {
		return errInvalidColorSpace
	}

	count := len(str) / LightRecordSize
	if count > MaxLights {
		return errTooManyLights
	}

	lights := make([]Light, 0, count)
	for !str.Empty() {
		var (
			kind uint8
			l    Light
		)
		if !str.ReadUint8(&kind) || !str.ReadUint16(&l.ID) || !str.ReadUint16(&l.X) ||
			!str.ReadUint16(&l.Y) || !str.ReadUint16(&l.Brightness) {
			return errBufferTooSmall
		}
		if DeviceType(kind) != DeviceLight {
			return errInvalidDeviceType
		}
		lights = append(lights, l)
	}

	f.Sequence = seq
	f.ColorSpace = ColorSpace(cs)
	f.Lights = lights

	return nil
}
