// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package huestream

import "errors"

var (
	errBufferTooSmall     = errors.New("buffer is too small")
	errInvalidLength      = errors.New("frame length is not a whole number of light records")
	errInvalidProtocol    = errors.New("frame does not start with HueStream")
	errUnsupportedVersion = errors.New("unsupported HueStream version")
	errInvalidColorSpace  = errors.New("invalid color space")
	errInvalidDeviceType  = errors.New("invalid device type")
	errTooManyLights      = errors.New("too many lights in one frame")
	errNoColors           = errors.New("palette is empty")
)
