// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package psk

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPSK is returned for key material that is not well-formed hex.
var ErrInvalidPSK = errors.New("invalid psk")

// DecodeHex decodes a hex string of any even length into raw bytes.
// Upper and lower case digits are accepted, as is a leading 0x or 0X.
func DecodeHex(s string) ([]byte, error) {
	trimmed := s
	if len(trimmed) >= 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		trimmed = trimmed[2:]
	}

	if len(trimmed)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidPSK, len(trimmed))
	}

	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPSK, err) //nolint:errorlint
	}

	return b, nil
}

// EncodeHex is the inverse of DecodeHex, lower case and without a prefix.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ValidateKeyHex checks a bridge client key as entered by a user: exactly
// KeyHexLength hex characters, no prefix.
func ValidateKeyHex(s string) error {
	if len(s) != KeyHexLength {
		return fmt.Errorf("%w: the key must be exactly %d characters, got %d", ErrInvalidPSK, KeyHexLength, len(s))
	}
	if strings.IndexFunc(s, func(r rune) bool { return !isHexDigit(r) }) >= 0 {
		return fmt.Errorf("%w: the key must only contain hexadecimal characters", ErrInvalidPSK)
	}

	return nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
