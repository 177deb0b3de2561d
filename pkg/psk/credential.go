// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package psk holds the pre-shared key material presented to a Hue bridge
// during the DTLS handshake.
package psk

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// KeyLength is the length in bytes of a bridge-issued client key.
const KeyLength = 16

// KeyHexLength is the length of a bridge-issued client key in hex form.
const KeyHexLength = 2 * KeyLength

var errEmptyIdentity = errors.New("psk: identity is empty")

// ErrInUse is returned by Claim while the credential has a live Share.
var ErrInUse = errors.New("psk: credential is already in use")

// Credential is an identity and the raw key bytes belonging to it.
// A Credential is immutable once constructed.
type Credential struct {
	identity string
	key      []byte

	refs atomic.Int32
}

// New builds a Credential from an identity and a hex encoded key.
// The key may carry a 0x prefix and is case-insensitive.
func New(identity, keyHex string) (*Credential, error) {
	key, err := DecodeHex(keyHex)
	if err != nil {
		return nil, err
	}

	return FromBytes(identity, key)
}

// FromBytes builds a Credential from raw key material. The key is copied.
func FromBytes(identity string, key []byte) (*Credential, error) {
	if identity == "" {
		return nil, errEmptyIdentity
	}

	return &Credential{
		identity: identity,
		key:      append([]byte(nil), key...),
	}, nil
}

// Identity returns the PSK identity, in bridge terms the application
// username.
func (c *Credential) Identity() string {
	return c.identity
}

// Key returns a copy of the raw key bytes.
func (c *Credential) Key() []byte {
	return append([]byte(nil), c.key...)
}

// KeyLen returns the number of raw key bytes.
func (c *Credential) KeyLen() int {
	return len(c.key)
}

// Refs reports how many live Shares reference the credential.
func (c *Credential) Refs() int {
	return int(c.refs.Load())
}

// String never prints the key.
func (c *Credential) String() string {
	return fmt.Sprintf("psk.Credential{identity: %q, key: %d bytes}", c.identity, len(c.key))
}

// Share takes a new shared reference to the credential. Each Share must be
// released exactly once.
func (c *Credential) Share() *Share {
	c.refs.Add(1)

	return &Share{cred: c}
}

// Claim takes the only live Share of the credential. It fails with ErrInUse
// until every other Share has been released.
func (c *Credential) Claim() (*Share, error) {
	if !c.refs.CompareAndSwap(0, 1) {
		return nil, ErrInUse
	}

	return &Share{cred: c}, nil
}

// Share is one counted reference to a Credential. It is what a session
// handle holds while the credential is attached to it.
type Share struct {
	cred *Credential
	once sync.Once
}

// Credential returns the referenced credential.
func (s *Share) Credential() *Credential {
	return s.cred
}

// Release drops the reference. It reports false if the share had already
// been released, in which case the count is left untouched.
func (s *Share) Release() bool {
	released := false
	s.once.Do(func() {
		s.cred.refs.Add(-1)
		released = true
	})

	return released
}
