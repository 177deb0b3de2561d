// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"bytes"

	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
)

// Buffer ceilings handed to the authenticator by the engine bridge.
const (
	maxIdentityLength = 128
	maxPSKLength      = 256
)

// authenticator answers the engine's mid-handshake question of which
// identity and key to present. It runs on the handshake goroutine and must
// not block, so it only reads the association table.
type authenticator struct {
	assoc *associations
	log   logging.LeveledLogger
}

// supply writes the identity, NUL terminated, into identity and the key into
// key for the credential attached to id. It returns the number of key bytes
// written; 0 tells the engine to abort. Nothing is ever truncated.
func (a *authenticator) supply(id HandleID, hint, identity, key []byte) int {
	cred := a.assoc.lookup(id)
	if cred == nil {
		a.log.Warnf("no psk identity attached to handle %d", id)

		return 0
	}

	name := cred.Identity()
	if len(name) >= len(identity) {
		a.log.Errorf("only %d bytes available for the identity, while %d are needed", len(identity), len(name)+1)

		return 0
	}
	if cred.KeyLen() > len(key) {
		a.log.Errorf("only %d bytes available for the psk, while %d are needed", len(key), cred.KeyLen())

		return 0
	}

	identity[copy(identity, name)] = 0
	a.log.Tracef("copying psk bytes for identity %s (server hint %q)", name, hint)

	return copy(key, cred.Key())
}

// pskCallback binds supply to one handle in the form the engine calls.
// committed is the identity the handle will send in its ClientKeyExchange.
func (a *authenticator) pskCallback(id HandleID, committed []byte) dtls.PSKCallback {
	return func(hint []byte) ([]byte, error) {
		identity := make([]byte, maxIdentityLength)
		key := make([]byte, maxPSKLength)

		n := a.supply(id, hint, identity, key)
		if n == 0 {
			return nil, errPSKUnavailable
		}

		end := bytes.IndexByte(identity, 0)
		if end < 0 || !bytes.Equal(identity[:end], committed) {
			return nil, errIdentityChanged
		}

		return key[:n], nil
	}
}
