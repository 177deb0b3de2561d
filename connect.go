// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"errors"

	"github.com/paxswill/hue-entertainment/pkg/psk"
)

// Connect binds a transport to host:port, creates a session for cred and
// runs the handshake. Whatever was opened is released if any step fails,
// so on error the returned session is nil, with one exception: when only
// the receive timeout was rejected the established session is returned
// together with the TimeoutConfigError.
func (c *Context) Connect(ctx context.Context, host string, port int, cred *psk.Credential) (*Session, error) {
	t, err := c.Bind(ctx, host, port)
	if err != nil {
		return nil, err
	}

	s, err := c.NewSession(t, cred)
	if err != nil {
		if cerr := t.Close(); cerr != nil {
			c.log.Debugf("closing transport to %s: %v", t.RemoteAddr(), cerr)
		}

		return nil, err
	}

	if err := s.Handshake(ctx); err != nil {
		if errors.Is(err, ErrTimeoutConfig) && s.State() == StateEstablished {
			return s, err
		}
		_ = s.Close()

		return nil, err
	}

	return s, nil
}

// Dial connects to a bridge's entertainment port with a Context built from
// opts.
func Dial(ctx context.Context, host string, cred *psk.Credential, opts ...Option) (*Session, error) {
	c, err := NewContext(opts...)
	if err != nil {
		return nil, err
	}

	return c.Connect(ctx, host, DefaultPort, cred)
}
