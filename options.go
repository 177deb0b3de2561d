// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"time"

	"github.com/pion/logging"
)

// Option configures a Context.
type Option func(*config) error

// WithCipherList restricts the negotiable ciphers. Only the bridge's suite
// is accepted; any other list makes NewContext fail.
func WithCipherList(list string) Option {
	return func(c *config) error {
		c.cipherList = list

		return nil
	}
}

// WithLoggerFactory sets the logger factory used by the context, its
// sessions and the DTLS engine.
func WithLoggerFactory(factory logging.LoggerFactory) Option {
	return func(c *config) error {
		if factory == nil {
			return errNilLoggerFactory
		}
		c.loggerFactory = factory

		return nil
	}
}

// WithHandshakeTimeout bounds each handshake attempt.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errNonPositiveTimeout
		}
		c.handshakeTimeout = d

		return nil
	}
}

// WithReceiveTimeout sets the read timeout applied once a session is
// established.
func WithReceiveTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errNonPositiveTimeout
		}
		c.receiveTimeout = d

		return nil
	}
}

// WithFlightInterval sets the DTLS retransmission interval during the
// handshake.
func WithFlightInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errNonPositiveTimeout
		}
		c.flightInterval = d

		return nil
	}
}

// WithResolver replaces the resolver used by Bind.
func WithResolver(r Resolver) Option {
	return func(c *config) error {
		if r == nil {
			return errNilResolver
		}
		c.resolver = r

		return nil
	}
}

// WithDialer replaces the dialer used by Bind.
func WithDialer(d Dialer) Option {
	return func(c *config) error {
		if d == nil {
			return errNilDialer
		}
		c.dialer = d

		return nil
	}
}

// withAppDataSlot swaps the association storage.
func withAppDataSlot(slot AppDataSlot) Option {
	return func(c *config) error {
		c.slot = slot

		return nil
	}
}
