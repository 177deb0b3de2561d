// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"sync/atomic"

	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
)

// Context is the client configuration sessions to a bridge are built from:
// DTLS 1.2, one PSK cipher suite and the PSK callback. It holds no
// handshake state of its own, only the table that pairs session handles
// with the credential each one presents.
//
// A Context is safe for concurrent use by sessions on different goroutines.
type Context struct {
	cfg   *config
	log   logging.LeveledLogger
	assoc *associations
	auth  *authenticator

	lastHandle atomic.Uint64
}

// NewContext creates a Context. It does not touch the network.
func NewContext(opts ...Option) (*Context, error) {
	cfg, err := buildConfig(opts...)
	if err != nil {
		return nil, &ContextError{Err: err}
	}

	log := cfg.loggerFactory.NewLogger(loggerScope)
	assoc := newAssociations(cfg.slot)
	c := &Context{
		cfg:   cfg,
		log:   log,
		assoc: assoc,
		auth:  &authenticator{assoc: assoc, log: log},
	}
	log.Infof("created DTLS 1.2 client context restricted to %s", cfg.cipherList)

	return c, nil
}

// LoggerFactory returns the factory the context logs through.
func (c *Context) LoggerFactory() logging.LoggerFactory {
	return c.cfg.loggerFactory
}

func (c *Context) newHandle() HandleID {
	return HandleID(c.lastHandle.Add(1))
}

// engineConfig is the engine configuration for one handle. identity is what
// the handle sends as its PSK identity; the key only comes from the
// callback.
func (c *Context) engineConfig(id HandleID, identity []byte) *dtls.Config {
	return &dtls.Config{
		PSK:                  c.auth.pskCallback(id, identity),
		PSKIdentityHint:      identity,
		CipherSuites:         []dtls.CipherSuiteID{c.cfg.cipherSuite},
		ExtendedMasterSecret: dtls.RequestExtendedMasterSecret,
		FlightInterval:       c.cfg.flightInterval,
		LoggerFactory:        c.cfg.loggerFactory,
	}
}
