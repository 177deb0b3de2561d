// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
)

// DefaultPort is the bridge's entertainment streaming port.
const DefaultPort = 2100

// DefaultCipherList is the only cipher the bridge accepts, in OpenSSL
// naming.
const DefaultCipherList = "PSK-AES128-GCM-SHA256"

const (
	// DefaultReceiveTimeout is applied to reads once a session is
	// established.
	DefaultReceiveTimeout = 2 * time.Second
	// DefaultHandshakeTimeout bounds a single handshake attempt.
	DefaultHandshakeTimeout = 10 * time.Second

	defaultFlightInterval = time.Second
	loggerScope           = "hue-entertainment"
)

// Both spellings of the one suite the bridge speaks.
var supportedCiphers = map[string]dtls.CipherSuiteID{ //nolint:gochecknoglobals
	"PSK-AES128-GCM-SHA256":           dtls.TLS_PSK_WITH_AES_128_GCM_SHA256,
	"TLS_PSK_WITH_AES_128_GCM_SHA256": dtls.TLS_PSK_WITH_AES_128_GCM_SHA256,
}

// Resolver turns a host into candidate addresses. *net.Resolver satisfies
// it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Dialer opens the UDP socket fixed to the bridge. *net.Dialer satisfies
// it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// config is what a Context is built from. After a Context is created it
// must not be modified.
type config struct {
	cipherList       string
	cipherSuite      dtls.CipherSuiteID
	loggerFactory    logging.LoggerFactory
	handshakeTimeout time.Duration
	receiveTimeout   time.Duration
	flightInterval   time.Duration
	resolver         Resolver
	dialer           Dialer
	slot             AppDataSlot
}

func (c *config) applyDefaults() {
	c.cipherList = DefaultCipherList
	c.handshakeTimeout = DefaultHandshakeTimeout
	c.receiveTimeout = DefaultReceiveTimeout
	c.flightInterval = defaultFlightInterval
	c.resolver = net.DefaultResolver
	c.dialer = &net.Dialer{}
}

func buildConfig(opts ...Option) (*config, error) {
	cfg := &config{}
	cfg.applyDefaults()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.loggerFactory == nil {
		cfg.loggerFactory = logging.NewDefaultLoggerFactory()
	}
	if cfg.slot == nil {
		cfg.slot = newMapSlot()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *config) error {
	switch {
	case cfg.resolver == nil:
		return errNilResolver
	case cfg.dialer == nil:
		return errNilDialer
	case cfg.handshakeTimeout <= 0, cfg.receiveTimeout <= 0, cfg.flightInterval <= 0:
		return errNonPositiveTimeout
	}

	id, err := parseCipherList(cfg.cipherList)
	if err != nil {
		return err
	}
	cfg.cipherSuite = id

	return nil
}

// parseCipherList accepts an OpenSSL style colon separated list, which must
// hold exactly one supported PSK suite.
func parseCipherList(list string) (dtls.CipherSuiteID, error) {
	names := strings.FieldsFunc(list, func(r rune) bool {
		return r == ':' || r == ',' || r == ' '
	})
	if len(names) != 1 {
		return 0, errCipherList
	}

	id, ok := supportedCiphers[names[0]]
	if !ok {
		return 0, errCipherList
	}

	return id, nil
}
