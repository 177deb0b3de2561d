// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"testing"
	"time"

	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCipherList(t *testing.T) {
	for _, list := range []string{
		"PSK-AES128-GCM-SHA256",
		"TLS_PSK_WITH_AES_128_GCM_SHA256",
		":PSK-AES128-GCM-SHA256:",
	} {
		id, err := parseCipherList(list)
		assert.NoError(t, err, list)
		assert.Equal(t, dtls.TLS_PSK_WITH_AES_128_GCM_SHA256, id)
	}

	for _, list := range []string{
		"",
		"PSK-AES128-CCM8",
		"PSK-AES128-GCM-SHA256:PSK-AES256-GCM-SHA384",
		"ALL",
	} {
		_, err := parseCipherList(list)
		assert.ErrorIs(t, err, errCipherList, list)
	}
}

func TestNewContextDefaults(t *testing.T) {
	c, err := NewContext()
	require.NoError(t, err)

	assert.Equal(t, DefaultCipherList, c.cfg.cipherList)
	assert.Equal(t, DefaultReceiveTimeout, c.cfg.receiveTimeout)
	assert.Equal(t, DefaultHandshakeTimeout, c.cfg.handshakeTimeout)
	assert.NotNil(t, c.LoggerFactory())
	assert.Equal(t, 0, c.assoc.count())

	engine := c.engineConfig(c.newHandle(), []byte(testIdentity))
	assert.Equal(t, []dtls.CipherSuiteID{dtls.TLS_PSK_WITH_AES_128_GCM_SHA256}, engine.CipherSuites)
	assert.Equal(t, []byte(testIdentity), engine.PSKIdentityHint)
	assert.NotNil(t, engine.PSK)
}

func TestNewContextOptionErrors(t *testing.T) {
	for name, opt := range map[string]Option{
		"CipherList":       WithCipherList("AES128-SHA"),
		"LoggerFactory":    WithLoggerFactory(nil),
		"HandshakeTimeout": WithHandshakeTimeout(0),
		"ReceiveTimeout":   WithReceiveTimeout(-time.Second),
		"FlightInterval":   WithFlightInterval(0),
		"Resolver":         WithResolver(nil),
		"Dialer":           WithDialer(nil),
	} {
		opt := opt
		t.Run(name, func(t *testing.T) {
			c, err := NewContext(opt)
			assert.Nil(t, c)

			var ctxErr *ContextError
			assert.ErrorAs(t, err, &ctxErr)
			assert.ErrorIs(t, err, ErrContextCreation)
		})
	}
}

func TestNewContextOptions(t *testing.T) {
	factory := &logging.DefaultLoggerFactory{DefaultLogLevel: logging.LogLevelDisabled}

	c, err := NewContext(
		WithCipherList("TLS_PSK_WITH_AES_128_GCM_SHA256"),
		WithLoggerFactory(factory),
		WithReceiveTimeout(500*time.Millisecond),
	)
	require.NoError(t, err)

	assert.Same(t, factory, c.LoggerFactory())
	assert.Equal(t, 500*time.Millisecond, c.cfg.receiveTimeout)
}
