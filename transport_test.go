// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindEmptyHost(t *testing.T) {
	resolver := &staticResolver{}
	c, dialer := newTestContext(t, WithResolver(resolver))

	tr, err := c.Bind(context.Background(), "", DefaultPort)
	assert.Nil(t, tr)

	var hostErr *HostResolutionError
	require.ErrorAs(t, err, &hostErr)
	assert.ErrorIs(t, err, ErrHostResolution)
	assert.Equal(t, int32(0), resolver.calls.Load())
	assert.Empty(t, dialer.addresses())
}

func TestBindResolverFailure(t *testing.T) {
	for name, resolver := range map[string]*staticResolver{
		"Error":     {err: errors.New("no such host")},
		"NoAddress": {},
	} {
		resolver := resolver
		t.Run(name, func(t *testing.T) {
			c, dialer := newTestContext(t, WithResolver(resolver))

			_, err := c.Bind(context.Background(), "hue.invalid", DefaultPort)
			assert.ErrorIs(t, err, ErrHostResolution)
			assert.Empty(t, dialer.addresses())
		})
	}
}

func TestBindInvalidPort(t *testing.T) {
	c, dialer := newTestContext(t)

	for _, port := range []int{0, -1, 65536} {
		_, err := c.Bind(context.Background(), "127.0.0.1", port)
		assert.ErrorIs(t, err, ErrTransportBind)
	}
	assert.Empty(t, dialer.addresses())
}

func TestBindFirstReachableAddressWins(t *testing.T) {
	resolver := &staticResolver{addrs: []netip.Addr{
		netip.MustParseAddr("192.0.2.1"),
		netip.MustParseAddr("::ffff:127.0.0.1"),
		netip.MustParseAddr("127.0.0.2"),
	}}
	c, _ := newTestContext(t, WithResolver(resolver))
	dialer := &recordingDialer{fail: map[string]error{"192.0.2.1:2100": errors.New("network unreachable")}}
	c.cfg.dialer = dialer

	tr, err := c.Bind(context.Background(), "hue.local", DefaultPort)
	require.NoError(t, err)
	defer func() { assert.NoError(t, tr.Close()) }()

	assert.Equal(t, []string{"192.0.2.1:2100", "127.0.0.1:2100"}, dialer.addresses())
	assert.Equal(t, "127.0.0.1:2100", tr.RemoteAddr().String())
	assert.True(t, tr.Connected())
}

func TestBindAllAddressesFail(t *testing.T) {
	resolver := &staticResolver{addrs: []netip.Addr{
		netip.MustParseAddr("192.0.2.1"),
		netip.MustParseAddr("192.0.2.2"),
	}}
	unreachable := errors.New("network unreachable")
	c, _ := newTestContext(t, WithResolver(resolver))
	c.cfg.dialer = &recordingDialer{fail: map[string]error{
		"192.0.2.1:2100": unreachable,
		"192.0.2.2:2100": unreachable,
	}}

	_, err := c.Bind(context.Background(), "hue.local", DefaultPort)

	var bindErr *TransportBindError
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, unreachable)
	assert.Equal(t, "hue.local:2100", bindErr.Addr)
}

func TestTransportLoopback(t *testing.T) {
	peer, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer func() { assert.NoError(t, peer.Close()) }()

	port := peer.LocalAddr().(*net.UDPAddr).Port //nolint:forcetypeassert
	c, dialer := newTestContext(t)

	tr, err := c.Bind(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)
	assert.Equal(t, peer.LocalAddr().String(), tr.RemoteAddr().String())
	assert.NotNil(t, tr.LocalAddr())

	_, err = tr.packetConn().WriteTo([]byte("ping"), tr.RemoteAddr())
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, from, err := peer.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))
	assert.Equal(t, tr.LocalAddr().String(), from.String())

	assert.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
	assert.False(t, tr.Connected())
	assert.True(t, dialer.allClosed())
}
