// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paxswill/hue-entertainment/internal/bridgesim"
	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/pion/dtls/v3"
	"github.com/stretchr/testify/require"
)

const (
	testIdentity = "caramel-dansen"
	testKeyHex   = "0102030405060708090a0b0c0d0e0f10"
)

func testCredential(t *testing.T) *psk.Credential {
	t.Helper()

	cred, err := psk.New(testIdentity, testKeyHex)
	require.NoError(t, err)

	return cred
}

type staticResolver struct {
	addrs []netip.Addr
	err   error
	calls atomic.Int32
}

func (r *staticResolver) LookupNetIP(context.Context, string, string) ([]netip.Addr, error) {
	r.calls.Add(1)

	return r.addrs, r.err
}

// trackedConn records whether the socket handed to the session was closed.
type trackedConn struct {
	net.Conn
	closed atomic.Bool
}

func (c *trackedConn) Close() error {
	c.closed.Store(true)

	return c.Conn.Close()
}

type recordingDialer struct {
	fail map[string]error

	mu     sync.Mutex
	dialed []string
	conns  []*trackedConn
}

func (d *recordingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, address)
	d.mu.Unlock()

	if err, ok := d.fail[address]; ok {
		return nil, err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	tc := &trackedConn{Conn: conn}
	d.mu.Lock()
	d.conns = append(d.conns, tc)
	d.mu.Unlock()

	return tc, nil
}

func (d *recordingDialer) addresses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string{}, d.dialed...)
}

func (d *recordingDialer) allClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.conns {
		if !c.closed.Load() {
			return false
		}
	}

	return true
}

// countingSlot counts every share stored and released through it.
type countingSlot struct {
	*mapSlot
	stores  atomic.Int32
	deletes atomic.Int32
}

func newCountingSlot() *countingSlot {
	return &countingSlot{mapSlot: newMapSlot()}
}

func (c *countingSlot) Store(id HandleID, share *psk.Share) {
	c.stores.Add(1)
	c.mapSlot.Store(id, share)
}

func (c *countingSlot) Delete(id HandleID) {
	c.deletes.Add(1)
	c.mapSlot.Delete(id)
}

func startBridge(t *testing.T, suites ...dtls.CipherSuiteID) *bridgesim.Bridge {
	t.Helper()

	key, err := psk.DecodeHex(testKeyHex)
	require.NoError(t, err)

	b, err := bridgesim.Listen(bridgesim.Config{
		Identity:         testIdentity,
		Key:              key,
		CipherSuites:     suites,
		HandshakeTimeout: 2 * time.Second,
	})
	require.NoError(t, err)

	return b
}

func newTestContext(t *testing.T, opts ...Option) (*Context, *recordingDialer) {
	t.Helper()

	dialer := &recordingDialer{}
	opts = append([]Option{
		WithDialer(dialer),
		WithHandshakeTimeout(2 * time.Second),
		WithFlightInterval(100 * time.Millisecond),
	}, opts...)

	c, err := NewContext(opts...)
	require.NoError(t, err)

	return c, dialer
}
