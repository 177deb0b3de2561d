// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package dgram adapts a connected UDP socket to the packet interface the
// DTLS engine reads and writes.
package dgram

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var errPeerMismatch = errors.New("dgram: write to an address other than the connected peer")

// Conn wraps a connected net.Conn with methods that satisfy net.PacketConn.
// Every datagram read is reported as coming from the connected peer and
// writes may only target that peer.
type Conn struct {
	conn net.Conn
	peer net.Addr

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// FromConn converts a connected net.Conn into a net.PacketConn fixed to the
// conn's remote address.
func FromConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, peer: conn.RemoteAddr()}
}

// Peer returns the connected peer address.
func (c *Conn) Peer() net.Addr {
	return c.peer
}

// ReadFrom reads from the underlying net.Conn and returns the peer address.
func (c *Conn) ReadFrom(b []byte) (int, net.Addr, error) {
	n, err := c.conn.Read(b)

	return n, c.peer, err
}

// WriteTo writes to the underlying net.Conn.
func (c *Conn) WriteTo(b []byte, addr net.Addr) (int, error) {
	if addr != nil && addr.String() != c.peer.String() {
		return 0, &net.OpError{Op: "write", Net: addr.Network(), Addr: addr, Err: errPeerMismatch}
	}

	return c.conn.Write(b)
}

// Close closes the underlying net.Conn. Only the first call reaches the
// socket; later calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.conn.Close()
	})

	return c.closeErr
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// LocalAddr returns the local address of the underlying net.Conn.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// SetDeadline sets the deadline on the underlying net.Conn.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// SetReadDeadline sets the read deadline on the underlying net.Conn.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline on the underlying net.Conn.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}
