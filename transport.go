// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"net"
	"net/netip"
	"strconv"

	"github.com/paxswill/hue-entertainment/internal/dgram"
)

// Transport is a UDP socket fixed to one bridge, adapted for the DTLS
// engine. It never changes peer; reconnecting means binding a new one.
type Transport struct {
	conn *dgram.Conn
}

// Bind resolves host, opens a UDP socket to the first candidate address
// that accepts one and fixes the socket to that peer. No handshake happens
// here.
//
// Ownership of the returned Transport passes to the caller until it is
// handed to NewSession.
func (c *Context) Bind(ctx context.Context, host string, port int) (*Transport, error) {
	if host == "" {
		return nil, &HostResolutionError{Host: host, Err: errNoAddresses}
	}
	target := net.JoinHostPort(host, strconv.Itoa(port))
	if port <= 0 || port > 65535 {
		return nil, &TransportBindError{Addr: target, Err: errInvalidPort}
	}

	addrs, err := c.cfg.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, &HostResolutionError{Host: host, Err: err}
	}
	if len(addrs) == 0 {
		return nil, &HostResolutionError{Host: host, Err: errNoAddresses}
	}

	var lastErr error
	for _, addr := range addrs {
		candidate := netip.AddrPortFrom(addr.Unmap(), uint16(port)).String()
		conn, err := c.cfg.dialer.DialContext(ctx, "udp", candidate)
		if err != nil {
			c.log.Warnf("unable to connect UDP socket to %s: %v", candidate, err)
			lastErr = err

			continue
		}
		c.log.Infof("UDP socket connected to %s", candidate)

		t := &Transport{conn: dgram.FromConn(conn)}
		c.log.Debugf("datagram adapter attached, peer %s", t.RemoteAddr())

		return t, nil
	}

	return nil, &TransportBindError{Addr: target, Err: lastErr}
}

// RemoteAddr is the connected bridge address.
func (t *Transport) RemoteAddr() net.Addr {
	return t.conn.Peer()
}

// LocalAddr is the local end of the socket.
func (t *Transport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Connected reports whether the socket is still open and fixed to its peer.
func (t *Transport) Connected() bool {
	return !t.conn.Closed()
}

// Close releases the socket. It is safe to call more than once.
func (t *Transport) Close() error {
	return t.conn.Close()
}

func (t *Transport) packetConn() net.PacketConn {
	return t.conn
}
