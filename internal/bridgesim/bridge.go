// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package bridgesim emulates the entertainment endpoint of a Hue bridge: a
// DTLS 1.2 server that only speaks PSK and accepts HueStream frames.
package bridgesim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paxswill/hue-entertainment/pkg/huestream"
	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
)

const (
	receiveMTU              = 8192
	frameBacklog            = 64
	defaultHandshakeTimeout = 5 * time.Second
)

var (
	errNoIdentity      = errors.New("bridgesim: identity is required")
	errNoKey           = errors.New("bridgesim: key is required")
	errUnknownIdentity = errors.New("bridgesim: unknown psk identity")
)

// Config describes the emulated bridge.
type Config struct {
	// Addr to listen on. Defaults to an ephemeral loopback port.
	Addr *net.UDPAddr
	// Identity and Key are the only credential the bridge accepts.
	Identity string
	Key      []byte
	// CipherSuites the server negotiates. Defaults to the bridge's suite.
	CipherSuites     []dtls.CipherSuiteID
	HandshakeTimeout time.Duration
	LoggerFactory    logging.LoggerFactory
}

// Frame is one datagram received from a client.
type Frame struct {
	Remote net.Addr
	Raw    []byte
	// Stream is the decoded frame, nil when Raw is not a valid HueStream
	// frame; DecodeErr says why.
	Stream    *huestream.Frame
	DecodeErr error
}

// Bridge is a running emulator.
type Bridge struct {
	cfg      Config
	log      logging.LeveledLogger
	listener net.Listener
	frames   chan Frame

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup

	handshakes atomic.Int64
	failures   atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// Listen starts an emulator. Call Close to stop it.
func Listen(cfg Config) (*Bridge, error) {
	switch {
	case cfg.Identity == "":
		return nil, errNoIdentity
	case len(cfg.Key) == 0:
		return nil, errNoKey
	}
	if cfg.Addr == nil {
		cfg.Addr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	}
	if len(cfg.CipherSuites) == 0 {
		cfg.CipherSuites = []dtls.CipherSuiteID{dtls.TLS_PSK_WITH_AES_128_GCM_SHA256}
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	cfg.Key = append([]byte{}, cfg.Key...)

	b := &Bridge{
		cfg:    cfg,
		log:    cfg.LoggerFactory.NewLogger("bridgesim"),
		frames: make(chan Frame, frameBacklog),
		conns:  map[net.Conn]struct{}{},
	}

	listener, err := dtls.Listen("udp", cfg.Addr, &dtls.Config{
		PSK:                  b.psk,
		CipherSuites:         cfg.CipherSuites,
		ExtendedMasterSecret: dtls.RequestExtendedMasterSecret,
		LoggerFactory:        cfg.LoggerFactory,
	})
	if err != nil {
		return nil, fmt.Errorf("bridgesim: listen on %s: %w", cfg.Addr, err)
	}
	b.listener = listener
	b.log.Infof("listening on %s", listener.Addr())

	b.wg.Add(1)
	go b.acceptLoop()

	return b, nil
}

// Addr is the address the bridge listens on.
func (b *Bridge) Addr() *net.UDPAddr {
	addr, _ := b.listener.Addr().(*net.UDPAddr)

	return addr
}

// Port is the UDP port the bridge listens on.
func (b *Bridge) Port() int {
	return b.Addr().Port
}

// Frames delivers received datagrams. It is closed by Close. Frames are
// dropped while the channel is full.
func (b *Bridge) Frames() <-chan Frame {
	return b.frames
}

// Handshakes is the number of completed handshakes.
func (b *Bridge) Handshakes() int64 {
	return b.handshakes.Load()
}

// Failures is the number of handshakes that did not complete.
func (b *Bridge) Failures() int64 {
	return b.failures.Load()
}

// Close stops the listener, closes every client connection and waits for
// their goroutines to exit.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.listener.Close()

		b.mu.Lock()
		b.closed = true
		for conn := range b.conns {
			_ = conn.Close()
		}
		b.mu.Unlock()

		b.wg.Wait()
		close(b.frames)
		b.log.Infof("stopped after %d handshakes, %d failures", b.Handshakes(), b.Failures())
	})

	return b.closeErr
}

func (b *Bridge) psk(identity []byte) ([]byte, error) {
	if !bytes.Equal(identity, []byte(b.cfg.Identity)) {
		b.log.Warnf("rejecting psk identity %q", identity)

		return nil, errUnknownIdentity
	}

	return append([]byte{}, b.cfg.Key...), nil
}

func (b *Bridge) acceptLoop() {
	defer b.wg.Done()

	for {
		conn, err := b.listener.Accept()
		if err != nil {
			b.log.Debugf("accept loop exiting: %v", err)

			return
		}

		if !b.track(conn) {
			_ = conn.Close()

			return
		}
		go b.serve(conn)
	}
}

// track registers conn unless the bridge is closing.
func (b *Bridge) track(conn net.Conn) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	b.conns[conn] = struct{}{}
	b.wg.Add(1)

	return true
}

func (b *Bridge) untrack(conn net.Conn) {
	b.mu.Lock()
	delete(b.conns, conn)
	b.mu.Unlock()

	_ = conn.Close()
	b.wg.Done()
}

func (b *Bridge) serve(conn net.Conn) {
	defer b.untrack(conn)

	dconn, ok := conn.(*dtls.Conn)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.HandshakeTimeout)
	err := dconn.HandshakeContext(ctx)
	cancel()
	if err != nil {
		b.failures.Add(1)
		b.log.Warnf("handshake with %s failed: %v", conn.RemoteAddr(), err)

		return
	}
	b.handshakes.Add(1)
	b.log.Infof("client %s connected", conn.RemoteAddr())

	buf := make([]byte, receiveMTU)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			b.log.Debugf("client %s gone: %v", conn.RemoteAddr(), err)

			return
		}
		b.deliver(conn.RemoteAddr(), buf[:n])
	}
}

func (b *Bridge) deliver(remote net.Addr, data []byte) {
	frame := Frame{Remote: remote, Raw: append([]byte{}, data...)}

	stream := &huestream.Frame{}
	if err := stream.UnmarshalBinary(frame.Raw); err != nil {
		frame.DecodeErr = err
	} else {
		frame.Stream = stream
		b.log.Tracef("frame %d from %s, %d lights", stream.Sequence, remote, len(stream.Lights))
	}

	select {
	case b.frames <- frame:
	default:
		b.log.Warnf("dropping frame from %s, backlog full", remote)
	}
}
