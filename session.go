// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/pion/dtls/v3"
	"github.com/pion/logging"
)

// Session is one DTLS session to a bridge. It owns its Transport, the
// engine connection and the credential attached to its handle, and
// releases all three together.
//
// Only the goroutine that owns a Session may drive it; State may be read
// from anywhere.
type Session struct {
	id        HandleID
	owner     *Context
	transport *Transport
	conn      *dtls.Conn
	log       logging.LeveledLogger

	state          atomic.Int32
	receiveTimeout atomic.Int64

	closeOnce sync.Once
	closed    atomic.Bool
}

// NewSession creates the engine handle for t and attaches cred to it. cred
// may be nil, in which case the handshake will fail unless SetCredential is
// called first. A credential already attached to a live session is refused
// with a CredentialInUseError.
//
// On success the session takes ownership of t; on error the caller keeps it.
func (c *Context) NewSession(t *Transport, cred *psk.Credential) (*Session, error) {
	if t == nil {
		return nil, &TransportBindError{Err: errNoTransport}
	}
	if !t.Connected() {
		return nil, &TransportBindError{Addr: t.RemoteAddr().String(), Err: errTransportClosed}
	}

	s := &Session{
		owner:     c,
		transport: t,
		log:       c.log,
	}
	_ = s.advance(StateContextReady)

	s.id = c.newHandle()
	if err := c.assoc.attach(s.id, cred); err != nil {
		return nil, err
	}
	_ = s.advance(StateTransportBound)
	c.log.Debugf("handle %d created and attached to %s", s.id, t.RemoteAddr())

	return s, nil
}

// ID returns the engine handle identity.
func (s *Session) ID() HandleID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// RemoteAddr returns the bridge address.
func (s *Session) RemoteAddr() net.Addr {
	return s.transport.RemoteAddr()
}

// SetCredential replaces the credential presented by the handshake,
// releasing the previous one. A nil cred only detaches. It is only allowed
// before Handshake; the identity is committed once the handshake starts.
func (s *Session) SetCredential(cred *psk.Credential) error {
	if s.closed.Load() {
		return errSessionClosed
	}
	if cur := s.State(); cur != StateTransportBound {
		return fmt.Errorf("%w: credential cannot change in state %s", errInvalidState, cur)
	}

	return s.owner.assoc.attach(s.id, cred)
}

// Handshake runs the client handshake, bounded by the context's handshake
// timeout. On failure the session moves to StateFailed and every resource
// it holds is released before the HandshakeError is returned.
//
// After the handshake the receive timeout is configured; if that is
// rejected a TimeoutConfigError is returned and the session stays
// established.
func (s *Session) Handshake(ctx context.Context) error {
	if s.closed.Load() {
		return errSessionClosed
	}
	if err := s.advance(StateHandshakeStarted); err != nil {
		return err
	}

	identity := []byte{}
	if cred := s.owner.assoc.lookup(s.id); cred != nil {
		identity = []byte(cred.Identity())
	}

	conn, err := dtls.Client(s.transport.packetConn(), s.transport.RemoteAddr(), s.owner.engineConfig(s.id, identity))
	if err != nil {
		return s.fail(err)
	}
	s.conn = conn

	hctx, cancel := context.WithTimeout(ctx, s.owner.cfg.handshakeTimeout)
	defer cancel()
	if err := conn.HandshakeContext(hctx); err != nil {
		return s.fail(err)
	}

	if err := s.advance(StateEstablished); err != nil {
		return s.fail(err)
	}
	s.log.Infof("DTLS connected to %s on handle %d", s.RemoteAddr(), s.id)

	return s.SetReceiveTimeout(s.owner.cfg.receiveTimeout)
}

// SetReceiveTimeout changes the read timeout of an established session.
func (s *Session) SetReceiveTimeout(d time.Duration) error {
	if d <= 0 {
		return &TimeoutConfigError{Code: CodeInvalidTimeout, Err: errNonPositiveTimeout}
	}
	if s.State() != StateEstablished || s.closed.Load() {
		return &TimeoutConfigError{Code: CodeUnknown, Err: errNotEstablished}
	}
	if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
		return &TimeoutConfigError{Code: CodeDeadline, Err: err}
	}

	s.receiveTimeout.Store(int64(d))
	s.log.Debugf("receive timeout on handle %d set to %s", s.id, d)

	return nil
}

// ReceiveTimeout returns the configured read timeout, zero before the
// handshake.
func (s *Session) ReceiveTimeout() time.Duration {
	return time.Duration(s.receiveTimeout.Load())
}

// Write sends one datagram, typically an encoded frame.
func (s *Session) Write(p []byte) (int, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}

	return s.conn.Write(p)
}

// Read reads one datagram from the bridge, waiting at most the receive
// timeout.
func (s *Session) Read(p []byte) (int, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}
	if d := s.ReceiveTimeout(); d > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
			return 0, err
		}
	}

	return s.conn.Read(p)
}

// Close releases the engine connection, the socket and the credential
// association. It is safe to call more than once.
func (s *Session) Close() error {
	return s.release()
}

func (s *Session) usable() error {
	switch {
	case s.closed.Load():
		return errSessionClosed
	case s.State() != StateEstablished:
		return errNotEstablished
	default:
		return nil
	}
}

func (s *Session) advance(next State) error {
	cur := s.State()
	if !cur.canTransition(next) || !s.state.CompareAndSwap(int32(cur), int32(next)) {
		return fmt.Errorf("%w: %s to %s", errInvalidState, cur, next)
	}

	return nil
}

func (s *Session) fail(err error) error {
	s.state.Store(int32(StateFailed))
	herr := newHandshakeError(err)
	s.log.Errorf("unable to open DTLS channel to %s: %v", s.RemoteAddr(), herr)

	if rerr := s.release(); rerr != nil {
		s.log.Debugf("release after failed handshake on handle %d: %v", s.id, rerr)
	}

	return herr
}

func (s *Session) release() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.owner.assoc.detach(s.id)

		if s.conn != nil {
			err = s.conn.Close()
		}
		if cerr := s.transport.Close(); err == nil {
			err = cerr
		}
		s.log.Debugf("handle %d released", s.id)
	})

	return err
}
