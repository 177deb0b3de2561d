// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"context"
	"errors"
	"fmt"

	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/pion/dtls/v3"
	"github.com/pion/dtls/v3/pkg/protocol/alert"
)

// Error kinds. Every error returned while establishing a session matches
// exactly one of these with errors.Is.
var (
	ErrInvalidPSK      = psk.ErrInvalidPSK
	ErrHostResolution  = errors.New("host resolution failed")
	ErrTransportBind   = errors.New("transport bind failed")
	ErrContextCreation = errors.New("context creation failed")
	ErrHandshake       = errors.New("handshake failed")
	ErrTimeoutConfig   = errors.New("timeout configuration failed")
	ErrCredentialInUse = psk.ErrInUse
)

// Codes carried by HandshakeError and TimeoutConfigError. A HandshakeError
// caused by an alert carries the alert description as a non-negative code;
// the negative codes classify every other failure. The engine error itself
// is always wrapped.
const (
	CodeUnknown          = -1
	CodeHandshakeTimeout = -2
	CodeInvalidTimeout   = -3
	CodeAlert            = -4
	CodeFatal            = -5
	CodeInternal         = -6
	CodeDeadline         = -7
)

var (
	errNoTransport        = errors.New("no transport to bind the session to")
	errTransportClosed    = errors.New("transport is closed")
	errInvalidPort        = errors.New("port out of range")
	errNoAddresses        = errors.New("no addresses found")
	errInvalidState       = errors.New("invalid session state")
	errNotEstablished     = errors.New("session is not established")
	errSessionClosed      = errors.New("session is closed")
	errPSKUnavailable     = errors.New("no psk supplied for handle")
	errIdentityChanged    = errors.New("psk identity does not match the identity committed to the handle")
	errCipherList         = errors.New("cipher list must name exactly one supported PSK suite")
	errNilLoggerFactory   = errors.New("logger factory is nil")
	errNilResolver        = errors.New("resolver is nil")
	errNilDialer          = errors.New("dialer is nil")
	errNonPositiveTimeout = errors.New("timeout must be positive")
)

// HostResolutionError reports a host that could not be turned into an
// address. No socket exists when this is returned.
type HostResolutionError struct {
	Host string
	Err  error
}

func (e *HostResolutionError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrHostResolution, e.Host, e.Err)
}

func (e *HostResolutionError) Unwrap() error { return e.Err }

// Is matches ErrHostResolution.
func (e *HostResolutionError) Is(target error) bool { return target == ErrHostResolution }

// TransportBindError reports a failure to create, connect or adapt the UDP
// socket.
type TransportBindError struct {
	Addr string
	Err  error
}

func (e *TransportBindError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%v: %v", ErrTransportBind, e.Err)
	}

	return fmt.Sprintf("%v: %s: %v", ErrTransportBind, e.Addr, e.Err)
}

func (e *TransportBindError) Unwrap() error { return e.Err }

// Is matches ErrTransportBind.
func (e *TransportBindError) Is(target error) bool { return target == ErrTransportBind }

// ContextError reports a context that could not be configured.
type ContextError struct {
	Err error
}

func (e *ContextError) Error() string { return fmt.Sprintf("%v: %v", ErrContextCreation, e.Err) }

func (e *ContextError) Unwrap() error { return e.Err }

// Is matches ErrContextCreation.
func (e *ContextError) Is(target error) bool { return target == ErrContextCreation }

// CredentialInUseError reports a credential that is already attached to
// another live session. Nothing attached to Handle was changed.
type CredentialInUseError struct {
	Identity string
	Handle   HandleID
	Err      error
}

func (e *CredentialInUseError) Error() string {
	return fmt.Sprintf("attaching %q to handle %d: %v", e.Identity, e.Handle, e.Err)
}

func (e *CredentialInUseError) Unwrap() error { return e.Err }

// HandshakeError reports a handshake the engine rejected or aborted.
type HandshakeError struct {
	Code int
	// Alert is the alert that ended the handshake, if there was one.
	Alert *alert.Alert
	Err   error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("%v (code %d): %v", ErrHandshake, e.Code, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// Is matches ErrHandshake.
func (e *HandshakeError) Is(target error) bool { return target == ErrHandshake }

// Timeout implements net.Error.
func (e *HandshakeError) Timeout() bool { return e.Code == CodeHandshakeTimeout }

// Temporary implements net.Error. A failed handshake can be retried with a
// fresh transport.
func (e *HandshakeError) Temporary() bool { return e.Code == CodeHandshakeTimeout }

// TimeoutConfigError reports a receive timeout the session would not take.
// The session stays established.
type TimeoutConfigError struct {
	Code int
	Err  error
}

func (e *TimeoutConfigError) Error() string {
	return fmt.Sprintf("%v (code %d): %v", ErrTimeoutConfig, e.Code, e.Err)
}

func (e *TimeoutConfigError) Unwrap() error { return e.Err }

// Is matches ErrTimeoutConfig.
func (e *TimeoutConfigError) Is(target error) bool { return target == ErrTimeoutConfig }

// Timeout implements net.Error.
func (e *TimeoutConfigError) Timeout() bool { return false }

// Temporary implements net.Error.
func (e *TimeoutConfigError) Temporary() bool { return true }

// engineAlert matches the engine's error for an alert. Marshal is promoted
// from the embedded *alert.Alert.
type engineAlert interface {
	IsFatalOrCloseNotify() bool
	Marshal() ([]byte, error)
}

// newHandshakeError classifies a failed handshake.
func newHandshakeError(err error) *HandshakeError {
	herr := &HandshakeError{Code: CodeUnknown, Err: err}

	var (
		alerted  engineAlert
		fatal    *dtls.FatalError
		internal *dtls.InternalError
	)
	switch {
	case errors.As(err, &alerted):
		herr.Code = CodeAlert
		if a := decodeAlert(alerted); a != nil {
			herr.Alert = a
			herr.Code = int(a.Description)
		}
	case errors.Is(err, context.DeadlineExceeded):
		herr.Code = CodeHandshakeTimeout
	case errors.As(err, &fatal):
		herr.Code = CodeFatal
	case errors.As(err, &internal):
		herr.Code = CodeInternal
	}

	return herr
}

func decodeAlert(e engineAlert) *alert.Alert {
	raw, err := e.Marshal()
	if err != nil {
		return nil
	}
	a := &alert.Alert{}
	if err := a.Unmarshal(raw); err != nil {
		return nil
	}

	return a
}
