// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

// State is the position of a Session in its handshake lifecycle. A session
// only moves forward; StateEstablished and StateFailed are final.
type State int32

// State enums.
const (
	StateUninitialized State = iota
	StateContextReady
	StateTransportBound
	StateHandshakeStarted
	StateEstablished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateContextReady:
		return "ContextReady"
	case StateTransportBound:
		return "TransportBound"
	case StateHandshakeStarted:
		return "HandshakeStarted"
	case StateEstablished:
		return "Established"
	case StateFailed:
		return "Failed"
	default:
		return "Invalid"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateEstablished || s == StateFailed
}

// canTransition guards the forward-only lifecycle.
func (s State) canTransition(next State) bool {
	switch next {
	case StateContextReady:
		return s == StateUninitialized
	case StateTransportBound:
		return s == StateContextReady
	case StateHandshakeStarted:
		return s == StateTransportBound
	case StateEstablished:
		return s == StateHandshakeStarted
	case StateFailed:
		return !s.Terminal()
	default:
		return false
	}
}
