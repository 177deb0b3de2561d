// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package entertainment

import (
	"sync"

	"github.com/paxswill/hue-entertainment/pkg/psk"
)

// HandleID identifies one engine handle. The PSK callback is handed the
// handle ID and nothing else, so it is the key every association hangs off.
type HandleID uint64

// AppDataSlot is per-handle storage for the credential share attached to
// that handle. Implementations must allow Load concurrently with the other
// methods.
type AppDataSlot interface {
	Load(id HandleID) (*psk.Share, bool)
	Store(id HandleID, share *psk.Share)
	Delete(id HandleID)
	Len() int
}

type mapSlot struct {
	mu     sync.RWMutex
	shares map[HandleID]*psk.Share
}

func newMapSlot() *mapSlot {
	return &mapSlot{shares: map[HandleID]*psk.Share{}}
}

func (m *mapSlot) Load(id HandleID) (*psk.Share, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shares[id]

	return s, ok
}

func (m *mapSlot) Store(id HandleID, share *psk.Share) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shares[id] = share
}

func (m *mapSlot) Delete(id HandleID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.shares, id)
}

func (m *mapSlot) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.shares)
}

// associations is the side table from handle to credential. A handle holds
// at most one share and a credential is attached to at most one handle;
// attaching a new credential claims it before releasing the previous one.
type associations struct {
	mu   sync.Mutex
	slot AppDataSlot
}

func newAssociations(slot AppDataSlot) *associations {
	return &associations{slot: slot}
}

// attach replaces whatever is attached to id with cred. A nil cred leaves
// the handle with nothing attached. If cred is live on another handle the
// existing association of id is left untouched.
func (a *associations) attach(id HandleID, cred *psk.Credential) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cred == nil {
		a.detachLocked(id)

		return nil
	}
	if cur, ok := a.slot.Load(id); ok && cur.Credential() == cred {
		return nil
	}

	share, err := cred.Claim()
	if err != nil {
		return &CredentialInUseError{Identity: cred.Identity(), Handle: id, Err: err}
	}
	a.detachLocked(id)
	a.slot.Store(id, share)

	return nil
}

func (a *associations) detach(id HandleID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.detachLocked(id)
}

func (a *associations) detachLocked(id HandleID) {
	old, ok := a.slot.Load(id)
	if !ok {
		return
	}
	a.slot.Delete(id)
	old.Release()
}

// lookup is called from inside the handshake and only reads.
func (a *associations) lookup(id HandleID) *psk.Credential {
	share, ok := a.slot.Load(id)
	if !ok {
		return nil
	}

	return share.Credential()
}

func (a *associations) count() int {
	return a.slot.Len()
}
