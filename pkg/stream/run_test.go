// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	entertainment "github.com/paxswill/hue-entertainment"
	"github.com/paxswill/hue-entertainment/internal/bridgesim"
	"github.com/paxswill/hue-entertainment/pkg/psk"
	"github.com/pion/transport/v3/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdentity = "caramellights"
	testKeyHex   = "00112233445566778899aabbccddeeff"
)

func startBridge(t *testing.T) *bridgesim.Bridge {
	t.Helper()

	key, err := psk.DecodeHex(testKeyHex)
	require.NoError(t, err)

	b, err := bridgesim.Listen(bridgesim.Config{Identity: testIdentity, Key: key})
	require.NoError(t, err)

	return b
}

func TestRunStreamsToEveryBridge(t *testing.T) {
	defer test.CheckRoutines(t)()
	defer test.TimeOut(30 * time.Second).Stop()

	first, second := startBridge(t), startBridge(t)
	defer func() {
		assert.NoError(t, first.Close())
		assert.NoError(t, second.Close())
	}()

	ec, err := entertainment.NewContext(entertainment.WithHandshakeTimeout(5 * time.Second))
	require.NoError(t, err)

	cred, err := psk.New(testIdentity, testKeyHex)
	require.NoError(t, err)
	cred2, err := psk.New(testIdentity, testKeyHex)
	require.NoError(t, err)

	err = Run(context.Background(), Config{
		Context:  ec,
		Interval: 20 * time.Millisecond,
		Duration: 200 * time.Millisecond,
	},
		Target{Name: "first", Host: "127.0.0.1", Port: first.Port(), Credential: cred, Lights: []uint16{0, 1}},
		Target{Name: "second", Host: "127.0.0.1", Port: second.Port(), Credential: cred2, Lights: []uint16{5}},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, cred.Refs())
	assert.Equal(t, 0, cred2.Refs())

	for _, b := range []*bridgesim.Bridge{first, second} {
		assert.Equal(t, int64(1), b.Handshakes())
		frame := <-b.Frames()
		require.NotNil(t, frame.Stream)
		assert.Equal(t, uint8(0), frame.Stream.Sequence)
	}
}

func TestRunFailsWhenOneBridgeRejects(t *testing.T) {
	defer test.CheckRoutines(t)()
	defer test.TimeOut(30 * time.Second).Stop()

	good := startBridge(t)
	defer func() { assert.NoError(t, good.Close()) }()

	ec, err := entertainment.NewContext(entertainment.WithHandshakeTimeout(2 * time.Second))
	require.NoError(t, err)

	cred, err := psk.New(testIdentity, testKeyHex)
	require.NoError(t, err)
	stranger, err := psk.New("stranger", testKeyHex)
	require.NoError(t, err)

	err = Run(context.Background(), Config{Context: ec, Interval: 20 * time.Millisecond},
		Target{Name: "good", Host: "127.0.0.1", Port: good.Port(), Credential: cred, Lights: []uint16{1}},
		Target{Name: "rejecting", Host: "127.0.0.1", Port: good.Port(), Credential: stranger, Lights: []uint16{1}},
	)
	assert.ErrorIs(t, err, entertainment.ErrHandshake)
	var workerErr *WorkerError
	require.ErrorAs(t, err, &workerErr)
	assert.Equal(t, "rejecting", workerErr.Target)
	_, perr := uuid.Parse(workerErr.RunID)
	assert.NoError(t, perr)
	assert.Contains(t, err.Error(), workerErr.RunID)
	assert.Equal(t, 0, cred.Refs())
	assert.Equal(t, 0, stranger.Refs())
}

func TestRunRefusesSharedCredential(t *testing.T) {
	ec, err := entertainment.NewContext()
	require.NoError(t, err)
	cred, err := psk.New(testIdentity, testKeyHex)
	require.NoError(t, err)

	err = Run(context.Background(), Config{Context: ec},
		Target{Name: "living room", Host: "127.0.0.1", Credential: cred, Lights: []uint16{1}},
		Target{Host: "127.0.0.2", Credential: cred, Lights: []uint16{1}},
	)
	assert.ErrorIs(t, err, errSharedCredential)
	assert.Contains(t, err.Error(), "living room and 127.0.0.2")
	assert.Equal(t, 0, cred.Refs())
}

func TestRunRequiresContext(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), Config{}), errNoContext)
}
