// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package entertainment opens the secure channel a Hue bridge requires
// before it accepts entertainment streaming frames: DTLS 1.2 over UDP,
// authenticated with a pre-shared key and restricted to
// TLS_PSK_WITH_AES_128_GCM_SHA256.
//
// A Context holds the client configuration. Bind opens a UDP socket fixed
// to the bridge, NewSession attaches a psk.Credential to a new engine
// handle, and Handshake runs the handshake, during which the engine asks
// the context for the identity and key through the handle. Connect does
// all three and cleans up on any failure.
//
//	cred, err := psk.New(username, clientKey)
//	...
//	sess, err := entertainment.Dial(ctx, "192.168.1.2", cred)
//	...
//	defer sess.Close()
//	_, err = sess.Write(frame)
package entertainment
