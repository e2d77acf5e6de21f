// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeServerInit writes a minimal ServerInit message (width, height,
// 32-bit canonical pixel format, desktop name) to conn.
func writeServerInit(t *testing.T, conn net.Conn, width, height uint16, name string) {
	t.Helper()
	require.NoError(t, binary.Write(conn, binary.BigEndian, width))
	require.NoError(t, binary.Write(conn, binary.BigEndian, height))

	pixelFormat := []byte{
		32, 24, 0, 1, // BPP, Depth, BigEndian, TrueColor
		0, 255, 0, 255, 0, 255, // RedMax, GreenMax, BlueMax
		16, 8, 0, // RedShift, GreenShift, BlueShift
		0, 0, 0, // padding
	}
	_, err := conn.Write(pixelFormat)
	require.NoError(t, err)

	nameBytes := []byte(name)
	require.NoError(t, binary.Write(conn, binary.BigEndian, uint32(len(nameBytes))))
	_, err = conn.Write(nameBytes)
	require.NoError(t, err)
}

// drainClientWrites reads and discards SetPixelFormat/SetEncodings/
// FramebufferUpdateRequest traffic after the handshake completes, so the
// client's writes never block against an unread pipe.
func drainClientWrites(conn net.Conn) {
	buf := make([]byte, 4096)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

// TestHandshake_S1_NoAuth38 covers spec scenario S1: a no-auth 3.8 server.
func TestHandshake_S1_NoAuth38(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		_, _ = server.Write([]byte("RFB 003.008\n"))
		version := make([]byte, 12)
		_, _ = io.ReadFull(server, version)
		require.Equal(t, "RFB 003.008\n", string(version))

		require.NoError(t, binary.Write(server, binary.BigEndian, uint8(1)))
		require.NoError(t, binary.Write(server, binary.BigEndian, uint8(1))) // None

		var chosen uint8
		require.NoError(t, binary.Read(server, binary.BigEndian, &chosen))
		require.Equal(t, uint8(1), chosen)

		require.NoError(t, binary.Write(server, binary.BigEndian, uint32(0))) // OK

		var shared uint8
		require.NoError(t, binary.Read(server, binary.BigEndian, &shared))

		writeServerInit(t, server, 800, 600, "S1 Desktop")

		drainClientWrites(server)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := ClientWithContext(ctx, client, &ClientConfig{
		Auth: []ClientAuth{&ClientAuthNone{}},
	})
	require.NoError(t, err)
	defer conn.Close()

	w, h := conn.GetFrameBufferSize()
	require.Equal(t, uint16(800), w)
	require.Equal(t, uint16(600), h)
	require.Equal(t, "S1 Desktop", conn.GetDesktopName())

	<-serverDone
}

// TestHandshake_S3_VNCAuthFailure38 covers spec scenario S3: VNC auth fails
// with a reason string on RFB 3.8.
func TestHandshake_S3_VNCAuthFailure38(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		_, _ = server.Write([]byte("RFB 003.008\n"))
		version := make([]byte, 12)
		_, _ = io.ReadFull(server, version)

		_ = binary.Write(server, binary.BigEndian, uint8(1))
		_ = binary.Write(server, binary.BigEndian, uint8(2)) // VNC auth

		var chosen uint8
		_ = binary.Read(server, binary.BigEndian, &chosen)

		challenge := make([]byte, VNCChallengeSize)
		_, _ = server.Write(challenge)

		response := make([]byte, VNCChallengeSize)
		_, _ = io.ReadFull(server, response)

		_ = binary.Write(server, binary.BigEndian, uint32(1)) // Failed
		reason := []byte("bad")
		_ = binary.Write(server, binary.BigEndian, uint32(len(reason)))
		_, _ = server.Write(reason)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ClientWithContext(ctx, client, &ClientConfig{
		Auth: []ClientAuth{&PasswordAuth{Password: "password"}},
	})
	require.Error(t, err)
	require.True(t, IsVNCError(err, ErrAuthentication))
}

// TestHandshake_S4_UltraVNC36Quirk covers spec scenario S4: a server
// reporting RFB 003.006 negotiates down to 3.3's security format.
func TestHandshake_S4_UltraVNC36Quirk(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		_, _ = server.Write([]byte("RFB 003.006\n"))
		version := make([]byte, 12)
		_, _ = io.ReadFull(server, version)
		require.Equal(t, "RFB 003.003\n", string(version))

		// RFB 3.3 security format: a single u32 security type, no client echo.
		require.NoError(t, binary.Write(server, binary.BigEndian, uint32(1))) // None

		// A real 3.3/3.7 None-auth server sends no SecurityResult here - it
		// goes straight to ClientInit/ServerInit.
		var shared uint8
		require.NoError(t, binary.Read(server, binary.BigEndian, &shared))

		writeServerInit(t, server, 640, 480, "UltraVNC")

		drainClientWrites(server)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := ClientWithContext(ctx, client, &ClientConfig{
		Auth: []ClientAuth{&ClientAuthNone{}},
	})
	require.NoError(t, err)
	defer conn.Close()

	<-serverDone
}
