// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newEventTestClientConn(t *testing.T, eventCh chan<- Event) *ClientConn {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client, server := net.Pipe()
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })
	go func() { _, _ = io.Copy(io.Discard, server) }()

	return &ClientConn{
		c:      client,
		ctx:    ctx,
		cancel: cancel,
		config: &ClientConfig{EventCh: eventCh},
		logger: &NoOpLogger{},
	}
}

func TestPostEvent_DeliversToChannel(t *testing.T) {
	eventCh := make(chan Event, 1)
	c := newEventTestClientConn(t, eventCh)

	c.postEvent(BellEvent{})

	select {
	case ev := <-eventCh:
		require.Equal(t, BellEvent{}, ev)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPostEvent_NoChannelConfiguredIsNoop(t *testing.T) {
	c := newEventTestClientConn(t, nil)
	require.NotPanics(t, func() { c.postEvent(BellEvent{}) })
}

func TestPostEvent_UnblocksOnContextCancel(t *testing.T) {
	// Unbuffered channel with nobody reading: postEvent must not hang once
	// the connection's context is cancelled.
	eventCh := make(chan Event)
	c := newEventTestClientConn(t, eventCh)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.postEvent(BellEvent{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("postEvent did not honor context cancellation")
	}
}

func TestDispatchMessage_FramebufferUpdateSkipsPseudoRectsAndResolvesEvent(t *testing.T) {
	eventCh := make(chan Event, 1)
	c := newEventTestClientConn(t, eventCh)
	c.fb = NewFramebuffer(4, 4)
	c.config.ServerMessageCh = nil

	msg := &FramebufferUpdateMessage{
		Rectangles: []Rectangle{
			{X: 0, Y: 0, Width: 2, Height: 2, Enc: &RawEncoding{}},
			{X: 0, Y: 0, Width: 0, Height: 0, Enc: &DesktopSizePseudoEncoding{}},
		},
	}

	c.dispatchMessage(msg)

	select {
	case ev := <-eventCh:
		updated, ok := ev.(FramebufferUpdatedEvent)
		require.True(t, ok)
		require.Len(t, updated.Rects, 1)
	default:
		t.Fatal("expected FramebufferUpdatedEvent")
	}
}

func TestDispatchMessage_BellAndServerCutText(t *testing.T) {
	eventCh := make(chan Event, 2)
	c := newEventTestClientConn(t, eventCh)

	c.dispatchMessage(&BellMessage{})
	c.dispatchMessage(&ServerCutTextMessage{Text: "hello"})

	ev1 := <-eventCh
	require.Equal(t, BellEvent{}, ev1)

	ev2 := <-eventCh
	require.Equal(t, ServerCutTextEvent{Text: "hello"}, ev2)
}
