// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

// Event is a host-visible notification posted by the reader worker (§4.8).
// Concrete types are ConnectionLostEvent, FramebufferUpdatedEvent,
// FramebufferResizedEvent, BellEvent and ServerCutTextEvent.
type Event interface {
	isEvent()
}

// FramebufferUpdatedEvent reports that the decoder has finished applying one
// FramebufferUpdate message; Rects holds every rectangle header that was
// processed, in wire order, so the host can invalidate precisely.
type FramebufferUpdatedEvent struct {
	Rects []Rectangle
}

func (FramebufferUpdatedEvent) isEvent() {}

// FramebufferResizedEvent reports a DesktopSize pseudo-encoding resize (§2.3, §4.5).
type FramebufferResizedEvent struct {
	Width  uint16
	Height uint16
}

func (FramebufferResizedEvent) isEvent() {}

// BellEvent reports a server Bell message.
type BellEvent struct{}

func (BellEvent) isEvent() {}

// ServerCutTextEvent reports server-side clipboard content.
type ServerCutTextEvent struct {
	Text string
}

func (ServerCutTextEvent) isEvent() {}

// ConnectionLostEvent is posted exactly once per connection, whether the loss
// was a clean disconnect() or an error observed by the reader worker (§5, §8
// invariant 9). Err is nil for a caller-initiated disconnect.
type ConnectionLostEvent struct {
	Err error
}

func (ConnectionLostEvent) isEvent() {}

// postEvent delivers ev to the configured event channel, if any, without
// blocking past context cancellation/disconnect.
func (c *ClientConn) postEvent(ev Event) {
	ch := c.config.EventCh
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	case <-c.ctx.Done():
	}
}
