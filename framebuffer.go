// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import "sync"

// Framebuffer owns the canonical 32-bit pixel grid mirrored from the server's screen.
// Every pixel is stored pre-translated into the client's forced canonical pixel
// format (PixelFormat32BitRGBA): word = R<<RedShift | G<<GreenShift | B<<BlueShift.
//
// Only the reader worker ever mutates a Framebuffer; hosts should treat Snapshot
// (or direct reads via At) as possibly-torn with respect to an in-flight decode
// and repaint on the FramebufferUpdated/FramebufferResized events.
type Framebuffer struct {
	mu     sync.RWMutex
	width  uint16
	height uint16
	pix    []uint32
}

// NewFramebuffer allocates a framebuffer of the given dimensions, zero-filled.
func NewFramebuffer(width, height uint16) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint32, int(width)*int(height)),
	}
}

// Size returns the current framebuffer dimensions.
func (f *Framebuffer) Size() (width, height uint16) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.width, f.height
}

// Resize replaces the framebuffer with a new, zero-filled grid of the given
// dimensions. Used by the DesktopSize pseudo-encoding handler.
func (f *Framebuffer) Resize(width, height uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width = width
	f.height = height
	f.pix = make([]uint32, int(width)*int(height))
}

// At returns the pixel value at (x, y).
func (f *Framebuffer) At(x, y uint16) uint32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pix[int(y)*int(f.width)+int(x)]
}

// Snapshot returns a copy of the full pixel grid along with its dimensions,
// safe to read without racing the reader worker.
func (f *Framebuffer) Snapshot() ([]uint32, uint16, uint16) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]uint32, len(f.pix))
	copy(out, f.pix)
	return out, f.width, f.height
}

// boundsError reports a server-sent rectangle that does not fit the framebuffer.
// Callers surface this as a ProtocolError and tear down the connection (§4.3).
func (f *Framebuffer) boundsError(op string, x, y, w, h uint16) error {
	return protocolError(op, "rectangle exceeds framebuffer bounds", nil)
}

func (f *Framebuffer) inBoundsLocked(x, y, w, h uint16) bool {
	if w == 0 || h == 0 {
		return true
	}
	if uint32(x)+uint32(w) > uint32(f.width) || uint32(y)+uint32(h) > uint32(f.height) {
		return false
	}
	return true
}

// WritePixel sets a single pixel. Out-of-bounds coordinates are a protocol error.
func (f *Framebuffer) WritePixel(x, y uint16, color uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBoundsLocked(x, y, 1, 1) {
		return f.boundsError("Framebuffer.WritePixel", x, y, 1, 1)
	}
	f.pix[int(y)*int(f.width)+int(x)] = color
	return nil
}

// WriteRow writes len(src) consecutive pixels starting at (x, y), left to right.
func (f *Framebuffer) WriteRow(x, y uint16, src []uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := uint16(len(src)) // #nosec G115 - row lengths are bounded by rectangle width (<=65535)
	if !f.inBoundsLocked(x, y, w, 1) {
		return f.boundsError("Framebuffer.WriteRow", x, y, w, 1)
	}
	base := int(y)*int(f.width) + int(x)
	copy(f.pix[base:base+len(src)], src)
	return nil
}

// FillRect fills the w x h rectangle at (x, y) with a single color.
func (f *Framebuffer) FillRect(x, y, w, h uint16, color uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBoundsLocked(x, y, w, h) {
		return f.boundsError("Framebuffer.FillRect", x, y, w, h)
	}
	for row := uint16(0); row < h; row++ {
		base := int(y+row)*int(f.width) + int(x)
		line := f.pix[base : base+int(w)]
		for i := range line {
			line[i] = color
		}
	}
	return nil
}

// CopyRect copies a w x h block from (srcX, srcY) to (dstX, dstY), tolerating
// overlap between source and destination by choosing the copy direction from
// the relative position of source and destination (§4.3, §8 invariant 2).
func (f *Framebuffer) CopyRect(srcX, srcY, dstX, dstY, w, h uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.inBoundsLocked(srcX, srcY, w, h) {
		return f.boundsError("Framebuffer.CopyRect", srcX, srcY, w, h)
	}
	if !f.inBoundsLocked(dstX, dstY, w, h) {
		return f.boundsError("Framebuffer.CopyRect", dstX, dstY, w, h)
	}
	if w == 0 || h == 0 {
		return nil
	}

	stride := int(f.width)

	// Within a single row, Go's copy() already behaves like memmove and is
	// safe regardless of overlap direction. Across rows it is not: when the
	// destination is below the source, copying rows top-to-bottom would
	// overwrite a source row before it is read by a later iteration, so that
	// case walks rows bottom-to-top instead (§4.3, §8 invariant 2).
	if dstY > srcY {
		for row := int(h) - 1; row >= 0; row-- {
			srcBase := (int(srcY)+row)*stride + int(srcX)
			dstBase := (int(dstY)+row)*stride + int(dstX)
			copy(f.pix[dstBase:dstBase+int(w)], f.pix[srcBase:srcBase+int(w)])
		}
		return nil
	}

	for row := 0; row < int(h); row++ {
		srcBase := (int(srcY)+row)*stride + int(srcX)
		dstBase := (int(dstY)+row)*stride + int(dstX)
		copy(f.pix[dstBase:dstBase+int(w)], f.pix[srcBase:srcBase+int(w)])
	}
	return nil
}
