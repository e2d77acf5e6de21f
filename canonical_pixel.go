// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import "io"

// readCanonicalPixel reads one pixel off r in the connection's current wire
// pixel format and returns it translated into the canonical 32-bit BGRA word
// the Framebuffer stores (§4.2). Decoders call this instead of assembling
// Color values directly, so every encoding shares one translation path.
func (c *ClientConn) readCanonicalPixel(r io.Reader) (uint32, error) {
	raw, err := c.srcConverter.ReadPixel(r)
	if err != nil {
		return 0, err
	}
	return c.canonicalPixel(raw)
}

// canonicalPixel translates a raw wire-format pixel value into the canonical
// pixel word. True-color pixels are rescaled directly; indexed pixels are
// resolved through the connection's color map, whose 16-bit-per-channel
// entries are rescaled to 8 bits (§4.2, RFC 6143 §7.6.2).
func (c *ClientConn) canonicalPixel(raw uint32) (uint32, error) {
	c.mu.RLock()
	trueColor := c.PixelFormat.TrueColor
	c.mu.RUnlock()

	var r8, g8, b8 uint8
	if trueColor {
		r8, g8, b8 = c.srcConverter.ExtractRGB(raw)
	} else {
		if raw >= ColorMapSize {
			return 0, protocolError("canonicalPixel", "color map index out of range", nil)
		}
		color := c.ColorMap[raw]
		r8 = uint8(color.R / 257) // #nosec G115 - 65535/257 = 255
		g8 = uint8(color.G / 257) // #nosec G115 - 65535/257 = 255
		b8 = uint8(color.B / 257) // #nosec G115 - 65535/257 = 255
	}

	return c.dstConverter.CreatePixel(r8, g8, b8), nil
}
