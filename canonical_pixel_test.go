// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClientConn(t *testing.T, format *PixelFormat) *ClientConn {
	t.Helper()

	converter, err := NewPixelFormatConverter(format)
	require.NoError(t, err)

	dst, err := NewPixelFormatConverter(PixelFormat32BitRGBA)
	require.NoError(t, err)

	c := &ClientConn{
		logger:       &NoOpLogger{},
		srcConverter: converter,
		dstConverter: dst,
	}
	c.PixelFormat = *format
	return c
}

func TestCanonicalPixel_TrueColorPassesThroughShifts(t *testing.T) {
	c := newTestClientConn(t, PixelFormat32BitRGBA)

	// Already canonical: red=0x10, green=0x20, blue=0x30.
	raw := uint32(0x10)<<16 | uint32(0x20)<<8 | uint32(0x30)

	pixel, err := c.canonicalPixel(raw)
	require.NoError(t, err)
	require.Equal(t, raw, pixel)
}

func TestCanonicalPixel_IndexedLooksUpColorMap(t *testing.T) {
	c := newTestClientConn(t, PixelFormat8BitIndexed)
	c.ColorMap[5] = Color{R: 65535, G: 0, B: 0}

	pixel, err := c.canonicalPixel(5)
	require.NoError(t, err)

	r, g, b := c.dstConverter.ExtractRGB(pixel)
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(0), b)
}

func TestCanonicalPixel_IndexedOutOfRangeIsProtocolError(t *testing.T) {
	c := newTestClientConn(t, PixelFormat8BitIndexed)

	_, err := c.canonicalPixel(ColorMapSize)
	require.Error(t, err)

	var vncErr *VNCError
	require.ErrorAs(t, err, &vncErr)
	require.Equal(t, ErrProtocol, vncErr.Code)
}
