// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"encoding/binary"
	"io"
)

// ZlibEncoding represents the Zlib encoding (tile type 6): a Raw-format pixel
// stream compressed with a single persistent zlib stream kept alive for the
// whole connection (§4.5).
type ZlibEncoding struct{}

// Type returns the encoding type identifier for Zlib encoding.
func (*ZlibEncoding) Type() int32 {
	return 6
}

// Read decodes Zlib-compressed Raw pixel data for the rectangle.
func (enc *ZlibEncoding) Read(c *ClientConn, rect *Rectangle, r io.Reader) (Encoding, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, encodingError("ZlibEncoding.Read", "failed to read compressed data length", err)
	}

	const maxCompressedLength = 64 * 1024 * 1024
	if length > maxCompressedLength {
		return nil, encodingError("ZlibEncoding.Read", "compressed rectangle too large", nil)
	}

	inflate, err := c.zlib.beginRectangle(r, int(length))
	if err != nil {
		return nil, err
	}

	row := make([]uint32, rect.Width)
	for y := uint16(0); y < rect.Height; y++ {
		for x := uint16(0); x < rect.Width; x++ {
			raw, err := c.srcConverter.ReadPixel(inflate)
			if err != nil {
				return nil, encodingError("ZlibEncoding.Read", "failed to read decompressed pixel", err)
			}
			pixel, err := c.canonicalPixel(raw)
			if err != nil {
				return nil, err
			}
			row[x] = pixel
		}
		if err := c.fb.WriteRow(rect.X, rect.Y+y, row); err != nil {
			return nil, err
		}
	}

	return enc, nil
}
