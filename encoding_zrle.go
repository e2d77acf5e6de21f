// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"encoding/binary"
	"io"
)

const zrleTileSize = 16 * 4 // 64

// ZRLEEncoding represents the ZRLE encoding (tile type 16): the rectangle is
// split into 64x64 tiles, each tile individually run-length/palette encoded,
// the whole sequence compressed through the connection's persistent zlib
// stream (§4.5).
type ZRLEEncoding struct{}

// Type returns the encoding type identifier for ZRLE encoding.
func (*ZRLEEncoding) Type() int32 {
	return 16
}

// zrleCPixel reports whether the connection's current pixel format qualifies
// for ZRLE's compact CPIXEL representation (3 bytes carrying only the R, G, B
// octets) instead of the full per-pixel wire width, and the byte width to use
// either way.
func zrleCPixel(pf *PixelFormat) (width int, compact bool) {
	if pf.TrueColor && pf.BPP == 32 && pf.Depth <= 24 &&
		pf.RedShift%8 == 0 && pf.GreenShift%8 == 0 && pf.BlueShift%8 == 0 &&
		pf.RedMax <= 255 && pf.GreenMax <= 255 && pf.BlueMax <= 255 {
		return 3, true
	}
	return int(pf.BPP) / 8, false
}

// readZRLEPixel reads one CPIXEL or full pixel (per useCPixel) from r and
// reconstructs the packed wire-format pixel value the rest of the pipeline
// (canonicalPixel/srcConverter.ExtractRGB) expects.
func readZRLEPixel(r io.Reader, pf *PixelFormat, width int, useCPixel bool) (uint32, error) {
	if !useCPixel {
		buf := make([]byte, width)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}
		if pf.BigEndian {
			switch width {
			case 1:
				return uint32(buf[0]), nil
			case 2:
				return uint32(binary.BigEndian.Uint16(buf)), nil
			default:
				return binary.BigEndian.Uint32(buf), nil
			}
		}
		switch width {
		case 1:
			return uint32(buf[0]), nil
		case 2:
			return uint32(binary.LittleEndian.Uint16(buf)), nil
		default:
			return binary.LittleEndian.Uint32(buf), nil
		}
	}

	var buf [3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	if pf.BigEndian {
		return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16, nil
}

// readRunLength decodes a ZRLE RLE run length: a sequence of 255 bytes, each
// adding 255, terminated by a byte < 255 that contributes its value; the run
// length is 1 + that sum.
func readRunLength(r io.Reader) (int, error) {
	total := 0
	for {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		total += int(b[0])
		if b[0] != 255 {
			return total + 1, nil
		}
	}
}

// Read decodes a ZRLE-compressed rectangle and writes its pixels into the
// framebuffer tile by tile.
func (enc *ZRLEEncoding) Read(c *ClientConn, rect *Rectangle, r io.Reader) (Encoding, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, encodingError("ZRLEEncoding.Read", "failed to read compressed data length", err)
	}

	const maxCompressedLength = 64 * 1024 * 1024
	if length > maxCompressedLength {
		return nil, encodingError("ZRLEEncoding.Read", "compressed rectangle too large", nil)
	}

	inflate, err := c.zlib.beginRectangle(r, int(length))
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	pf := c.PixelFormat
	c.mu.RUnlock()
	pixelWidth, useCPixel := zrleCPixel(&pf)

	readPixel := func() (uint32, error) {
		raw, err := readZRLEPixel(inflate, &pf, pixelWidth, useCPixel)
		if err != nil {
			return 0, encodingError("ZRLEEncoding.Read", "failed to read pixel", err)
		}
		return c.canonicalPixel(raw)
	}

	tile := make([]uint32, zrleTileSize*zrleTileSize)

	for tileY := uint16(0); tileY < rect.Height; tileY += zrleTileSize {
		tileHeight := uint16(zrleTileSize)
		if tileY+tileHeight > rect.Height {
			tileHeight = rect.Height - tileY
		}

		for tileX := uint16(0); tileX < rect.Width; tileX += zrleTileSize {
			tileWidth := uint16(zrleTileSize)
			if tileX+tileWidth > rect.Width {
				tileWidth = rect.Width - tileX
			}

			var subencoding uint8
			if err := binary.Read(inflate, binary.BigEndian, &subencoding); err != nil {
				return nil, encodingError("ZRLEEncoding.Read", "failed to read tile subencoding", err)
			}

			pixelCount := int(tileWidth) * int(tileHeight)

			switch {
			case subencoding == 0: // Raw
				for i := 0; i < pixelCount; i++ {
					pixel, err := readPixel()
					if err != nil {
						return nil, err
					}
					tile[i] = pixel
				}

			case subencoding == 1: // Solid color
				pixel, err := readPixel()
				if err != nil {
					return nil, err
				}
				for i := 0; i < pixelCount; i++ {
					tile[i] = pixel
				}

			case subencoding >= 2 && subencoding <= 16: // Packed palette
				paletteSize := int(subencoding)
				palette := make([]uint32, paletteSize)
				for i := range palette {
					pixel, err := readPixel()
					if err != nil {
						return nil, err
					}
					palette[i] = pixel
				}

				bpp := 4
				switch {
				case paletteSize == 2:
					bpp = 1
				case paletteSize <= 4:
					bpp = 2
				default:
					bpp = 4
				}

				rowBytes := (int(tileWidth)*bpp + 7) / 8
				rowBuf := make([]byte, rowBytes)
				mask := uint8((1 << bpp) - 1)

				for y := 0; y < int(tileHeight); y++ {
					if _, err := io.ReadFull(inflate, rowBuf); err != nil {
						return nil, encodingError("ZRLEEncoding.Read", "failed to read packed palette row", err)
					}
					for x := 0; x < int(tileWidth); x++ {
						bitOffset := x * bpp
						byteIdx := bitOffset / 8
						shift := 8 - bpp - (bitOffset % 8)
						idx := (rowBuf[byteIdx] >> uint(shift)) & mask
						if int(idx) >= paletteSize {
							return nil, protocolError("ZRLEEncoding.Read", "packed palette index out of range", nil)
						}
						tile[y*int(tileWidth)+x] = palette[idx]
					}
				}

			case subencoding == 128: // Plain RLE
				written := 0
				for written < pixelCount {
					pixel, err := readPixel()
					if err != nil {
						return nil, err
					}
					runLen, err := readRunLength(inflate)
					if err != nil {
						return nil, encodingError("ZRLEEncoding.Read", "failed to read run length", err)
					}
					if written+runLen > pixelCount {
						return nil, protocolError("ZRLEEncoding.Read", "run length exceeds tile bounds", nil)
					}
					for i := 0; i < runLen; i++ {
						tile[written+i] = pixel
					}
					written += runLen
				}

			case subencoding >= 130: // Palette RLE
				paletteSize := int(subencoding) - 128
				palette := make([]uint32, paletteSize)
				for i := range palette {
					pixel, err := readPixel()
					if err != nil {
						return nil, err
					}
					palette[i] = pixel
				}

				written := 0
				for written < pixelCount {
					var idxByte [1]byte
					if _, err := io.ReadFull(inflate, idxByte[:]); err != nil {
						return nil, encodingError("ZRLEEncoding.Read", "failed to read palette RLE index", err)
					}

					idx := idxByte[0] & 0x7F
					if int(idx) >= paletteSize {
						return nil, protocolError("ZRLEEncoding.Read", "palette RLE index out of range", nil)
					}
					pixel := palette[idx]

					runLen := 1
					if idxByte[0]&0x80 != 0 {
						var err error
						runLen, err = readRunLength(inflate)
						if err != nil {
							return nil, encodingError("ZRLEEncoding.Read", "failed to read run length", err)
						}
					}
					if written+runLen > pixelCount {
						return nil, protocolError("ZRLEEncoding.Read", "run length exceeds tile bounds", nil)
					}
					for i := 0; i < runLen; i++ {
						tile[written+i] = pixel
					}
					written += runLen
				}

			default: // 17-127, 129: reserved
				return nil, protocolError("ZRLEEncoding.Read", "reserved ZRLE subencoding", nil)
			}

			for y := uint16(0); y < tileHeight; y++ {
				row := tile[int(y)*int(tileWidth) : int(y)*int(tileWidth)+int(tileWidth)]
				if err := c.fb.WriteRow(rect.X+tileX, rect.Y+tileY+y, row); err != nil {
					return nil, err
				}
			}
		}
	}

	return enc, nil
}
