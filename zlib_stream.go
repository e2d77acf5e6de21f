// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"compress/zlib"
	"io"
)

// zlibStream is the persistent inflate context shared by the Zlib and ZRLE
// encodings for the lifetime of a connection (§4.5). The server maintains one
// deflate stream per connection and never resets it between rectangles, so
// every rectangle's compressed bytes must be fed through the same
// zlib.Reader rather than a fresh one each time.
type zlibStream struct {
	pending bytes.Buffer
	inflate io.Reader
}

func newZlibStream() *zlibStream {
	return &zlibStream{}
}

// beginRectangle appends the next length compressed bytes, read from r, to
// the stream and returns the shared decompressor. The caller reads exactly
// as many decompressed bytes as the rectangle's encoding defines; since the
// compressed data for every rectangle on a connection forms one continuous
// deflate stream, under-reading here would desynchronize every subsequent
// rectangle.
func (z *zlibStream) beginRectangle(r io.Reader, length int) (io.Reader, error) {
	if _, err := io.CopyN(&z.pending, r, int64(length)); err != nil {
		return nil, networkError("zlibStream.beginRectangle", "failed to read compressed rectangle data", err)
	}

	if z.inflate == nil {
		inflate, err := zlib.NewReader(&z.pending)
		if err != nil {
			return nil, encodingError("zlibStream.beginRectangle", "failed to initialize zlib stream", err)
		}
		z.inflate = inflate
	}

	return z.inflate, nil
}
