// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestZlibStream_PersistsAcrossRectangles verifies the shared inflate
// context survives across multiple beginRectangle calls, matching the
// server's single continuous deflate stream for the connection.
func TestZlibStream_PersistsAcrossRectangles(t *testing.T) {
	want := append([]byte("first-rectangle-"), []byte("second-rectangle")...)

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	_, err := w.Write(want)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	compressedBytes := compressed.Bytes()
	splitAt := len(compressedBytes) / 2
	firstChunk := compressedBytes[:splitAt]
	secondChunk := compressedBytes[splitAt:]

	stream := newZlibStream()

	r1 := bytes.NewReader(firstChunk)
	inflate, err := stream.beginRectangle(r1, len(firstChunk))
	require.NoError(t, err)

	r2 := bytes.NewReader(secondChunk)
	inflate2, err := stream.beginRectangle(r2, len(secondChunk))
	require.NoError(t, err)
	require.Same(t, inflate, inflate2)

	got, err := io.ReadAll(inflate2)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestZlibStream_RejectsShortRead(t *testing.T) {
	stream := newZlibStream()

	shortReader := bytes.NewReader([]byte{0x01, 0x02})
	_, err := stream.beginRectangle(shortReader, 10)
	require.Error(t, err)
}
