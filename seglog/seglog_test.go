package seglog

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressiblePayload(n int) []byte {
	// A realistic dense sieve segment: mostly set bits.
	return bytes.Repeat([]byte{0xff, 0xef, 0xff, 0x7d}, n/4)
}

func incompressiblePayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	payload := make([]byte, n)
	rng.Read(payload)
	return payload
}

func TestRoundtrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		segments := [][]byte{
			compressiblePayload(1024),
			incompressiblePayload(1024), // forces the raw fallback under compression
			compressiblePayload(64),
		}
		lows := []uint64{0, 30720, 61440}

		var buf bytes.Buffer
		w, err := NewWriter(&buf, 7, 92160, compression)
		require.NoError(t, err)
		for i, seg := range segments {
			require.NoError(t, w.WriteSegment(lows[i], seg))
		}

		r, err := NewReader(&buf)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), r.Start())
		assert.Equal(t, uint64(92160), r.Stop())

		for i := range segments {
			low, sieve, err := r.Next()
			require.NoError(t, err, "record %d, compression %d", i, compression)
			assert.Equal(t, lows[i], low)
			// Copy before the next call invalidates the buffer.
			assert.Equal(t, segments[i], append([]byte(nil), sieve...))
		}
		_, _, err = r.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestRoundtrip_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, CompressionZstd)
	require.NoError(t, err)

	r, err := NewReader(&buf)
	require.NoError(t, err)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewWriter_UnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, Compression(9))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestNewReader_BadMagic(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, CompressionNone)
	require.NoError(t, err)

	data := buf.Bytes()
	data[0] = 'X'
	_, err = NewReader(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNewReader_BadVersion(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, CompressionNone)
	require.NoError(t, err)

	data := buf.Bytes()
	data[4] = 99
	_, err = NewReader(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestNewReader_UnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, CompressionNone)
	require.NoError(t, err)

	data := buf.Bytes()
	data[5] = 9
	_, err = NewReader(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestNewReader_ShortHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{'P', 'S', 'E'}))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNext_FlippedPayloadByte(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 7, 30721, CompressionLZ4)
	require.NoError(t, err)
	require.NoError(t, w.WriteSegment(0, compressiblePayload(1024)))

	data := buf.Bytes()
	data[len(data)-1] ^= 0x01

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNext_TruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 7, 30721, CompressionNone)
	require.NoError(t, err)
	require.NoError(t, w.WriteSegment(0, compressiblePayload(1024)))

	data := buf.Bytes()[:buf.Len()-10]

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNext_ImplausibleLength(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, 7, 100, CompressionNone)
	require.NoError(t, err)

	record := make([]byte, recordHeaderSize)
	binary.LittleEndian.PutUint32(record[8:], 0) // rawLen 0
	buf.Write(record)

	r, err := NewReader(&buf)
	require.NoError(t, err)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCompressionSavesSpace(t *testing.T) {
	seg := compressiblePayload(32 * 1024)

	sizes := make(map[Compression]int)
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, 7, 1<<20, compression)
		require.NoError(t, err)
		require.NoError(t, w.WriteSegment(0, seg))
		sizes[compression] = buf.Len()
	}

	assert.Less(t, sizes[CompressionLZ4], sizes[CompressionNone])
	assert.Less(t, sizes[CompressionZstd], sizes[CompressionNone])
}
