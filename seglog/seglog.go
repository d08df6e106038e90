package seglog

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the per-record compression algorithm.
type Compression uint8

const (
	// CompressionNone stores segments raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses ZSTD block compression (better ratio).
	CompressionZstd Compression = 2
)

const (
	version = 1

	// Header: magic (4) + version (1) + compression (1) + start (8) + stop (8).
	headerSize = 22

	// Record header: segmentLow (8) + rawLen (4) + compLen (4) + crc (4).
	recordHeaderSize = 20

	// maxSegmentBytes bounds the length fields of a record; the sieve
	// never emits segments above 4096 KiB.
	maxSegmentBytes = 4096 * 1024
)

var magic = [4]byte{'P', 'S', 'E', 'G'}

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// ZSTD encoder/decoder pools for efficiency.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Writer writes a segment log to an underlying io.Writer.
type Writer struct {
	w           io.Writer
	compression Compression
	scratch     []byte
}

// NewWriter writes the log header for the sieved range [start, stop] and
// returns a Writer for its segments.
func NewWriter(w io.Writer, start, stop uint64, compression Compression) (*Writer, error) {
	if compression > CompressionZstd {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}

	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[4] = version
	header[5] = byte(compression)
	binary.LittleEndian.PutUint64(header[6:], start)
	binary.LittleEndian.PutUint64(header[14:], stop)
	if _, err := w.Write(header); err != nil {
		return nil, err
	}

	return &Writer{w: w, compression: compression}, nil
}

// WriteSegment appends one sieved segment to the log.
// Record format: [SegmentLow: 8][RawLen: 4][CompLen: 4][CRC32C: 4][Payload].
// CompLen == RawLen marks a raw payload, which is also the fallback when
// compression does not help.
func (w *Writer) WriteSegment(segmentLow uint64, sieve []byte) error {
	payload, err := w.compress(sieve)
	if err != nil {
		return err
	}

	header := make([]byte, recordHeaderSize)
	binary.LittleEndian.PutUint64(header[0:], segmentLow)
	binary.LittleEndian.PutUint32(header[8:], uint32(len(sieve)))
	binary.LittleEndian.PutUint32(header[12:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[16:], crc32.Checksum(payload, crc32cTable))

	if _, err := w.w.Write(header); err != nil {
		return err
	}
	_, err = w.w.Write(payload)
	return err
}

func (w *Writer) compress(sieve []byte) ([]byte, error) {
	switch w.compression {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(sieve))
		if cap(w.scratch) < bound {
			w.scratch = make([]byte, bound)
		}
		n, err := lz4.CompressBlock(sieve, w.scratch[:bound], nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(sieve) {
			return sieve, nil // incompressible
		}
		return w.scratch[:n], nil

	case CompressionZstd:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		compressed := enc.EncodeAll(sieve, w.scratch[:0])
		w.scratch = compressed
		if len(compressed) >= len(sieve) {
			return sieve, nil
		}
		return compressed, nil

	default:
		return sieve, nil
	}
}

// Reader replays a segment log.
type Reader struct {
	r           io.Reader
	compression Compression
	start       uint64
	stop        uint64
	payload     []byte
	sieve       []byte
}

// NewReader reads and validates the log header.
func NewReader(r io.Reader) (*Reader, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrCorrupt, err)
	}
	if [4]byte(header[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if header[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrIncompatibleVersion, header[4])
	}
	compression := Compression(header[5])
	if compression > CompressionZstd {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}

	return &Reader{
		r:           r,
		compression: compression,
		start:       binary.LittleEndian.Uint64(header[6:]),
		stop:        binary.LittleEndian.Uint64(header[14:]),
	}, nil
}

// Start returns the lower bound of the sieved range.
func (r *Reader) Start() uint64 { return r.start }

// Stop returns the upper bound of the sieved range.
func (r *Reader) Stop() uint64 { return r.stop }

// Next returns the next segment in the log. The returned buffer is only
// valid until the following Next call. io.EOF signals a clean end of the
// log.
func (r *Reader) Next() (segmentLow uint64, sieve []byte, err error) {
	header := make([]byte, recordHeaderSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("%w: short record header: %w", ErrCorrupt, err)
	}

	segmentLow = binary.LittleEndian.Uint64(header[0:])
	rawLen := binary.LittleEndian.Uint32(header[8:])
	compLen := binary.LittleEndian.Uint32(header[12:])
	crc := binary.LittleEndian.Uint32(header[16:])

	if rawLen == 0 || rawLen > maxSegmentBytes || compLen > maxSegmentBytes {
		return 0, nil, fmt.Errorf("%w: implausible record length", ErrCorrupt)
	}

	if cap(r.payload) < int(compLen) {
		r.payload = make([]byte, compLen)
	}
	payload := r.payload[:compLen]
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return 0, nil, fmt.Errorf("%w: short record payload: %w", ErrCorrupt, err)
	}
	if crc32.Checksum(payload, crc32cTable) != crc {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	sieve, err = r.decompress(payload, rawLen)
	if err != nil {
		return 0, nil, err
	}
	return segmentLow, sieve, nil
}

func (r *Reader) decompress(payload []byte, rawLen uint32) ([]byte, error) {
	if uint32(len(payload)) == rawLen {
		return payload, nil
	}

	if cap(r.sieve) < int(rawLen) {
		r.sieve = make([]byte, rawLen)
	}
	sieve := r.sieve[:rawLen]

	switch r.compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, sieve)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return sieve, nil

	case CompressionZstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		decoded, err := dec.DecodeAll(payload, sieve[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != rawLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		r.sieve = decoded
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: compressed payload in uncompressed log", ErrCorrupt)
	}
}
