package scmap

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TruncatedError reports a read that ran past the end of the buffer.
// Section names the last fully decoded file section ("header", "heightmap",
// "strata"), or is empty when the buffer ended before any section completed.
type TruncatedError struct {
	Section string
	Field   string
	Offset  int
}

func (e *TruncatedError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("truncated SCMap data: reading %s at offset %d (last completed section: %s)",
			e.Field, e.Offset, e.Section)
	}
	return fmt.Sprintf("truncated SCMap data: reading %s at offset %d", e.Field, e.Offset)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncatedData }

// Reader is a bounds-checked cursor over an in-memory buffer.
// The cursor only moves forward, mirroring the strictly sequential
// on-disk layout of SCMap files. All multi-byte reads are little-endian.
type Reader struct {
	data []byte
	off  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current cursor position in bytes.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// take consumes n bytes, failing with a TruncatedError naming the field
// when fewer than n bytes remain.
func (r *Reader) take(n int, field string) ([]byte, error) {
	if r.Remaining() < n {
		return nil, &TruncatedError{Field: field, Offset: r.off}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Byte reads a single byte.
func (r *Reader) Byte(field string) (byte, error) {
	b, err := r.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) Uint16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) Uint32(field string) (uint32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Float32 reads a little-endian 32-bit float.
func (r *Reader) Float32(field string) (float32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// Skip advances the cursor past n bytes without decoding them.
func (r *Reader) Skip(n int, field string) error {
	_, err := r.take(n, field)
	return err
}

// Uint16Grid reads rows*cols little-endian unsigned 16-bit values in
// row-major order.
func (r *Reader) Uint16Grid(rows, cols int, field string) ([]uint16, error) {
	count := rows * cols
	b, err := r.take(count*2, field)
	if err != nil {
		return nil, err
	}
	grid := make([]uint16, count)
	for i := range grid {
		grid[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return grid, nil
}

// String reads a uint32 length prefix followed by that many bytes of UTF-8.
func (r *Reader) String(field string) (string, error) {
	n, err := r.Uint32(field)
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n), field)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
