package dataset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
)

// NPY errors.
var (
	ErrInvalidNPY = errors.New("invalid .npy data")
)

var npyMagic = []byte("\x93NUMPY")

// shape "(rows, cols)" inside an npy v1.0 header dict
var npyHeaderRe = regexp.MustCompile(`'descr':\s*'([^']+)',\s*'fortran_order':\s*(True|False),\s*'shape':\s*\((\d+),\s*(\d+)\)`)

// WriteNPY writes a row-major float32 grid as a NumPy .npy (format 1.0)
// file with shape (rows, cols), so heightmap artifacts load directly with
// numpy.load on the training side.
func WriteNPY(path string, rows, cols int, data []float32) error {
	if len(data) != rows*cols {
		return fmt.Errorf("npy shape (%d, %d) does not match %d values", rows, cols, len(data))
	}

	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// Pad so the data block starts on a 64-byte boundary, newline last.
	unpadded := len(npyMagic) + 2 + 2 + len(header) + 1
	padding := (64 - unpadded%64) % 64

	buf := new(bytes.Buffer)
	buf.Grow(unpadded + padding + len(data)*4)
	buf.Write(npyMagic)
	buf.WriteByte(1) // major version
	buf.WriteByte(0) // minor version
	binary.Write(buf, binary.LittleEndian, uint16(len(header)+padding+1))
	buf.WriteString(header)
	for i := 0; i < padding; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteByte('\n')

	raw := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	buf.Write(raw)

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadNPY reads a float32 .npy file written by WriteNPY, returning the
// grid shape and row-major values.
func ReadNPY(path string) (rows, cols int, data []float32, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, nil, err
	}

	if len(raw) < 10 || !bytes.HasPrefix(raw, npyMagic) {
		return 0, 0, nil, fmt.Errorf("%w: missing NUMPY magic", ErrInvalidNPY)
	}
	headerLen := int(binary.LittleEndian.Uint16(raw[8:10]))
	if len(raw) < 10+headerLen {
		return 0, 0, nil, fmt.Errorf("%w: truncated header", ErrInvalidNPY)
	}

	match := npyHeaderRe.FindStringSubmatch(string(raw[10 : 10+headerLen]))
	if match == nil {
		return 0, 0, nil, fmt.Errorf("%w: unparseable header", ErrInvalidNPY)
	}
	if match[1] != "<f4" || match[2] != "False" {
		return 0, 0, nil, fmt.Errorf("%w: unsupported dtype %s (fortran_order %s)",
			ErrInvalidNPY, match[1], match[2])
	}
	rows, _ = strconv.Atoi(match[3])
	cols, _ = strconv.Atoi(match[4])

	body := raw[10+headerLen:]
	if len(body) != rows*cols*4 {
		return 0, 0, nil, fmt.Errorf("%w: body is %d bytes, want %d", ErrInvalidNPY, len(body), rows*cols*4)
	}
	data = make([]float32, rows*cols)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	return rows, cols, data, nil
}
