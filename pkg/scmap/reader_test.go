package scmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestReader_TypedReads(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteByte(0x7F)
	binary.Write(buf, binary.LittleEndian, uint16(0xBEEF))
	binary.Write(buf, binary.LittleEndian, uint32(0xDEADBEEF))
	binary.Write(buf, binary.LittleEndian, float32(2.5))

	r := NewReader(buf.Bytes())

	b, err := r.Byte("byte")
	if err != nil || b != 0x7F {
		t.Errorf("Byte: got %v, %v", b, err)
	}
	u16, err := r.Uint16("u16")
	if err != nil || u16 != 0xBEEF {
		t.Errorf("Uint16: got %v, %v", u16, err)
	}
	u32, err := r.Uint32("u32")
	if err != nil || u32 != 0xDEADBEEF {
		t.Errorf("Uint32: got %v, %v", u32, err)
	}
	f, err := r.Float32("f32")
	if err != nil || f != 2.5 {
		t.Errorf("Float32: got %v, %v", f, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected empty reader, %d bytes remain", r.Remaining())
	}
}

func TestReader_OffsetAdvances(t *testing.T) {
	r := NewReader(make([]byte, 16))

	if r.Offset() != 0 {
		t.Fatalf("fresh reader offset = %d", r.Offset())
	}
	r.Byte("b")
	if r.Offset() != 1 {
		t.Errorf("after Byte: offset = %d, want 1", r.Offset())
	}
	r.Uint32("u")
	if r.Offset() != 5 {
		t.Errorf("after Uint32: offset = %d, want 5", r.Offset())
	}
	r.Skip(3, "pad")
	if r.Offset() != 8 {
		t.Errorf("after Skip(3): offset = %d, want 8", r.Offset())
	}
}

func TestReader_TruncationReportsFieldAndOffset(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.Uint16("first"); err != nil {
		t.Fatalf("Uint16: %v", err)
	}

	_, err := r.Uint32("map width")
	if err == nil {
		t.Fatal("expected truncation error")
	}
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("error does not unwrap to ErrTruncatedData: %v", err)
	}
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("error is not a *TruncatedError: %v", err)
	}
	if te.Field != "map width" {
		t.Errorf("Field = %q, want %q", te.Field, "map width")
	}
	if te.Offset != 2 {
		t.Errorf("Offset = %d, want 2", te.Offset)
	}
}

func TestReader_FailedReadDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.Uint32("u"); err == nil {
		t.Fatal("expected truncation error")
	}
	// Cursor stays put so a later error report sees the true offset.
	if r.Offset() != 0 {
		t.Errorf("offset advanced past failed read: %d", r.Offset())
	}
}

func TestReader_Uint16Grid(t *testing.T) {
	buf := new(bytes.Buffer)
	for i := uint16(0); i < 6; i++ {
		binary.Write(buf, binary.LittleEndian, i*100)
	}

	r := NewReader(buf.Bytes())
	grid, err := r.Uint16Grid(2, 3, "grid")
	if err != nil {
		t.Fatalf("Uint16Grid: %v", err)
	}
	if len(grid) != 6 {
		t.Fatalf("grid length = %d, want 6", len(grid))
	}
	for i, v := range grid {
		if v != uint16(i*100) {
			t.Errorf("grid[%d] = %d, want %d", i, v, i*100)
		}
	}
}

func TestReader_Uint16GridTruncated(t *testing.T) {
	r := NewReader(make([]byte, 10))
	if _, err := r.Uint16Grid(3, 3, "grid"); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestReader_String(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(5))
	buf.WriteString("hello")
	binary.Write(buf, binary.LittleEndian, uint32(0))

	r := NewReader(buf.Bytes())
	s, err := r.String("greeting")
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if s != "hello" {
		t.Errorf("got %q, want %q", s, "hello")
	}

	empty, err := r.String("empty")
	if err != nil {
		t.Fatalf("empty String: %v", err)
	}
	if empty != "" {
		t.Errorf("got %q, want empty string", empty)
	}
}

func TestReader_StringTruncatedBody(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(100))
	buf.WriteString("short")

	r := NewReader(buf.Bytes())
	_, err := r.String("path")
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}
