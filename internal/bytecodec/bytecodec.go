// Package bytecodec decodes the fixed-width big-endian primitives and
// length-prefixed strings used throughout the EBASE binary format.
package bytecodec

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadU8 reads an unsigned 8-bit integer at offset.
func ReadU8(data []byte, offset int) (uint8, bool) {
	if offset < 0 || offset+1 > len(data) {
		return 0, false
	}
	return data[offset], true
}

// ReadI8 reads a signed 8-bit integer at offset.
func ReadI8(data []byte, offset int) (int8, bool) {
	u, ok := ReadU8(data, offset)
	return int8(u), ok
}

// ReadU16 reads a big-endian unsigned 16-bit integer at offset.
func ReadU16(data []byte, offset int) (uint16, bool) {
	if offset < 0 || offset+2 > len(data) {
		return 0, false
	}
	return binary.BigEndian.Uint16(data[offset : offset+2]), true
}

// ReadI16 reads a big-endian signed 16-bit integer at offset.
func ReadI16(data []byte, offset int) (int16, bool) {
	u, ok := ReadU16(data, offset)
	return int16(u), ok
}

// ReadU32 reads a big-endian unsigned 32-bit integer at offset.
func ReadU32(data []byte, offset int) (uint32, bool) {
	if offset < 0 || offset+4 > len(data) {
		return 0, false
	}
	return binary.BigEndian.Uint32(data[offset : offset+4]), true
}

// ReadI32 reads a big-endian signed 32-bit integer at offset.
func ReadI32(data []byte, offset int) (int32, bool) {
	u, ok := ReadU32(data, offset)
	return int32(u), ok
}

// ReadF32 reads a big-endian IEEE-754 single-precision float at offset.
func ReadF32(data []byte, offset int) (float32, bool) {
	u, ok := ReadU32(data, offset)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(u), true
}

// ReadF64 reads a big-endian IEEE-754 double-precision float at offset.
func ReadF64(data []byte, offset int) (float64, bool) {
	if offset < 0 || offset+8 > len(data) {
		return 0, false
	}
	u := binary.BigEndian.Uint64(data[offset : offset+8])
	return math.Float64frombits(u), true
}

// ReadLengthPrefixedString reads a u16-big-endian length followed by that
// many raw bytes, starting at offset. It returns the decoded string and the
// offset immediately past it. ok is false if the length prefix or the body
// runs past the end of data.
func ReadLengthPrefixedString(data []byte, offset int) (s string, next int, ok bool) {
	length, ok := ReadU16(data, offset)
	if !ok {
		return "", offset, false
	}
	start := offset + 2
	end := start + int(length)
	if end > len(data) {
		return "", offset, false
	}
	return DecodeText(data[start:end]), end, true
}

// DecodeText decodes raw bytes as UTF-8 if valid, otherwise as Latin-1
// (ISO-8859-1, byte-per-rune), stripping trailing NUL bytes either way. This
// is the documented string policy for every text cell in the format: real
// producers occasionally emit Latin-1 article descriptions.
func DecodeText(raw []byte) string {
	raw = bytes.TrimRight(raw, "\x00")
	if len(raw) == 0 {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
