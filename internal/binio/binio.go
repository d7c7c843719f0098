// Package binio provides the small set of little-endian, length-prefixed
// primitives the model file format is built from.
package binio

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrTruncated is returned when a buffer ends before a length-prefixed
// field can be fully read.
var ErrTruncated = errors.New("binio: truncated buffer")

// AppendUint16 appends v as 2 little-endian bytes.
func AppendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

// AppendUint32 appends v as 4 little-endian bytes.
func AppendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// AppendUint64 appends v as 8 little-endian bytes.
func AppendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// AppendFloat64 appends v as its 8-byte IEEE-754 bit pattern.
func AppendFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

// AppendBytesLP appends b prefixed by its 64-bit length.
func AppendBytesLP(buf []byte, b []byte) []byte {
	buf = AppendUint64(buf, uint64(len(b)))
	return append(buf, b...)
}

// ReadUint16 reads 2 little-endian bytes, returning the remainder.
func ReadUint16(data []byte) (uint16, []byte, error) {
	if len(data) < 2 {
		return 0, nil, ErrTruncated
	}
	return binary.LittleEndian.Uint16(data), data[2:], nil
}

// ReadUint32 reads 4 little-endian bytes, returning the remainder.
func ReadUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, ErrTruncated
	}
	return binary.LittleEndian.Uint32(data), data[4:], nil
}

// ReadUint64 reads 8 little-endian bytes, returning the remainder.
func ReadUint64(data []byte) (uint64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, ErrTruncated
	}
	return binary.LittleEndian.Uint64(data), data[8:], nil
}

// ReadFloat64 reads an 8-byte IEEE-754 value, returning the remainder.
func ReadFloat64(data []byte) (float64, []byte, error) {
	v, rest, err := ReadUint64(data)
	if err != nil {
		return 0, nil, err
	}
	return math.Float64frombits(v), rest, nil
}

// ReadBytesLP reads a 64-bit-length-prefixed byte string, returning the
// remainder.
func ReadBytesLP(data []byte) ([]byte, []byte, error) {
	n, data, err := ReadUint64(data)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(data)) < n {
		return nil, nil, ErrTruncated
	}
	return data[:n], data[n:], nil
}
