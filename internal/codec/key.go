package codec

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// UnknownWordID is the sentinel word id reserved for tokens absent from a
// trained vocabulary. It is never produced by vocabulary assignment.
const UnknownWordID uint32 = 1<<32 - 1

// EncodeGram1 serializes a unigram key as 4 little-endian bytes.
func EncodeGram1(buf []byte, w1 uint32) []byte {
	buf = buf[:0]
	buf = binary.LittleEndian.AppendUint32(buf, w1)
	return buf
}

// EncodeGram2 serializes a bigram key as 8 little-endian bytes.
func EncodeGram2(buf []byte, w1, w2 uint32) []byte {
	buf = buf[:0]
	buf = binary.LittleEndian.AppendUint32(buf, w1)
	buf = binary.LittleEndian.AppendUint32(buf, w2)
	return buf
}

// EncodeGram3 serializes a trigram key as 12 little-endian bytes.
func EncodeGram3(buf []byte, w1, w2, w3 uint32) []byte {
	buf = buf[:0]
	buf = binary.LittleEndian.AppendUint32(buf, w1)
	buf = binary.LittleEndian.AppendUint32(buf, w2)
	buf = binary.LittleEndian.AppendUint32(buf, w3)
	return buf
}

// Fingerprint returns the 16 low bits of a 64-bit non-cryptographic digest
// over key's serialized bytes. Training and querying must use the same
// digest, which is why this is the only place either path may compute one.
func Fingerprint(key []byte) uint16 {
	return uint16(xxhash.Sum64(key))
}

// Checksum64 returns a 64-bit digest over an arbitrary byte payload, used
// by the training-run checksum (C10).
func Checksum64(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
