package priceproxy

import (
	"crypto/ed25519"
	"encoding/binary"
)

func putDiscriminator(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += len(v)
}

func getDiscriminator(src []byte, dst []byte, offset *int) {
	copy(dst, src[*offset:*offset+len(dst)])
	*offset += len(dst)
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}

func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset++
}

func getUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset++
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func putInt64(dst []byte, v int64, offset *int) {
	putUint64(dst, uint64(v), offset)
}

func getInt64(src []byte, dst *int64, offset *int) {
	*dst = int64(binary.LittleEndian.Uint64(src[*offset:]))
	*offset += 8
}

func putBytes(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += len(v)
}

func getBytes(src []byte, dst []byte, offset *int) {
	copy(dst, src[*offset:*offset+len(dst)])
	*offset += len(dst)
}
