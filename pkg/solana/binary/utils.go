// Package binary provides little endian codec helpers for fixed layout
// account types that the Go standard library does not cover.
package binary

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrInt128Overflow indicates a value does not fit in a signed 128 bit
// integer.
var ErrInt128Overflow = errors.New("value overflows int128")

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// GetInt128 decodes a two's complement little endian signed 128 bit integer.
func GetInt128(src []byte) *big.Int {
	buf := make([]byte, 16)
	for i := 0; i < 16; i++ {
		buf[i] = src[15-i]
	}

	value := new(big.Int).SetBytes(buf)
	if buf[0]&0x80 != 0 {
		value.Sub(value, two128)
	}

	return value
}

// PutInt128 encodes a signed integer as two's complement little endian into a
// 16 byte destination.
func PutInt128(dst []byte, value *big.Int) error {
	if value.BitLen() > 127 && value.Cmp(minInt128) != 0 {
		return ErrInt128Overflow
	}

	encoded := value
	if value.Sign() < 0 {
		encoded = new(big.Int).Add(value, two128)
	}

	buf := encoded.Bytes()
	for i := range dst[:16] {
		dst[i] = 0
	}
	for i := 0; i < len(buf); i++ {
		dst[i] = buf[len(buf)-1-i]
	}

	return nil
}
