// Package shortvec implements the compact-u16 length encoding used in
// serialized Solana transaction messages.
//
// Reference: https://docs.solana.com/developing/programming-model/transactions#compact-u16-format
package shortvec

import (
	"io"

	"github.com/pkg/errors"
)

// EncodeLen encodes len into w.
func EncodeLen(w io.Writer, len int) (n int, err error) {
	if len > (1<<16 - 1) {
		return 0, errors.Errorf("len exceeds %d", 1<<16-1)
	}

	valBuf := make([]byte, 1)
	remLen := len
	for {
		val := remLen & 0x7f
		remLen >>= 7
		if remLen == 0 {
			valBuf[0] = byte(val)
			if _, err := w.Write(valBuf); err != nil {
				return n, err
			}
			n++
			return n, nil
		}

		val |= 0x80
		valBuf[0] = byte(val)
		if _, err := w.Write(valBuf); err != nil {
			return n, err
		}
		n++
	}
}

// DecodeLen decodes a shortvec encoded len from r.
func DecodeLen(r io.Reader) (int, error) {
	var offset, val int

	valBuf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, valBuf); err != nil {
			return 0, err
		}

		val |= int(valBuf[0]&0x7f) << (offset * 7)
		offset++

		if valBuf[0]&0x80 == 0 {
			break
		}
	}

	if offset > 3 {
		return 0, errors.Errorf("invalid size: %d (max 3)", offset)
	}

	return val, nil
}
