package shortvec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for i := 0; i < 1<<16-1; i += 31 {
		buf := &bytes.Buffer{}

		n, err := EncodeLen(buf, i)
		require.NoError(t, err)

		switch {
		case i < 1<<7:
			assert.Equal(t, 1, n)
		case i < 1<<14:
			assert.Equal(t, 2, n)
		default:
			assert.Equal(t, 3, n)
		}

		actual, err := DecodeLen(buf)
		require.NoError(t, err)
		assert.Equal(t, i, actual)
	}
}

func TestEncodeLenTooLarge(t *testing.T) {
	_, err := EncodeLen(&bytes.Buffer{}, 1<<16)
	assert.Error(t, err)
}

func TestDecodeLenTooLarge(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff})
	_, err := DecodeLen(buf)
	assert.Error(t, err)
}
