package binary

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt128RoundTrip(t *testing.T) {
	for _, tc := range []string{
		"0",
		"1",
		"-1",
		"1020000000000000000",
		"-340199208880523866902809920",
		"170141183460469231731687303715884105727",  // max int128
		"-170141183460469231731687303715884105728", // min int128
	} {
		value, ok := new(big.Int).SetString(tc, 10)
		require.True(t, ok)

		var buf [16]byte
		require.NoError(t, PutInt128(buf[:], value))
		assert.Equal(t, tc, GetInt128(buf[:]).String())
	}
}

func TestPutInt128Overflow(t *testing.T) {
	value, ok := new(big.Int).SetString("170141183460469231731687303715884105728", 10)
	require.True(t, ok)

	var buf [16]byte
	assert.Equal(t, ErrInt128Overflow, PutInt128(buf[:], value))
}
