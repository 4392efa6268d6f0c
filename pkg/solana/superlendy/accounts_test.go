package superlendy

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveRoundTrip(t *testing.T) {
	reserve := &Reserve{
		Version: ReserveVersion,
		LastUpdate: LastUpdate{
			Slot:      261279633,
			Timestamp: 1714056000,
		},
	}
	reserve.SetLpMarketPrice(decimal.RequireFromString("1.042117342562930713"))

	data, err := reserve.Marshal()
	require.NoError(t, err)

	var actual Reserve
	require.NoError(t, actual.Unmarshal(data))

	assert.Equal(t, reserve.LastUpdate, actual.LastUpdate)
	assert.Equal(t, "1.042117342562930713", actual.LpMarketPrice().String())
}

func TestReserveStaleFlag(t *testing.T) {
	reserve := &Reserve{
		Version:    ReserveVersion,
		LastUpdate: LastUpdate{Stale: true},
	}

	data, err := reserve.Marshal()
	require.NoError(t, err)

	var actual Reserve
	require.NoError(t, actual.Unmarshal(data))
	assert.True(t, actual.LastUpdate.Stale)
}

func TestReserveInvalidData(t *testing.T) {
	var reserve Reserve
	assert.Error(t, reserve.Unmarshal(nil))
	assert.Error(t, reserve.Unmarshal(make([]byte, reserveHeaderSize)))

	valid, err := (&Reserve{Version: ReserveVersion}).Marshal()
	require.NoError(t, err)

	badVersion := append([]byte(nil), valid...)
	badVersion[versionOffset] = 9
	assert.Error(t, reserve.Unmarshal(badVersion))
}

func TestReserveConfigKeys(t *testing.T) {
	marketPriceFeed, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	irm, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	reserve := &Reserve{
		Version:         ReserveVersion,
		MarketPriceFeed: marketPriceFeed,
		Irm:             irm,
	}

	data, err := reserve.Marshal()
	require.NoError(t, err)

	var actual Reserve
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, marketPriceFeed, actual.MarketPriceFeed)
	assert.Equal(t, irm, actual.Irm)
}
