package priceproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFeedSourceFromString(t *testing.T) {
	for value, expected := range map[string]PriceFeedSource{
		"o":           SourceOffChain,
		"off-chain":   SourceOffChain,
		"OffChain":    SourceOffChain,
		"p":           SourcePyth,
		"Pyth":        SourcePyth,
		"s":           SourceSwitchboard,
		"switchboard": SourceSwitchboard,
		"l":           SourceSuperLendy,
		"super-lendy": SourceSuperLendy,
		"superlendy":  SourceSuperLendy,
		"st":          SourceStakePool,
		"stake-pool":  SourceStakePool,
		"StakePool":   SourceStakePool,
	} {
		actual, err := PriceFeedSourceFromString(value)
		require.NoError(t, err, value)
		assert.Equal(t, expected, actual, value)
	}

	_, err := PriceFeedSourceFromString("unknown")
	assert.Error(t, err)
	_, err = PriceFeedSourceFromString("")
	assert.Error(t, err)
}

func TestQuoteSymbolFromString(t *testing.T) {
	for value, expected := range map[string]QuoteSymbol{
		"usd": QuoteSymbolUSD,
		"U":   QuoteSymbolUSD,
		"SOL": QuoteSymbolSOL,
		"s":   QuoteSymbolSOL,
	} {
		actual, err := QuoteSymbolFromString(value)
		require.NoError(t, err, value)
		assert.Equal(t, expected, actual, value)
	}

	_, err := QuoteSymbolFromString("eur")
	assert.Error(t, err)
}

func TestWormholeVerificationLevelFromString(t *testing.T) {
	for value, expected := range map[string]WormholeVerificationLevel{
		"full":    VerificationLevelFull,
		"f":       VerificationLevelFull,
		"Partial": VerificationLevelPartial,
		"p":       VerificationLevelPartial,
	} {
		actual, err := WormholeVerificationLevelFromString(value)
		require.NoError(t, err, value)
		assert.Equal(t, expected, actual, value)
	}

	_, err := WormholeVerificationLevelFromString("half")
	assert.Error(t, err)
}

func TestFeedTypeFromString(t *testing.T) {
	direct, err := FeedTypeFromString("Direct")
	require.NoError(t, err)
	assert.Equal(t, FeedTypeDirect, direct)

	transform, err := FeedTypeFromString("transform")
	require.NoError(t, err)
	assert.Equal(t, FeedTypeTransform, transform)

	_, err = FeedTypeFromString("composite")
	assert.Error(t, err)
}

func TestRawDecodeFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, SourceUnknown, priceFeedSourceFromRaw(200))
	assert.Equal(t, SourceStakePool, priceFeedSourceFromRaw(5))
	assert.Equal(t, FeedTypeDirect, feedTypeFromRaw(9))
	assert.Equal(t, QuoteSymbolUSD, quoteSymbolFromRaw(7))
	assert.Equal(t, VerificationLevelFull, wormholeVerificationLevelFromRaw(3))
}

func TestSourceStrings(t *testing.T) {
	assert.Equal(t, "Pyth", SourcePyth.String())
	assert.Equal(t, "Unknown", SourceUnknown.String())
	assert.Equal(t, "Transform", FeedTypeTransform.String())
	assert.Equal(t, "USD", QuoteSymbolUSD.String())
	assert.Equal(t, "Partial", VerificationLevelPartial.String())
}
