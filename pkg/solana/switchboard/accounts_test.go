package switchboard

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorAccountRoundTrip(t *testing.T) {
	account := &AggregatorAccount{
		MinOracleResults: 3,
		LatestConfirmedRound: AggregatorRound{
			NumSuccess:    5,
			NumError:      1,
			OpenSlot:      261279633,
			OpenTimestamp: 1714056000,
		},
	}
	account.SetResult(decimal.RequireFromString("68.379655"))

	data, err := account.Marshal()
	require.NoError(t, err)
	require.Len(t, data, AggregatorAccountSize)

	var actual AggregatorAccount
	require.NoError(t, actual.Unmarshal(data))

	assert.EqualValues(t, 3, actual.MinOracleResults)
	assert.EqualValues(t, 5, actual.LatestConfirmedRound.NumSuccess)
	assert.EqualValues(t, 1, actual.LatestConfirmedRound.NumError)
	assert.EqualValues(t, 261279633, actual.LatestConfirmedRound.OpenSlot)
	assert.EqualValues(t, 1714056000, actual.LatestConfirmedRound.OpenTimestamp)

	result, err := actual.Result()
	require.NoError(t, err)
	assert.Equal(t, "68.379655", result.String())
}

func TestAggregatorAccountNegativeResult(t *testing.T) {
	account := &AggregatorAccount{MinOracleResults: 1}
	account.LatestConfirmedRound.NumSuccess = 1
	account.SetResult(decimal.RequireFromString("-0.25"))

	data, err := account.Marshal()
	require.NoError(t, err)

	var actual AggregatorAccount
	require.NoError(t, actual.Unmarshal(data))

	result, err := actual.Result()
	require.NoError(t, err)
	assert.Equal(t, "-0.25", result.String())
}

func TestAggregatorAccountNotEnoughResponses(t *testing.T) {
	account := &AggregatorAccount{MinOracleResults: 3}
	account.LatestConfirmedRound.NumSuccess = 2
	account.SetResult(decimal.NewFromInt(1))

	data, err := account.Marshal()
	require.NoError(t, err)

	var actual AggregatorAccount
	require.NoError(t, actual.Unmarshal(data))

	_, err = actual.Result()
	assert.Equal(t, ErrNoValidResult, err)
}

func TestAggregatorAccountInvalidData(t *testing.T) {
	var account AggregatorAccount
	assert.Equal(t, ErrInvalidAccountData, account.Unmarshal(nil))
	assert.Equal(t, ErrInvalidAccountData, account.Unmarshal(make([]byte, AggregatorAccountSize)))
	assert.Equal(t, ErrInvalidAccountData, account.Unmarshal(make([]byte, AggregatorAccountSize-1)))
}

func TestAggregatorStaleness(t *testing.T) {
	account := &AggregatorAccount{}
	account.LatestConfirmedRound.OpenTimestamp = 1000

	assert.EqualValues(t, 60, account.Staleness(1060))
	assert.EqualValues(t, 0, account.Staleness(1000))
}

func TestProgramKey(t *testing.T) {
	require.Len(t, []byte(ProgramKey), 32)
	assert.Equal(t, "SW1TCH7qEPTdLsDHRcLVscGTk4qStAPPbMLGZfPpQjH", base58.Encode(ProgramKey))
}
