// Package switchboard provides read access to Switchboard v2 aggregator
// accounts.
package switchboard

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/solana"
	binutil "github.com/texture-fi/price-proxy/pkg/solana/binary"
)

// ProgramKey is the Switchboard v2 oracle program.
var ProgramKey = solana.MustPublicKeyFromString("SW1TCH7qEPTdLsDHRcLVscGTk4qStAPPbMLGZfPpQjH")

const AggregatorAccountSize = 3851

var aggregatorAccountDiscriminator = []byte{217, 230, 65, 101, 201, 162, 27, 125}

// Offsets into the aggregator account. The account is a packed C layout, the
// fields before each of these are fixed size.
const (
	minOracleResultsOffset         = 236
	latestRoundNumSuccessOffset    = 341
	latestRoundNumErrorOffset      = 345
	latestRoundOpenSlotOffset      = 350
	latestRoundOpenTimestampOffset = 358
	latestRoundResultOffset        = 366
	latestRoundResultScaleOffset   = 382
)

var (
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrNoValidResult      = errors.New("aggregator has no valid result")
)

// AggregatorRound is the latest confirmed round of an aggregator.
type AggregatorRound struct {
	NumSuccess    uint32
	NumError      uint32
	OpenSlot      uint64
	OpenTimestamp int64

	resultMantissa *big.Int
	resultScale    uint32
}

// AggregatorAccount is the subset of a Switchboard aggregator needed to
// resolve a price.
type AggregatorAccount struct {
	MinOracleResults     uint32
	LatestConfirmedRound AggregatorRound
}

// SetResult stores a result value for the latest confirmed round.
func (a *AggregatorAccount) SetResult(value decimal.Decimal) {
	if value.Exponent() > 0 {
		value = value.RoundBank(0)
	}
	a.LatestConfirmedRound.resultMantissa = value.Coefficient()
	a.LatestConfirmedRound.resultScale = uint32(-value.Exponent())
}

func (a *AggregatorAccount) Marshal() ([]byte, error) {
	data := make([]byte, AggregatorAccountSize)
	copy(data, aggregatorAccountDiscriminator)

	binary.LittleEndian.PutUint32(data[minOracleResultsOffset:], a.MinOracleResults)
	binary.LittleEndian.PutUint32(data[latestRoundNumSuccessOffset:], a.LatestConfirmedRound.NumSuccess)
	binary.LittleEndian.PutUint32(data[latestRoundNumErrorOffset:], a.LatestConfirmedRound.NumError)
	binary.LittleEndian.PutUint64(data[latestRoundOpenSlotOffset:], a.LatestConfirmedRound.OpenSlot)
	binary.LittleEndian.PutUint64(data[latestRoundOpenTimestampOffset:], uint64(a.LatestConfirmedRound.OpenTimestamp))
	binary.LittleEndian.PutUint32(data[latestRoundResultScaleOffset:], a.LatestConfirmedRound.resultScale)

	mantissa := a.LatestConfirmedRound.resultMantissa
	if mantissa == nil {
		mantissa = new(big.Int)
	}
	if err := binutil.PutInt128(data[latestRoundResultOffset:], mantissa); err != nil {
		return nil, err
	}

	return data, nil
}

func (a *AggregatorAccount) Unmarshal(data []byte) error {
	if len(data) != AggregatorAccountSize {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:8], aggregatorAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	a.MinOracleResults = binary.LittleEndian.Uint32(data[minOracleResultsOffset:])
	a.LatestConfirmedRound = AggregatorRound{
		NumSuccess:     binary.LittleEndian.Uint32(data[latestRoundNumSuccessOffset:]),
		NumError:       binary.LittleEndian.Uint32(data[latestRoundNumErrorOffset:]),
		OpenSlot:       binary.LittleEndian.Uint64(data[latestRoundOpenSlotOffset:]),
		OpenTimestamp:  int64(binary.LittleEndian.Uint64(data[latestRoundOpenTimestampOffset:])),
		resultMantissa: binutil.GetInt128(data[latestRoundResultOffset:]),
		resultScale:    binary.LittleEndian.Uint32(data[latestRoundResultScaleOffset:]),
	}

	return nil
}

// Result returns the latest confirmed value, provided enough oracles agreed
// on it.
func (a *AggregatorAccount) Result() (decimal.Decimal, error) {
	if a.LatestConfirmedRound.NumSuccess < a.MinOracleResults {
		return decimal.Decimal{}, ErrNoValidResult
	}

	return decimal.NewFromBigInt(
		a.LatestConfirmedRound.resultMantissa,
		-int32(a.LatestConfirmedRound.resultScale),
	), nil
}

// Staleness returns how many seconds have passed since the latest confirmed
// round opened.
func (a *AggregatorAccount) Staleness(now int64) int64 {
	return now - a.LatestConfirmedRound.OpenTimestamp
}
