// Package superlendy provides read access to SuperLendy reserve accounts.
package superlendy

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/solana"
	binutil "github.com/texture-fi/price-proxy/pkg/solana/binary"
)

// ProgramKey is the SuperLendy lending program.
var ProgramKey = solana.MustPublicKeyFromString("sUperbZBsdZa5Bz1BbEvdGeFhHiZegNBmNgrUDuWjvW")

var reserveDiscriminator = []byte("RESERVE1")

const ReserveVersion = 1

// Reserve market prices are stored as scale 18 fixed point values.
const marketPriceScale = 18

// Only the header of the reserve is parsed. The remainder holds pool and
// borrow state the price resolution does not touch.
const (
	versionOffset         = 8
	lastUpdateSlotOffset  = 16
	lastUpdateTsOffset    = 24
	lastUpdateStaleOffset = 32
	lpMarketPriceOffset   = 40
	marketPriceFeedOffset = 56
	irmOffset             = 88

	reserveHeaderSize = 120
)

var ErrInvalidAccountData = errors.New("invalid account data")

// LastUpdate tracks when a reserve was last refreshed.
type LastUpdate struct {
	Slot      uint64
	Timestamp int64
	Stale     bool
}

// Reserve is the subset of a SuperLendy reserve needed to resolve the LP
// token market price and to refresh it.
type Reserve struct {
	Version    uint8
	LastUpdate LastUpdate

	// MarketPriceFeed is the price feed the reserve reads its liquidity
	// market price from. Irm is the reserve's interest rate model account.
	MarketPriceFeed ed25519.PublicKey
	Irm             ed25519.PublicKey

	lpMarketPrice *big.Int
}

// SetLpMarketPrice stores the LP token market price.
func (r *Reserve) SetLpMarketPrice(value decimal.Decimal) {
	r.lpMarketPrice = value.Shift(marketPriceScale).Truncate(0).Coefficient()
}

// LpMarketPrice returns the market price of one LP token.
func (r *Reserve) LpMarketPrice() decimal.Decimal {
	return decimal.NewFromBigInt(r.lpMarketPrice, -marketPriceScale)
}

func (r *Reserve) Marshal() ([]byte, error) {
	data := make([]byte, reserveHeaderSize)
	copy(data, reserveDiscriminator)
	data[versionOffset] = r.Version
	binary.LittleEndian.PutUint64(data[lastUpdateSlotOffset:], r.LastUpdate.Slot)
	binary.LittleEndian.PutUint64(data[lastUpdateTsOffset:], uint64(r.LastUpdate.Timestamp))
	if r.LastUpdate.Stale {
		data[lastUpdateStaleOffset] = 1
	}

	price := r.lpMarketPrice
	if price == nil {
		price = new(big.Int)
	}
	if err := binutil.PutInt128(data[lpMarketPriceOffset:], price); err != nil {
		return nil, err
	}

	copy(data[marketPriceFeedOffset:], r.MarketPriceFeed)
	copy(data[irmOffset:], r.Irm)

	return data, nil
}

func (r *Reserve) Unmarshal(data []byte) error {
	if len(data) < reserveHeaderSize {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:8], reserveDiscriminator) {
		return ErrInvalidAccountData
	}
	if data[versionOffset] != ReserveVersion {
		return errors.Wrapf(ErrInvalidAccountData, "unsupported version %d", data[versionOffset])
	}

	r.Version = data[versionOffset]
	r.LastUpdate = LastUpdate{
		Slot:      binary.LittleEndian.Uint64(data[lastUpdateSlotOffset:]),
		Timestamp: int64(binary.LittleEndian.Uint64(data[lastUpdateTsOffset:])),
		Stale:     data[lastUpdateStaleOffset] != 0,
	}
	r.lpMarketPrice = binutil.GetInt128(data[lpMarketPriceOffset:])

	r.MarketPriceFeed = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(r.MarketPriceFeed, data[marketPriceFeedOffset:])
	r.Irm = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(r.Irm, data[irmOffset:])

	return nil
}
