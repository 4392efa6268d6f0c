package priceproxy

import (
	"bytes"
	"crypto/ed25519"

	"github.com/shopspring/decimal"

	binutil "github.com/texture-fi/price-proxy/pkg/solana/binary"
)

// PriceFeedAccountSize is the fixed account layout size.
const PriceFeedAccountSize = 304

// PriceFeedVersion is written on init and checked on every unmarshal.
const PriceFeedVersion = 1

var PriceFeedDiscriminator = []byte("PRICEEED")

const priceFeedReservedSize = 16

// PriceFeed is the on-chain record a single feed lives in.
type PriceFeed struct {
	Version           uint8
	FeedType          FeedType
	QuoteSymbol       QuoteSymbol
	VerificationLevel WormholeVerificationLevel
	Source            PriceFeedSource
	TransformSource   PriceFeedSource

	SourceAddress          ed25519.PublicKey
	TransformSourceAddress ed25519.PublicKey

	Symbol  [SymbolMaxSize]byte
	LogoURL [LogoURLMaxLen]byte

	UpdateAuthority ed25519.PublicKey

	UpdateTimestamp int64
	UpdateSlot      uint64

	price decimal.Decimal
}

// NewPriceFeed initializes a feed record with a zero price.
func NewPriceFeed(params PriceFeedParams, updateAuthority, sourceAddress, transformSourceAddress ed25519.PublicKey) *PriceFeed {
	return &PriceFeed{
		Version:           PriceFeedVersion,
		FeedType:          params.FeedType,
		QuoteSymbol:       params.QuoteSymbol,
		VerificationLevel: params.VerificationLevel,
		Source:            params.Source,
		TransformSource:   params.TransformSource,

		SourceAddress:          sourceAddress,
		TransformSourceAddress: transformSourceAddress,

		Symbol:  params.Symbol,
		LogoURL: params.LogoURL,

		UpdateAuthority: updateAuthority,
	}
}

// Apply overwrites the configurable portion of the feed, keeping the stored
// price and timestamps.
func (p *PriceFeed) Apply(params PriceFeedParams, sourceAddress, transformSourceAddress ed25519.PublicKey) {
	p.FeedType = params.FeedType
	p.QuoteSymbol = params.QuoteSymbol
	p.VerificationLevel = params.VerificationLevel
	p.Source = params.Source
	p.TransformSource = params.TransformSource
	p.Symbol = params.Symbol
	p.LogoURL = params.LogoURL
	p.SourceAddress = sourceAddress
	p.TransformSourceAddress = transformSourceAddress
}

// Price returns the stored price.
func (p *PriceFeed) Price() decimal.Decimal {
	return p.price
}

// SetPrice stores a price along with its born timestamp and the slot it was
// observed at. Fails if the value does not fit the stored fixed point range.
func (p *PriceFeed) SetPrice(price decimal.Decimal, timestamp int64, slot uint64) error {
	var buf [16]byte
	if err := binutil.PutInt128(buf[:], price.Shift(PriceScale).BigInt()); err != nil {
		return err
	}

	p.price = decimal.NewFromBigInt(binutil.GetInt128(buf[:]), -PriceScale)
	p.UpdateTimestamp = timestamp
	p.UpdateSlot = slot

	return nil
}

// SymbolString returns the symbol with zero padding stripped.
func (p *PriceFeed) SymbolString() string {
	return trimZeroes(p.Symbol[:])
}

// LogoURLString returns the logo url with zero padding stripped.
func (p *PriceFeed) LogoURLString() string {
	return trimZeroes(p.LogoURL[:])
}

func (p *PriceFeed) Marshal() []byte {
	data := make([]byte, PriceFeedAccountSize)

	var offset int
	putDiscriminator(data, PriceFeedDiscriminator, &offset)
	putUint8(data, p.Version, &offset)
	offset += 2 // padding
	putUint8(data, uint8(p.FeedType), &offset)
	putUint8(data, uint8(p.QuoteSymbol), &offset)
	putUint8(data, uint8(p.VerificationLevel), &offset)
	putUint8(data, uint8(p.Source), &offset)
	putUint8(data, uint8(p.TransformSource), &offset)
	putKey(data, p.SourceAddress, &offset)
	putKey(data, p.TransformSourceAddress, &offset)
	putBytes(data, p.Symbol[:], &offset)
	putBytes(data, p.LogoURL[:], &offset)
	putKey(data, p.UpdateAuthority, &offset)
	putInt64(data, p.UpdateTimestamp, &offset)
	putUint64(data, p.UpdateSlot, &offset)

	// SetPrice guarantees the stored value round-trips.
	_ = putDecimal(data, p.price, &offset)

	offset += priceFeedReservedSize

	return data
}

func (p *PriceFeed) Unmarshal(data []byte) error {
	if len(data) != PriceFeedAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	discriminator := make([]byte, len(PriceFeedDiscriminator))
	getDiscriminator(data, discriminator, &offset)
	if !bytes.Equal(discriminator, PriceFeedDiscriminator) {
		return ErrInvalidAccountData
	}

	getUint8(data, &p.Version, &offset)
	if p.Version != PriceFeedVersion {
		return ErrInvalidAccountData
	}
	offset += 2 // padding

	var raw uint8
	getUint8(data, &raw, &offset)
	p.FeedType = feedTypeFromRaw(raw)
	getUint8(data, &raw, &offset)
	p.QuoteSymbol = quoteSymbolFromRaw(raw)
	getUint8(data, &raw, &offset)
	p.VerificationLevel = wormholeVerificationLevelFromRaw(raw)
	getUint8(data, &raw, &offset)
	p.Source = priceFeedSourceFromRaw(raw)
	getUint8(data, &raw, &offset)
	p.TransformSource = priceFeedSourceFromRaw(raw)

	getKey(data, &p.SourceAddress, &offset)
	getKey(data, &p.TransformSourceAddress, &offset)
	getBytes(data, p.Symbol[:], &offset)
	getBytes(data, p.LogoURL[:], &offset)
	getKey(data, &p.UpdateAuthority, &offset)
	getInt64(data, &p.UpdateTimestamp, &offset)
	getUint64(data, &p.UpdateSlot, &offset)
	getDecimal(data, &p.price, &offset)

	return nil
}
