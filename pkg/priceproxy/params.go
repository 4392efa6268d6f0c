package priceproxy

import (
	"bytes"

	"github.com/pkg/errors"
)

const (
	SymbolMaxSize = 16
	LogoURLMaxLen = 128
)

const priceFeedParamsSize = 1 + SymbolMaxSize + 1 + 1 + LogoURLMaxLen + 1 + 1

// PriceFeedParams is the configurable portion of a feed, supplied on create
// and alter.
type PriceFeedParams struct {
	FeedType          FeedType
	Symbol            [SymbolMaxSize]byte
	QuoteSymbol       QuoteSymbol
	VerificationLevel WormholeVerificationLevel
	LogoURL           [LogoURLMaxLen]byte
	Source            PriceFeedSource
	TransformSource   PriceFeedSource
}

// NewPriceFeedParams validates the symbol and logo url lengths and packs them
// into their fixed size fields.
func NewPriceFeedParams(
	feedType FeedType,
	symbol string,
	quoteSymbol QuoteSymbol,
	verificationLevel WormholeVerificationLevel,
	logoURL string,
	source PriceFeedSource,
	transformSource PriceFeedSource,
) (PriceFeedParams, error) {
	params := PriceFeedParams{
		FeedType:          feedType,
		QuoteSymbol:       quoteSymbol,
		VerificationLevel: verificationLevel,
		Source:            source,
		TransformSource:   transformSource,
	}

	if len(symbol) > SymbolMaxSize {
		return params, errors.Wrapf(ErrInvalidSymbol, "%q exceeds %d bytes", symbol, SymbolMaxSize)
	}
	if len(logoURL) > LogoURLMaxLen {
		return params, errors.Wrapf(ErrInvalidLogoURL, "%q exceeds %d bytes", logoURL, LogoURLMaxLen)
	}

	copy(params.Symbol[:], symbol)
	copy(params.LogoURL[:], logoURL)

	return params, nil
}

// SymbolString returns the symbol with zero padding stripped.
func (p PriceFeedParams) SymbolString() string {
	return trimZeroes(p.Symbol[:])
}

// LogoURLString returns the logo url with zero padding stripped.
func (p PriceFeedParams) LogoURLString() string {
	return trimZeroes(p.LogoURL[:])
}

func (p PriceFeedParams) marshalInto(dst []byte, offset *int) {
	putUint8(dst, uint8(p.FeedType), offset)
	putBytes(dst, p.Symbol[:], offset)
	putUint8(dst, uint8(p.QuoteSymbol), offset)
	putUint8(dst, uint8(p.VerificationLevel), offset)
	putBytes(dst, p.LogoURL[:], offset)
	putUint8(dst, uint8(p.Source), offset)
	putUint8(dst, uint8(p.TransformSource), offset)
}

func (p *PriceFeedParams) unmarshalFrom(src []byte, offset *int) {
	var raw uint8

	getUint8(src, &raw, offset)
	p.FeedType = feedTypeFromRaw(raw)
	getBytes(src, p.Symbol[:], offset)
	getUint8(src, &raw, offset)
	p.QuoteSymbol = quoteSymbolFromRaw(raw)
	getUint8(src, &raw, offset)
	p.VerificationLevel = wormholeVerificationLevelFromRaw(raw)
	getBytes(src, p.LogoURL[:], offset)
	getUint8(src, &raw, offset)
	p.Source = priceFeedSourceFromRaw(raw)
	getUint8(src, &raw, offset)
	p.TransformSource = priceFeedSourceFromRaw(raw)
}

func trimZeroes(value []byte) string {
	if i := bytes.IndexByte(value, 0); i >= 0 {
		return string(value[:i])
	}
	return string(value)
}
