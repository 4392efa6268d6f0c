package priceproxy

import (
	"strings"

	"github.com/pkg/errors"
)

// QuoteSymbol is the currency a feed's price is quoted in.
type QuoteSymbol uint8

const (
	QuoteSymbolUSD QuoteSymbol = iota
	QuoteSymbolSOL
)

func (q QuoteSymbol) String() string {
	if q == QuoteSymbolSOL {
		return "SOL"
	}
	return "USD"
}

func QuoteSymbolFromString(value string) (QuoteSymbol, error) {
	switch strings.ToLower(value) {
	case "usd", "u":
		return QuoteSymbolUSD, nil
	case "sol", "s":
		return QuoteSymbolSOL, nil
	}
	return QuoteSymbolUSD, errors.Errorf("`%s` is not a valid quote", value)
}

func quoteSymbolFromRaw(value uint8) QuoteSymbol {
	if value > uint8(QuoteSymbolSOL) {
		return QuoteSymbolUSD
	}
	return QuoteSymbol(value)
}
