package priceproxy

import (
	"github.com/shopspring/decimal"

	binutil "github.com/texture-fi/price-proxy/pkg/solana/binary"
)

// PriceScale is the fixed point scale prices are stored at on chain.
const PriceScale = 18

// putDecimal encodes a price as a scale 18 signed 128 bit integer.
func putDecimal(dst []byte, v decimal.Decimal, offset *int) error {
	if err := binutil.PutInt128(dst[*offset:], v.Shift(PriceScale).BigInt()); err != nil {
		return err
	}
	*offset += 16
	return nil
}

func getDecimal(src []byte, dst *decimal.Decimal, offset *int) {
	*dst = decimal.NewFromBigInt(binutil.GetInt128(src[*offset:]), -PriceScale)
	*offset += 16
}
