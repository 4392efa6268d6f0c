package priceproxy

import (
	"crypto/ed25519"

	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// WritePriceInstructionArgs is the data payload of WritePrice.
type WritePriceInstructionArgs struct {
	Price decimal.Decimal

	// PriceTimestamp is the UTC unix timestamp the price was born at.
	PriceTimestamp int64
}

func (a *WritePriceInstructionArgs) Marshal() ([]byte, error) {
	data := make([]byte, 1+16+8)

	var offset int
	putUint8(data, uint8(InstructionTypeWritePrice), &offset)
	if err := putDecimal(data, a.Price, &offset); err != nil {
		return nil, err
	}
	putInt64(data, a.PriceTimestamp, &offset)

	return data, nil
}

func (a *WritePriceInstructionArgs) Unmarshal(data []byte) error {
	if len(data) != 1+16+8 || GetInstructionType(data) != InstructionTypeWritePrice {
		return ErrInvalidInstructionData
	}

	offset := 1
	getDecimal(data, &a.Price, &offset)
	getInt64(data, &a.PriceTimestamp, &offset)

	return nil
}

// NewWritePriceInstruction publishes a price into an off-chain sourced feed.
func NewWritePriceInstruction(
	priceFeed ed25519.PublicKey,
	authority ed25519.PublicKey,
	price decimal.Decimal,
	priceTimestamp int64,
) (solana.Instruction, error) {
	args := WritePriceInstructionArgs{
		Price:          price,
		PriceTimestamp: priceTimestamp,
	}

	data, err := args.Marshal()
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(priceFeed, false),
		solana.NewReadonlyAccountMeta(authority, true),
	), nil
}
