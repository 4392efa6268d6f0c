package priceproxy

import (
	"crypto/ed25519"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// AlterPriceFeedInstructionArgs is the data payload of AlterPriceFeed.
type AlterPriceFeedInstructionArgs struct {
	Params PriceFeedParams
}

func (a *AlterPriceFeedInstructionArgs) Marshal() []byte {
	data := make([]byte, 1+priceFeedParamsSize)

	var offset int
	putUint8(data, uint8(InstructionTypeAlterPriceFeed), &offset)
	a.Params.marshalInto(data, &offset)

	return data
}

func (a *AlterPriceFeedInstructionArgs) Unmarshal(data []byte) error {
	if len(data) != 1+priceFeedParamsSize || GetInstructionType(data) != InstructionTypeAlterPriceFeed {
		return ErrInvalidInstructionData
	}

	offset := 1
	a.Params.unmarshalFrom(data, &offset)

	return nil
}

// NewAlterPriceFeedInstruction overwrites a feed's configuration. Only the
// update authority may submit it.
func NewAlterPriceFeedInstruction(
	priceFeed ed25519.PublicKey,
	authority ed25519.PublicKey,
	sourceAddress ed25519.PublicKey,
	transformSourceAddress ed25519.PublicKey,
	params PriceFeedParams,
) solana.Instruction {
	args := AlterPriceFeedInstructionArgs{Params: params}

	return solana.NewInstruction(
		ProgramKey,
		args.Marshal(),
		solana.NewAccountMeta(priceFeed, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(sourceAddress, false),
		solana.NewAccountMeta(transformSourceAddress, false),
	)
}
