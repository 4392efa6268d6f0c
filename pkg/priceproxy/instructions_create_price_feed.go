package priceproxy

import (
	"crypto/ed25519"

	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/system"
)

// CreatePriceFeedInstructionArgs is the data payload of CreatePriceFeed.
type CreatePriceFeedInstructionArgs struct {
	Params PriceFeedParams
}

func (a *CreatePriceFeedInstructionArgs) Marshal() []byte {
	data := make([]byte, 1+priceFeedParamsSize)

	var offset int
	putUint8(data, uint8(InstructionTypeCreatePriceFeed), &offset)
	a.Params.marshalInto(data, &offset)

	return data
}

func (a *CreatePriceFeedInstructionArgs) Unmarshal(data []byte) error {
	if len(data) != 1+priceFeedParamsSize || GetInstructionType(data) != InstructionTypeCreatePriceFeed {
		return ErrInvalidInstructionData
	}

	offset := 1
	a.Params.unmarshalFrom(data, &offset)

	return nil
}

// NewCreatePriceFeedInstruction initializes a new feed record. The feed
// account must be a fresh system account signing for its own creation and the
// authority funds it.
func NewCreatePriceFeedInstruction(
	priceFeed ed25519.PublicKey,
	authority ed25519.PublicKey,
	sourceAddress ed25519.PublicKey,
	transformSourceAddress ed25519.PublicKey,
	params PriceFeedParams,
) solana.Instruction {
	args := CreatePriceFeedInstructionArgs{Params: params}

	return solana.NewInstruction(
		ProgramKey,
		args.Marshal(),
		solana.NewAccountMeta(priceFeed, true),
		solana.NewAccountMeta(authority, true),
		solana.NewAccountMeta(sourceAddress, false),
		solana.NewAccountMeta(transformSourceAddress, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
