package priceproxy

import (
	"crypto/ed25519"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// UpdatePriceInstructionArgs is the data payload of UpdatePrice.
type UpdatePriceInstructionArgs struct {
	// MaximumAgeSec is how old the source price may be before the update is
	// rejected as stale.
	MaximumAgeSec uint64
}

func (a *UpdatePriceInstructionArgs) Marshal() []byte {
	data := make([]byte, 1+8)

	var offset int
	putUint8(data, uint8(InstructionTypeUpdatePrice), &offset)
	putUint64(data, a.MaximumAgeSec, &offset)

	return data
}

func (a *UpdatePriceInstructionArgs) Unmarshal(data []byte) error {
	if len(data) != 1+8 || GetInstructionType(data) != InstructionTypeUpdatePrice {
		return ErrInvalidInstructionData
	}

	offset := 1
	getUint64(data, &a.MaximumAgeSec, &offset)

	return nil
}

// NewUpdatePriceInstruction refreshes a feed from its on-chain source
// accounts. Anyone may submit it.
func NewUpdatePriceInstruction(
	priceFeed ed25519.PublicKey,
	sourceAddress ed25519.PublicKey,
	transformSourceAddress ed25519.PublicKey,
	maximumAgeSec uint64,
) solana.Instruction {
	args := UpdatePriceInstructionArgs{MaximumAgeSec: maximumAgeSec}

	return solana.NewInstruction(
		ProgramKey,
		args.Marshal(),
		solana.NewAccountMeta(priceFeed, false),
		solana.NewAccountMeta(sourceAddress, false),
		solana.NewAccountMeta(transformSourceAddress, false),
	)
}
