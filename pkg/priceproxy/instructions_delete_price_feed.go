package priceproxy

import (
	"crypto/ed25519"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// NewDeletePriceFeedInstruction removes a feed, refunding its lamports to the
// update authority.
func NewDeletePriceFeedInstruction(priceFeed, authority ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(InstructionTypeDeletePriceFeed)},
		solana.NewAccountMeta(priceFeed, false),
		solana.NewAccountMeta(authority, true),
	)
}
