package superlendy

import (
	"crypto/ed25519"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

const refreshReserveInstruction = 4

// NewRefreshReserveInstruction recalculates the reserve's rates and LP token
// market price from its market price feed. A stale reserve must be refreshed
// before its price can be read.
func NewRefreshReserveInstruction(reserve, marketPriceFeed, irm ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{refreshReserveInstruction},
		solana.NewAccountMeta(reserve, false),
		solana.NewReadonlyAccountMeta(marketPriceFeed, false),
		solana.NewReadonlyAccountMeta(irm, false),
	)
}
