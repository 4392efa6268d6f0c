package priceproxy

import (
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/system"
)

// NewVersionInstruction reports the deployed contract version. The
// instruction always fails, the version is read from the transaction logs.
func NewVersionInstruction() solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(InstructionTypeVersion)},
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
