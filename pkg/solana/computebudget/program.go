// Package computebudget provides instruction builders for the compute budget
// program.
package computebudget

import (
	"encoding/binary"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

var ProgramKey = solana.MustPublicKeyFromString("ComputeBudget111111111111111111111111111111")

const (
	commandSetComputeUnitLimit = 2
	commandSetComputeUnitPrice = 3
)

func SetComputeUnitLimit(limit uint32) solana.Instruction {
	data := make([]byte, 5)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], limit)

	return solana.NewInstruction(ProgramKey, data)
}

// SetComputeUnitPrice sets the priority fee in micro lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], microLamports)

	return solana.NewInstruction(ProgramKey, data)
}
