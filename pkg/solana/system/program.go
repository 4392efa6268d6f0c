// Package system provides instruction builders for the system program.
package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// ProgramKey is the address of the system program (all zeros).
var ProgramKey [ed25519.PublicKeySize]byte

type command uint32

const (
	commandCreateAccount command = iota
	commandAssign
	commandTransfer
)

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(subsidizer, account, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	data := make([]byte, 4+8+8+32)
	binary.LittleEndian.PutUint32(data, uint32(commandCreateAccount))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[12:], size)
	copy(data[20:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(subsidizer, true),
		solana.NewAccountMeta(account, true),
	)
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L82-L88
func Transfer(sender, dest ed25519.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, uint32(commandTransfer))
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(sender, true),
		solana.NewAccountMeta(dest, false),
	)
}
