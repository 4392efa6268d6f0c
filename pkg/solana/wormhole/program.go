// Package wormhole provides the subset of the Wormhole core bridge needed to
// post and verify encoded Pyth VAAs.
package wormhole

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// ProgramKey is the Wormhole core bridge deployment used by the Pyth receiver.
var ProgramKey = solana.MustPublicKeyFromString("worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth")

// EncodedVaaHeaderSize is the number of bytes the encoded VAA account holds
// before the raw VAA bytes.
const EncodedVaaHeaderSize = 46

var (
	initEncodedVaaInstructionDiscriminator = []byte{
		0xd1, 0xc1, 0xad, 0x19, 0x5b, 0xca, 0xb5, 0xda,
	}
	writeEncodedVaaInstructionDiscriminator = []byte{
		0xc7, 0xd0, 0x6e, 0xb1, 0x96, 0x4c, 0x76, 0x2a,
	}
	verifyEncodedVaaV1InstructionDiscriminator = []byte{
		0x67, 0x38, 0xb1, 0xe5, 0xf0, 0x67, 0x44, 0x49,
	}
	closeEncodedVaaInstructionDiscriminator = []byte{
		0x30, 0x8b, 0x50, 0xe0, 0x47, 0x32, 0xc5, 0x47,
	}
)

func NewInitEncodedVaaInstruction(writeAuthority, encodedVaa ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		initEncodedVaaInstructionDiscriminator,
		solana.NewReadonlyAccountMeta(writeAuthority, true),
		solana.NewAccountMeta(encodedVaa, false),
	)
}

func NewWriteEncodedVaaInstruction(writeAuthority, draftVaa ed25519.PublicKey, index uint32, chunk []byte) solana.Instruction {
	data := make([]byte, len(writeEncodedVaaInstructionDiscriminator)+4+4+len(chunk))
	copy(data, writeEncodedVaaInstructionDiscriminator)
	binary.LittleEndian.PutUint32(data[8:], index)
	binary.LittleEndian.PutUint32(data[12:], uint32(len(chunk)))
	copy(data[16:], chunk)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewReadonlyAccountMeta(writeAuthority, true),
		solana.NewAccountMeta(draftVaa, false),
	)
}

func NewVerifyEncodedVaaV1Instruction(writeAuthority, draftVaa, guardianSet ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		verifyEncodedVaaV1InstructionDiscriminator,
		solana.NewReadonlyAccountMeta(writeAuthority, true),
		solana.NewAccountMeta(draftVaa, false),
		solana.NewReadonlyAccountMeta(guardianSet, false),
	)
}

func NewCloseEncodedVaaInstruction(writeAuthority, encodedVaa ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		closeEncodedVaaInstructionDiscriminator,
		solana.NewAccountMeta(writeAuthority, true),
		solana.NewAccountMeta(encodedVaa, false),
	)
}

// GetGuardianSetAddress derives the guardian set account for the given index.
func GetGuardianSetAddress(index uint32) (ed25519.PublicKey, error) {
	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)

	return solana.FindProgramAddress(
		ProgramKey,
		[]byte("GuardianSet"),
		indexBytes,
	)
}
