package pyth

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/system"
)

// ProgramKey is the Pyth Solana receiver program.
var ProgramKey = solana.MustPublicKeyFromString("rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ")

var (
	postUpdateInstructionDiscriminator = []byte{
		0x85, 0x5f, 0xcf, 0xaf, 0x0b, 0x4f, 0x76, 0x2c,
	}
	postUpdateAtomicInstructionDiscriminator = []byte{
		0x31, 0xac, 0x54, 0xc0, 0xaf, 0xb4, 0x34, 0xea,
	}
	reclaimRentInstructionDiscriminator = []byte{
		0xda, 0xc8, 0x13, 0xc5, 0xe3, 0x59, 0xc0, 0x16,
	}
)

// MerklePriceUpdate is a price update message plus the hashes proving its
// membership in the accumulator tree.
type MerklePriceUpdate struct {
	Message []byte
	Proof   [][20]byte
}

func (m MerklePriceUpdate) marshalSize() int {
	return 4 + len(m.Message) + 4 + 20*len(m.Proof)
}

func (m MerklePriceUpdate) marshalInto(data []byte) int {
	var offset int
	binary.LittleEndian.PutUint32(data[offset:], uint32(len(m.Message)))
	offset += 4
	copy(data[offset:], m.Message)
	offset += len(m.Message)
	binary.LittleEndian.PutUint32(data[offset:], uint32(len(m.Proof)))
	offset += 4
	for _, hash := range m.Proof {
		copy(data[offset:], hash[:])
		offset += 20
	}
	return offset
}

// NewPostUpdateInstruction posts a price update from an already verified
// encoded VAA account.
func NewPostUpdateInstruction(
	payer ed25519.PublicKey,
	encodedVaa ed25519.PublicKey,
	priceUpdateAccount ed25519.PublicKey,
	update MerklePriceUpdate,
	treasuryID uint8,
) (solana.Instruction, error) {
	config, err := GetConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	treasury, err := GetTreasuryAddress(treasuryID)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := make([]byte, len(postUpdateInstructionDiscriminator)+update.marshalSize()+1)
	offset := copy(data, postUpdateInstructionDiscriminator)
	offset += update.marshalInto(data[offset:])
	data[offset] = treasuryID

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(encodedVaa, false),
		solana.NewReadonlyAccountMeta(config, false),
		solana.NewAccountMeta(treasury, false),
		solana.NewAccountMeta(priceUpdateAccount, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(payer, true),
	), nil
}

// NewPostUpdateAtomicInstruction posts a price update in a single transaction,
// verifying the trimmed VAA against the guardian set inline.
func NewPostUpdateAtomicInstruction(
	payer ed25519.PublicKey,
	guardianSet ed25519.PublicKey,
	priceUpdateAccount ed25519.PublicKey,
	vaa []byte,
	update MerklePriceUpdate,
	treasuryID uint8,
) (solana.Instruction, error) {
	config, err := GetConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	treasury, err := GetTreasuryAddress(treasuryID)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := make([]byte, len(postUpdateAtomicInstructionDiscriminator)+4+len(vaa)+update.marshalSize()+1)
	offset := copy(data, postUpdateAtomicInstructionDiscriminator)
	binary.LittleEndian.PutUint32(data[offset:], uint32(len(vaa)))
	offset += 4
	offset += copy(data[offset:], vaa)
	offset += update.marshalInto(data[offset:])
	data[offset] = treasuryID

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(guardianSet, false),
		solana.NewReadonlyAccountMeta(config, false),
		solana.NewAccountMeta(treasury, false),
		solana.NewAccountMeta(priceUpdateAccount, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(payer, true),
	), nil
}

// NewReclaimRentInstruction closes a price update account, returning its rent
// to the payer.
func NewReclaimRentInstruction(payer, priceUpdateAccount ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		reclaimRentInstructionDiscriminator,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(priceUpdateAccount, false),
	)
}

func GetConfigAddress() (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("config"))
}

func GetTreasuryAddress(treasuryID uint8) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("treasury"), []byte{treasuryID})
}
