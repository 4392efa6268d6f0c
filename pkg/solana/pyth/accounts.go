// Package pyth provides account parsing and instruction builders for the Pyth
// Solana receiver program.
package pyth

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrInvalidFeedID      = errors.New("invalid feed id")
)

var priceUpdateV2AccountDiscriminator = []byte{34, 241, 35, 99, 157, 126, 244, 205}

// VerificationLevel describes how much a posted price update has been
// verified against the Wormhole guardian set.
type VerificationLevel uint8

const (
	VerificationLevelPartial VerificationLevel = iota
	VerificationLevelFull
)

// MinimumSignaturesForPartial is the fewest guardian signatures a partially
// verified update may carry before it is rejected.
const MinimumSignaturesForPartial = 5

// PriceFeedMessage is the verified price payload held by a PriceUpdateV2
// account.
type PriceFeedMessage struct {
	FeedID          [32]byte
	Price           int64
	Conf            uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	EmaPrice        int64
	EmaConf         uint64
}

// PriceUpdateV2 is the price update account written by the Pyth receiver.
type PriceUpdateV2 struct {
	WriteAuthority    ed25519.PublicKey
	VerificationLevel VerificationLevel
	NumSignatures     uint8 // set when VerificationLevel is Partial
	Message           PriceFeedMessage
	PostedSlot        uint64
}

func (p *PriceUpdateV2) Marshal() []byte {
	size := 8 + 32 + 1 + 32 + 8 + 8 + 4 + 8 + 8 + 8 + 8 + 8
	if p.VerificationLevel == VerificationLevelPartial {
		size++
	}

	data := make([]byte, size)
	copy(data, priceUpdateV2AccountDiscriminator)

	var offset int
	offset += 8

	copy(data[offset:], p.WriteAuthority)
	offset += ed25519.PublicKeySize

	if p.VerificationLevel == VerificationLevelPartial {
		data[offset] = 0
		data[offset+1] = p.NumSignatures
		offset += 2
	} else {
		data[offset] = 1
		offset++
	}

	copy(data[offset:], p.Message.FeedID[:])
	offset += 32
	binary.LittleEndian.PutUint64(data[offset:], uint64(p.Message.Price))
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], p.Message.Conf)
	offset += 8
	binary.LittleEndian.PutUint32(data[offset:], uint32(p.Message.Exponent))
	offset += 4
	binary.LittleEndian.PutUint64(data[offset:], uint64(p.Message.PublishTime))
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], uint64(p.Message.PrevPublishTime))
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], uint64(p.Message.EmaPrice))
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], p.Message.EmaConf)
	offset += 8
	binary.LittleEndian.PutUint64(data[offset:], p.PostedSlot)

	return data
}

func (p *PriceUpdateV2) Unmarshal(data []byte) error {
	if len(data) < 8 || !bytes.Equal(data[:8], priceUpdateV2AccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	if len(data) < offset+32+1 {
		return ErrInvalidAccountData
	}

	p.WriteAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(p.WriteAuthority, data[offset:])
	offset += ed25519.PublicKeySize

	switch data[offset] {
	case 0:
		p.VerificationLevel = VerificationLevelPartial
		offset++
		if len(data) < offset+1 {
			return ErrInvalidAccountData
		}
		p.NumSignatures = data[offset]
		offset++
	case 1:
		p.VerificationLevel = VerificationLevelFull
		p.NumSignatures = 0
		offset++
	default:
		return ErrInvalidAccountData
	}

	if len(data) < offset+32+8+8+4+8+8+8+8+8 {
		return ErrInvalidAccountData
	}

	copy(p.Message.FeedID[:], data[offset:])
	offset += 32
	p.Message.Price = int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	p.Message.Conf = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	p.Message.Exponent = int32(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	p.Message.PublishTime = int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	p.Message.PrevPublishTime = int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	p.Message.EmaPrice = int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	p.Message.EmaConf = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	p.PostedSlot = binary.LittleEndian.Uint64(data[offset:])

	return nil
}

// GetFeedIDFromHex parses a hex encoded Pyth feed id, with or without a 0x
// prefix.
func GetFeedIDFromHex(value string) (feedID [32]byte, err error) {
	if len(value) >= 2 && value[:2] == "0x" {
		value = value[2:]
	}

	decoded, err := hex.DecodeString(value)
	if err != nil {
		return feedID, errors.Wrap(ErrInvalidFeedID, err.Error())
	}
	if len(decoded) != 32 {
		return feedID, ErrInvalidFeedID
	}

	copy(feedID[:], decoded)
	return feedID, nil
}
