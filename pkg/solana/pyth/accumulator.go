package pyth

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrInvalidUpdateData = errors.New("invalid accumulator update data")
	ErrInvalidVaa        = errors.New("invalid vaa")
)

var accumulatorUpdateMagic = []byte("PNAU")

const accumulatorUpdateMajorVersion = 1

// Wormhole VAA signatures are a guardian index plus an ed25519 signature.
const vaaSignatureSize = 66

// DeserializeAccumulatorUpdate unpacks the hermes accumulator update wire
// format into the raw VAA and the merkle price updates it proves.
func DeserializeAccumulatorUpdate(data []byte) (vaa []byte, updates []MerklePriceUpdate, err error) {
	if len(data) < 6 || string(data[:4]) != string(accumulatorUpdateMagic) {
		return nil, nil, ErrInvalidUpdateData
	}
	if data[4] != accumulatorUpdateMajorVersion {
		return nil, nil, errors.Wrapf(ErrInvalidUpdateData, "unsupported major version %d", data[4])
	}

	// minor version at [5] is ignored for forwards compatibility
	offset := 6

	if len(data) < offset+1 {
		return nil, nil, ErrInvalidUpdateData
	}
	trailingSize := int(data[offset])
	offset += 1 + trailingSize

	if len(data) < offset+1 {
		return nil, nil, ErrInvalidUpdateData
	}
	if proofType := data[offset]; proofType != 0 {
		return nil, nil, errors.Wrapf(ErrInvalidUpdateData, "unsupported proof type %d", proofType)
	}
	offset++

	if len(data) < offset+2 {
		return nil, nil, ErrInvalidUpdateData
	}
	vaaSize := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+vaaSize {
		return nil, nil, ErrInvalidUpdateData
	}
	vaa = make([]byte, vaaSize)
	copy(vaa, data[offset:])
	offset += vaaSize

	if len(data) < offset+1 {
		return nil, nil, ErrInvalidUpdateData
	}
	numUpdates := int(data[offset])
	offset++

	updates = make([]MerklePriceUpdate, 0, numUpdates)
	for i := 0; i < numUpdates; i++ {
		if len(data) < offset+2 {
			return nil, nil, ErrInvalidUpdateData
		}
		messageSize := int(binary.BigEndian.Uint16(data[offset:]))
		offset += 2
		if len(data) < offset+messageSize+1 {
			return nil, nil, ErrInvalidUpdateData
		}
		message := make([]byte, messageSize)
		copy(message, data[offset:])
		offset += messageSize

		numHashes := int(data[offset])
		offset++
		if len(data) < offset+numHashes*20 {
			return nil, nil, ErrInvalidUpdateData
		}
		proof := make([][20]byte, numHashes)
		for j := range proof {
			copy(proof[j][:], data[offset:])
			offset += 20
		}

		updates = append(updates, MerklePriceUpdate{
			Message: message,
			Proof:   proof,
		})
	}

	return vaa, updates, nil
}

// VaaGuardianSetIndex reads the guardian set index from a raw VAA.
func VaaGuardianSetIndex(vaa []byte) (uint32, error) {
	if len(vaa) < 5 {
		return 0, ErrInvalidVaa
	}
	return binary.BigEndian.Uint32(vaa[1:]), nil
}

// TrimVaaSignatures rewrites a VAA so it carries only the first n guardian
// signatures. Used for partially verified posts where the full signature set
// does not fit in a transaction.
func TrimVaaSignatures(vaa []byte, n int) ([]byte, error) {
	if len(vaa) < 6 {
		return nil, ErrInvalidVaa
	}

	numSignatures := int(vaa[5])
	if n > numSignatures {
		return nil, errors.Wrapf(ErrInvalidVaa, "cannot keep %d of %d signatures", n, numSignatures)
	}

	bodyStart := 6 + numSignatures*vaaSignatureSize
	if len(vaa) < bodyStart {
		return nil, ErrInvalidVaa
	}

	trimmed := make([]byte, 0, 6+n*vaaSignatureSize+len(vaa)-bodyStart)
	trimmed = append(trimmed, vaa[:6]...)
	trimmed[5] = byte(n)
	trimmed = append(trimmed, vaa[6:6+n*vaaSignatureSize]...)
	trimmed = append(trimmed, vaa[bodyStart:]...)

	return trimmed, nil
}
