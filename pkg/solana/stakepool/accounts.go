// Package stakepool provides read access to SPL stake pool accounts.
package stakepool

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// ProgramKey is the SPL stake pool program.
var ProgramKey = solana.MustPublicKeyFromString("SPoo1Ku8WFXoNDMHPsrGSTSG1Y47rzgn41SLUNakuHy")

const accountTypeStakePool = 1

// The borsh layout opens with the account type, six program addresses, the
// withdraw bump seed and two more addresses before the pool counters.
const (
	totalLamportsOffset   = 258
	poolTokenSupplyOffset = 266
	lastUpdateEpochOffset = 274

	stakePoolHeaderSize = 282
)

var (
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrEmptyPool          = errors.New("pool has no minted tokens")
)

// StakePool is the subset of an SPL stake pool needed to price its pool
// token.
type StakePool struct {
	TotalLamports   uint64
	PoolTokenSupply uint64
	LastUpdateEpoch uint64
}

func (s *StakePool) Marshal() []byte {
	data := make([]byte, stakePoolHeaderSize)
	data[0] = accountTypeStakePool
	binary.LittleEndian.PutUint64(data[totalLamportsOffset:], s.TotalLamports)
	binary.LittleEndian.PutUint64(data[poolTokenSupplyOffset:], s.PoolTokenSupply)
	binary.LittleEndian.PutUint64(data[lastUpdateEpochOffset:], s.LastUpdateEpoch)
	return data
}

func (s *StakePool) Unmarshal(data []byte) error {
	if len(data) < stakePoolHeaderSize {
		return ErrInvalidAccountData
	}
	if data[0] != accountTypeStakePool {
		return errors.Wrapf(ErrInvalidAccountData, "unexpected account type %d", data[0])
	}

	s.TotalLamports = binary.LittleEndian.Uint64(data[totalLamportsOffset:])
	s.PoolTokenSupply = binary.LittleEndian.Uint64(data[poolTokenSupplyOffset:])
	s.LastUpdateEpoch = binary.LittleEndian.Uint64(data[lastUpdateEpochOffset:])

	return nil
}

// TokenPrice returns how many SOL one pool token redeems for.
func (s *StakePool) TokenPrice() (decimal.Decimal, error) {
	if s.PoolTokenSupply == 0 {
		return decimal.Decimal{}, ErrEmptyPool
	}

	return decimal.NewFromUint64(s.TotalLamports).
		DivRound(decimal.NewFromUint64(s.PoolTokenSupply), 18), nil
}
