package processor

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/stakepool"
)

type stakePoolResolver struct{}

func (r *stakePoolResolver) Resolve(
	source *Account,
	expectedAddress ed25519.PublicKey,
	_ priceproxy.WormholeVerificationLevel,
	clock solana.Clock,
	_ uint64,
) (decimal.Decimal, int64, error) {
	if !source.keyEquals(expectedAddress) {
		return decimal.Decimal{}, 0, &InvalidKeyError{
			Name:     "source address",
			Actual:   base58.Encode(source.Key),
			Expected: base58.Encode(expectedAddress),
		}
	}

	var pool stakepool.StakePool
	if err := pool.Unmarshal(source.Data); err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "deserialize stake pool")
	}

	// Pools refresh once per epoch, so staleness is measured in epochs and a
	// one epoch lag is expected.
	if clock.Epoch > pool.LastUpdateEpoch {
		if staleness := clock.Epoch - pool.LastUpdateEpoch; staleness > 1 {
			return decimal.Decimal{}, 0, &StaleFeedError{Staleness: staleness}
		}
	}

	price, err := pool.TokenPrice()
	if err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "get pool token price")
	}

	return price, clock.UnixTimestamp, nil
}
