package processor

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/switchboard"
)

type switchboardResolver struct{}

func (r *switchboardResolver) Resolve(
	source *Account,
	expectedAddress ed25519.PublicKey,
	_ priceproxy.WormholeVerificationLevel,
	clock solana.Clock,
	maximumAgeSec uint64,
) (decimal.Decimal, int64, error) {
	if !source.keyEquals(expectedAddress) {
		return decimal.Decimal{}, 0, &InvalidKeyError{
			Name:     "source address",
			Actual:   base58.Encode(source.Key),
			Expected: base58.Encode(expectedAddress),
		}
	}

	var aggregator switchboard.AggregatorAccount
	if err := aggregator.Unmarshal(source.Data); err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "deserialize aggregator")
	}

	if staleness := aggregator.Staleness(clock.UnixTimestamp); staleness > int64(maximumAgeSec) {
		return decimal.Decimal{}, 0, &StaleFeedError{Staleness: uint64(staleness)}
	}

	result, err := aggregator.Result()
	if err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "get aggregator result")
	}

	return result, aggregator.LatestConfirmedRound.OpenTimestamp, nil
}
