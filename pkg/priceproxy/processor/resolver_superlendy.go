package processor

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/superlendy"
)

type superLendyResolver struct{}

func (r *superLendyResolver) Resolve(
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

	var reserve superlendy.Reserve
	if err := reserve.Unmarshal(source.Data); err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "deserialize reserve")
	}

	if staleness := clock.UnixTimestamp - reserve.LastUpdate.Timestamp; staleness > int64(maximumAgeSec) {
		return decimal.Decimal{}, 0, &StaleFeedError{Staleness: uint64(staleness)}
	}

	// A flagged reserve needs a refresh before its LP price can be trusted.
	if reserve.LastUpdate.Stale {
		return decimal.Decimal{}, 0, &StaleFeedError{Staleness: 0}
	}

	return reserve.LpMarketPrice(), reserve.LastUpdate.Timestamp, nil
}
