package processor

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/pyth"
)

type pythResolver struct{}

func (r *pythResolver) Resolve(
	source *Account,
	expectedAddress ed25519.PublicKey,
	verificationLevel priceproxy.WormholeVerificationLevel,
	clock solana.Clock,
	maximumAgeSec uint64,
) (decimal.Decimal, int64, error) {
	var update pyth.PriceUpdateV2
	if err := update.Unmarshal(source.Data); err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "deserialize price update")
	}

	// The feed pins the Pyth feed id, not the scratch account the update was
	// posted into.
	feedID := ed25519.PublicKey(update.Message.FeedID[:])
	if !feedID.Equal(expectedAddress) {
		return decimal.Decimal{}, 0, &InvalidKeyError{
			Name:     "source address",
			Actual:   base58.Encode(feedID),
			Expected: base58.Encode(expectedAddress),
		}
	}

	switch verificationLevel {
	case priceproxy.VerificationLevelFull:
		if update.VerificationLevel != pyth.VerificationLevelFull {
			return decimal.Decimal{}, 0, errors.Wrap(ErrOperationCannotBePerformed, "price update is not fully verified")
		}
	case priceproxy.VerificationLevelPartial:
		if update.VerificationLevel == pyth.VerificationLevelPartial &&
			update.NumSignatures < pyth.MinimumSignaturesForPartial {
			return decimal.Decimal{}, 0, errors.Wrapf(ErrOperationCannotBePerformed,
				"price update carries %d of %d required signatures",
				update.NumSignatures, pyth.MinimumSignaturesForPartial)
		}
	}

	if staleness := clock.UnixTimestamp - update.Message.PublishTime; staleness > int64(maximumAgeSec) {
		return decimal.Decimal{}, 0, &StaleFeedError{Staleness: uint64(staleness)}
	}

	message := update.Message
	if message.Price < 0 || message.Exponent > 0 || message.Exponent < -255 {
		return decimal.Decimal{}, 0, ErrInvalidPriceOrExpo
	}

	return decimal.New(message.Price, message.Exponent), message.PublishTime, nil
}
