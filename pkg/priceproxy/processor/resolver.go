package processor

import (
	"crypto/ed25519"

	"github.com/shopspring/decimal"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
)

// Resolver reads a price and its born timestamp out of one kind of source
// account.
type Resolver interface {
	// Resolve fails if the source does not match the expected address, its
	// price is older than maximumAgeSec, or the account cannot be parsed.
	Resolve(
		source *Account,
		expectedAddress ed25519.PublicKey,
		verificationLevel priceproxy.WormholeVerificationLevel,
		clock solana.Clock,
		maximumAgeSec uint64,
	) (decimal.Decimal, int64, error)
}

func defaultResolvers() map[priceproxy.PriceFeedSource]Resolver {
	return map[priceproxy.PriceFeedSource]Resolver{
		priceproxy.SourcePyth:        &pythResolver{},
		priceproxy.SourceSwitchboard: &switchboardResolver{},
		priceproxy.SourceSuperLendy:  &superLendyResolver{},
		priceproxy.SourceStakePool:   &stakePoolResolver{},
	}
}
