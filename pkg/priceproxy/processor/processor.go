// Package processor executes price-proxy instructions against account
// snapshots, mirroring the on-chain program semantics.
package processor

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/system"
)

// Processor applies price-proxy instructions to account snapshots. Accounts
// are only mutated when the instruction succeeds.
type Processor struct {
	log *logrus.Entry

	// rentExemptBalance is the minimum balance of a feed account.
	rentExemptBalance uint64

	resolvers map[priceproxy.PriceFeedSource]Resolver
}

func New(rentExemptBalance uint64) *Processor {
	return &Processor{
		log:               logrus.StandardLogger().WithField("type", "priceproxy/processor"),
		rentExemptBalance: rentExemptBalance,
		resolvers:         defaultResolvers(),
	}
}

// SetResolver overrides how one source kind gets resolved.
func (p *Processor) SetResolver(source priceproxy.PriceFeedSource, resolver Resolver) {
	p.resolvers[source] = resolver
}

// ProcessInstruction dispatches raw instruction data against the provided
// accounts, in the order the matching instruction builder lays them out.
func (p *Processor) ProcessInstruction(data []byte, accounts []*Account, clock solana.Clock) error {
	switch priceproxy.GetInstructionType(data) {
	case priceproxy.InstructionTypeCreatePriceFeed:
		var args priceproxy.CreatePriceFeedInstructionArgs
		if err := args.Unmarshal(data); err != nil {
			return err
		}
		return p.CreatePriceFeed(args.Params, accounts, clock)
	case priceproxy.InstructionTypeWritePrice:
		var args priceproxy.WritePriceInstructionArgs
		if err := args.Unmarshal(data); err != nil {
			return err
		}
		return p.WritePrice(args.Price, args.PriceTimestamp, accounts, clock)
	case priceproxy.InstructionTypeUpdatePrice:
		var args priceproxy.UpdatePriceInstructionArgs
		if err := args.Unmarshal(data); err != nil {
			return err
		}
		return p.UpdatePrice(args.MaximumAgeSec, accounts, clock)
	case priceproxy.InstructionTypeAlterPriceFeed:
		var args priceproxy.AlterPriceFeedInstructionArgs
		if err := args.Unmarshal(data); err != nil {
			return err
		}
		return p.AlterPriceFeed(args.Params, accounts)
	case priceproxy.InstructionTypeDeletePriceFeed:
		return p.DeletePriceFeed(accounts)
	case priceproxy.InstructionTypeVersion:
		return p.Version()
	default:
		return priceproxy.ErrInvalidInstructionData
	}
}

// CreatePriceFeed funds and initializes a fresh feed record.
//
// Accounts: price_feed (writable, signer), authority (writable, signer),
// source_address, transform_source_address, system program.
func (p *Processor) CreatePriceFeed(params priceproxy.PriceFeedParams, accounts []*Account, clock solana.Clock) error {
	if len(accounts) < 5 {
		return ErrNotEnoughAccountKeys
	}
	priceFeed, authority := accounts[0], accounts[1]
	sourceAddress, transformSourceAddress := accounts[2], accounts[3]

	p.log.WithFields(logrus.Fields{
		"instruction": priceproxy.InstructionTypeCreatePriceFeed,
		"price_feed":  base58.Encode(priceFeed.Key),
		"symbol":      params.SymbolString(),
		"source":      params.Source,
	}).Debug("create price feed")

	if !priceFeed.IsSigner || !authority.IsSigner {
		return ErrMissingSignature
	}
	if !priceFeed.ownedBy(system.ProgramKey[:]) {
		return ErrOwnerMismatch
	}
	if authority.Lamports < p.rentExemptBalance {
		return ErrNotEnoughBalance
	}

	feed := priceproxy.NewPriceFeed(params, authority.Key, sourceAddress.Key, transformSourceAddress.Key)

	authority.Lamports -= p.rentExemptBalance
	priceFeed.Lamports += p.rentExemptBalance
	priceFeed.Owner = priceproxy.ProgramKey
	priceFeed.Data = feed.Marshal()

	return nil
}

// WritePrice publishes a price into an off-chain sourced feed. The signer
// must be the feed's pinned source address.
//
// Accounts: price_feed (writable), authority (signer).
func (p *Processor) WritePrice(price decimal.Decimal, priceTimestamp int64, accounts []*Account, clock solana.Clock) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccountKeys
	}
	priceFeedInfo, authority := accounts[0], accounts[1]

	p.log.WithFields(logrus.Fields{
		"instruction": priceproxy.InstructionTypeWritePrice,
		"price_feed":  base58.Encode(priceFeedInfo.Key),
		"price":       price,
	}).Debug("write price")

	feed, err := p.unpackFeed(priceFeedInfo)
	if err != nil {
		return err
	}

	if feed.Source != priceproxy.SourceOffChain {
		return &InvalidSourceError{Current: feed.Source, Expected: priceproxy.SourceOffChain}
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}
	if !authority.keyEquals(feed.SourceAddress) {
		return &InvalidKeyError{
			Name:     "source authority",
			Actual:   base58.Encode(authority.Key),
			Expected: base58.Encode(feed.SourceAddress),
		}
	}

	// Strictly older timestamps are rejected. An equal timestamp is allowed
	// so the current price can be re-confirmed.
	if priceTimestamp < feed.UpdateTimestamp {
		return ErrTimestampIsNotRecent
	}

	if err := feed.SetPrice(price, priceTimestamp, clock.Slot); err != nil {
		return err
	}
	priceFeedInfo.Data = feed.Marshal()

	return nil
}

// UpdatePrice refreshes a feed from its on-chain source accounts. Anyone may
// call it.
//
// Accounts: price_feed (writable), source_address, transform_source_address.
func (p *Processor) UpdatePrice(maximumAgeSec uint64, accounts []*Account, clock solana.Clock) error {
	if len(accounts) < 3 {
		return ErrNotEnoughAccountKeys
	}
	priceFeedInfo := accounts[0]
	sourceAddress, transformSourceAddress := accounts[1], accounts[2]

	p.log.WithFields(logrus.Fields{
		"instruction": priceproxy.InstructionTypeUpdatePrice,
		"price_feed":  base58.Encode(priceFeedInfo.Key),
	}).Debug("update price")

	feed, err := p.unpackFeed(priceFeedInfo)
	if err != nil {
		return err
	}

	if feed.FeedType == priceproxy.FeedTypeTransform && sourceAddress.keyEquals(transformSourceAddress.Key) {
		return errors.Wrap(ErrOperationCannotBePerformed,
			"transform source address must be different from the source address")
	}

	price, updateTs, err := p.resolve(feed, feed.Source, sourceAddress, feed.SourceAddress, clock, maximumAgeSec)
	if err != nil {
		return err
	}

	if feed.FeedType == priceproxy.FeedTypeTransform {
		secondPrice, secondUpdateTs, err := p.resolve(
			feed, feed.TransformSource, transformSourceAddress, feed.TransformSourceAddress, clock, maximumAgeSec)
		if err != nil {
			return err
		}

		price = price.Mul(secondPrice)
		if secondUpdateTs < updateTs {
			updateTs = secondUpdateTs
		}
	}

	if err := feed.SetPrice(price, updateTs, clock.Slot); err != nil {
		return err
	}
	priceFeedInfo.Data = feed.Marshal()

	return nil
}

// AlterPriceFeed overwrites the configurable portion of a feed. Only the
// update authority may call it.
//
// Accounts: price_feed (writable), authority (signer), source_address,
// transform_source_address.
func (p *Processor) AlterPriceFeed(params priceproxy.PriceFeedParams, accounts []*Account) error {
	if len(accounts) < 4 {
		return ErrNotEnoughAccountKeys
	}
	priceFeedInfo, authority := accounts[0], accounts[1]
	sourceAddress, transformSourceAddress := accounts[2], accounts[3]

	p.log.WithFields(logrus.Fields{
		"instruction": priceproxy.InstructionTypeAlterPriceFeed,
		"price_feed":  base58.Encode(priceFeedInfo.Key),
	}).Debug("alter price feed")

	feed, err := p.unpackFeed(priceFeedInfo)
	if err != nil {
		return err
	}

	if err := p.verifyAuthority(authority, feed); err != nil {
		return err
	}

	feed.Apply(params, sourceAddress.Key, transformSourceAddress.Key)
	priceFeedInfo.Data = feed.Marshal()

	return nil
}

// DeletePriceFeed removes a feed, moving its whole balance to the update
// authority.
//
// Accounts: price_feed (writable), authority (writable, signer).
func (p *Processor) DeletePriceFeed(accounts []*Account) error {
	if len(accounts) < 2 {
		return ErrNotEnoughAccountKeys
	}
	priceFeedInfo, authority := accounts[0], accounts[1]

	p.log.WithFields(logrus.Fields{
		"instruction": priceproxy.InstructionTypeDeletePriceFeed,
		"price_feed":  base58.Encode(priceFeedInfo.Key),
	}).Debug("delete price feed")

	feed, err := p.unpackFeed(priceFeedInfo)
	if err != nil {
		return err
	}

	if err := p.verifyAuthority(authority, feed); err != nil {
		return err
	}

	authority.Lamports += priceFeedInfo.Lamports
	priceFeedInfo.Lamports = 0
	priceFeedInfo.Data = nil

	return nil
}

// Version reports the contract version in the logs and always fails.
func (p *Processor) Version() error {
	p.log.Infof("PriceProxy contract %s", priceproxy.ContractVersion)
	return ErrOperationCannotBePerformed
}

func (p *Processor) unpackFeed(info *Account) (*priceproxy.PriceFeed, error) {
	if !info.ownedBy(priceproxy.ProgramKey) {
		return nil, ErrOwnerMismatch
	}

	var feed priceproxy.PriceFeed
	if err := feed.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (p *Processor) verifyAuthority(authority *Account, feed *priceproxy.PriceFeed) error {
	if !authority.IsSigner {
		return ErrMissingSignature
	}
	if !authority.keyEquals(feed.UpdateAuthority) {
		return &InvalidKeyError{
			Name:     "authority",
			Actual:   base58.Encode(authority.Key),
			Expected: base58.Encode(feed.UpdateAuthority),
		}
	}
	return nil
}

func (p *Processor) resolve(
	feed *priceproxy.PriceFeed,
	source priceproxy.PriceFeedSource,
	sourceAccount *Account,
	expectedAddress ed25519.PublicKey,
	clock solana.Clock,
	maximumAgeSec uint64,
) (decimal.Decimal, int64, error) {
	resolver, ok := p.resolvers[source]
	if !ok {
		return decimal.Decimal{}, 0, &InvalidSourceError{
			Current:  source,
			Expected: priceproxy.SourceUnknown,
		}
	}

	return resolver.Resolve(sourceAccount, expectedAddress, feed.VerificationLevel, clock, maximumAgeSec)
}
