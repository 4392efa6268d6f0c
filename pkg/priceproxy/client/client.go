// Package client orchestrates price-proxy transactions over the Solana RPC
// API, including the multi-step Pyth hermes relay.
package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/computebudget"
	"github.com/texture-fi/price-proxy/pkg/solana/pyth"
	"github.com/texture-fi/price-proxy/pkg/solana/superlendy"
	"github.com/texture-fi/price-proxy/pkg/solana/system"
	"github.com/texture-fi/price-proxy/pkg/solana/wormhole"
)

const (
	// vaaSplitIndex is where an encoded VAA gets split when writing it to the
	// wormhole bridge. Posting takes two transactions, and splitting at this
	// index makes the first transaction almost full.
	vaaSplitIndex = 755

	// verifyComputeUnitLimit covers verifying an encoded VAA against the full
	// guardian set plus posting the update.
	verifyComputeUnitLimit = 600_000

	// partialSignatureCount is how many guardian signatures fit in a single
	// atomic post transaction.
	partialSignatureCount = 5

	treasuryID = 0
)

var ErrUnsupportedSource = errors.New("unsupported price feed source")

// Client builds, signs and lands price-proxy transactions. The configured
// authority is the payer and the default signer for every transaction.
type Client struct {
	log       *logrus.Entry
	sol       solana.Client
	hermes    *HermesClient
	authority ed25519.PrivateKey

	// priorityFee is in micro lamports per compute unit. Zero disables the
	// compute budget instruction.
	priorityFee uint64

	commitment solana.Commitment
}

type Option func(*Client)

// WithPriorityFee attaches a compute unit price to every transaction.
func WithPriorityFee(microLamports uint64) Option {
	return func(c *Client) {
		c.priorityFee = microLamports
	}
}

// WithCommitment sets the commitment transactions are confirmed at.
func WithCommitment(commitment solana.Commitment) Option {
	return func(c *Client) {
		c.commitment = commitment
	}
}

// WithHermesURL overrides the hermes endpoint used for Pyth updates.
func WithHermesURL(endpoint string) Option {
	return func(c *Client) {
		c.hermes = NewHermesClient(endpoint)
	}
}

func New(sol solana.Client, authority ed25519.PrivateKey, opts ...Option) *Client {
	c := &Client{
		log:        logrus.StandardLogger().WithField("type", "priceproxy/client"),
		sol:        sol,
		hermes:     NewHermesClient(DefaultHermesURL),
		authority:  authority,
		commitment: solana.CommitmentConfirmed,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) authorityKey() ed25519.PublicKey {
	return c.authority.Public().(ed25519.PublicKey)
}

// submit compiles, signs and lands one transaction, waiting for the
// configured commitment. The authority signs implicitly.
func (c *Client) submit(instructions []solana.Instruction, extraSigners ...ed25519.PrivateKey) (solana.Signature, error) {
	var sig solana.Signature

	if c.priorityFee > 0 {
		instructions = append(instructions, computebudget.SetComputeUnitPrice(c.priorityFee))
	}

	txn := solana.NewTransaction(c.authorityKey(), instructions...)

	blockhash, err := c.sol.GetLatestBlockhash()
	if err != nil {
		return sig, errors.Wrap(err, "failed to get latest blockhash")
	}
	txn.SetBlockhash(blockhash)

	signers := append([]ed25519.PrivateKey{c.authority}, extraSigners...)
	if err := txn.Sign(signers...); err != nil {
		return sig, errors.Wrap(err, "failed to sign transaction")
	}

	sig, err = c.sol.SubmitTransaction(txn, c.commitment)
	if err != nil {
		return sig, errors.Wrap(err, "failed to submit transaction")
	}

	status, err := c.sol.GetSignatureStatus(sig, c.commitment)
	if err != nil {
		return sig, errors.Wrap(err, "failed to confirm transaction")
	}
	if status.ErrorResult != nil {
		return sig, status.ErrorResult
	}

	return sig, nil
}

// CreatePriceFeed initializes a fresh feed record under a newly generated
// address.
func (c *Client) CreatePriceFeed(
	params priceproxy.PriceFeedParams,
	sourceAddress ed25519.PublicKey,
	transformSourceAddress ed25519.PublicKey,
) (PriceFeedSignatureView, error) {
	priceFeed, priceFeedPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PriceFeedSignatureView{}, errors.Wrap(err, "failed to generate feed keypair")
	}

	instruction := priceproxy.NewCreatePriceFeedInstruction(
		priceFeed, c.authorityKey(), sourceAddress, transformSourceAddress, params)

	sig, err := c.submit([]solana.Instruction{instruction}, priceFeedPriv)
	if err != nil {
		return PriceFeedSignatureView{}, err
	}

	return NewPriceFeedSignatureView(priceFeed, sig), nil
}

// WritePrice publishes a price into an off-chain sourced feed. The authority
// must be the feed's pinned source address.
func (c *Client) WritePrice(
	priceFeed ed25519.PublicKey,
	price decimal.Decimal,
	priceTimestamp int64,
) (SignatureView, error) {
	sig, err := c.writePrice(priceFeed, price, priceTimestamp)
	if err != nil {
		return SignatureView{}, err
	}

	return NewSignatureView(sig), nil
}

func (c *Client) writePrice(
	priceFeed ed25519.PublicKey,
	price decimal.Decimal,
	priceTimestamp int64,
) (solana.Signature, error) {
	instruction, err := priceproxy.NewWritePriceInstruction(priceFeed, c.authorityKey(), price, priceTimestamp)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submit([]solana.Instruction{instruction})
}

// UpdatePrice refreshes a feed from already present on-chain source accounts.
func (c *Client) UpdatePrice(
	priceFeed ed25519.PublicKey,
	sourceAddress ed25519.PublicKey,
	transformSourceAddress ed25519.PublicKey,
	maximumAgeSec uint64,
) (SignatureView, error) {
	instruction := priceproxy.NewUpdatePriceInstruction(
		priceFeed, sourceAddress, transformSourceAddress, maximumAgeSec)

	sig, err := c.submit([]solana.Instruction{instruction})
	if err != nil {
		return SignatureView{}, err
	}

	return NewSignatureView(sig), nil
}

// PriceFeedChanges holds optional overrides for AlterPriceFeed. Nil fields
// keep the current value.
type PriceFeedChanges struct {
	FeedType          *priceproxy.FeedType
	Symbol            *string
	QuoteSymbol       *priceproxy.QuoteSymbol
	VerificationLevel *priceproxy.WormholeVerificationLevel
	LogoURL           *string
	Source            *priceproxy.PriceFeedSource
	TransformSource   *priceproxy.PriceFeedSource

	SourceAddress          ed25519.PublicKey
	TransformSourceAddress ed25519.PublicKey
}

// AlterPriceFeed loads the current feed configuration, applies the provided
// overrides, and submits the merged result.
func (c *Client) AlterPriceFeed(priceFeed ed25519.PublicKey, changes PriceFeedChanges) (SignatureView, error) {
	feed, _, err := c.loadFeed(priceFeed)
	if err != nil {
		return SignatureView{}, err
	}

	feedType := feed.FeedType
	if changes.FeedType != nil {
		feedType = *changes.FeedType
	}
	symbol := feed.SymbolString()
	if changes.Symbol != nil {
		symbol = *changes.Symbol
	}
	quoteSymbol := feed.QuoteSymbol
	if changes.QuoteSymbol != nil {
		quoteSymbol = *changes.QuoteSymbol
	}
	verificationLevel := feed.VerificationLevel
	if changes.VerificationLevel != nil {
		verificationLevel = *changes.VerificationLevel
	}
	logoURL := feed.LogoURLString()
	if changes.LogoURL != nil {
		logoURL = *changes.LogoURL
	}
	source := feed.Source
	if changes.Source != nil {
		source = *changes.Source
	}
	transformSource := feed.TransformSource
	if changes.TransformSource != nil {
		transformSource = *changes.TransformSource
	}
	sourceAddress := feed.SourceAddress
	if changes.SourceAddress != nil {
		sourceAddress = changes.SourceAddress
	}
	transformSourceAddress := feed.TransformSourceAddress
	if changes.TransformSourceAddress != nil {
		transformSourceAddress = changes.TransformSourceAddress
	}

	params, err := priceproxy.NewPriceFeedParams(
		feedType, symbol, quoteSymbol, verificationLevel, logoURL, source, transformSource)
	if err != nil {
		return SignatureView{}, err
	}

	instruction := priceproxy.NewAlterPriceFeedInstruction(
		priceFeed, c.authorityKey(), sourceAddress, transformSourceAddress, params)

	sig, err := c.submit([]solana.Instruction{instruction})
	if err != nil {
		return SignatureView{}, err
	}

	return NewSignatureView(sig), nil
}

// DeletePriceFeed removes a feed, refunding its balance to the authority.
func (c *Client) DeletePriceFeed(priceFeed ed25519.PublicKey) (SignatureView, error) {
	instruction := priceproxy.NewDeletePriceFeedInstruction(priceFeed, c.authorityKey())

	sig, err := c.submit([]solana.Instruction{instruction})
	if err != nil {
		return SignatureView{}, err
	}

	return NewSignatureView(sig), nil
}

// ContractVersion submits the Version instruction. The transaction always
// fails on-chain; the program logs of the returned error carry the deployed
// contract version.
func (c *Client) ContractVersion() error {
	_, err := c.submit([]solana.Instruction{priceproxy.NewVersionInstruction()})
	return err
}

// PriceFeed loads one feed record.
func (c *Client) PriceFeed(key ed25519.PublicKey) (PriceFeedView, error) {
	feed, slot, err := c.loadFeed(key)
	if err != nil {
		return PriceFeedView{}, err
	}

	return NewPriceFeedView(key, feed, slot), nil
}

// PriceFeeds loads every feed record the program owns.
func (c *Client) PriceFeeds() (PriceFeedsView, error) {
	accounts, slot, err := c.sol.GetProgramAccounts(priceproxy.ProgramKey, priceproxy.PriceFeedAccountSize)
	if err != nil {
		return PriceFeedsView{}, errors.Wrap(err, "failed to get program accounts")
	}

	view := PriceFeedsView{
		PriceFeeds: make([]PriceFeedView, 0, len(accounts)),
		Slot:       slot,
	}
	for _, account := range accounts {
		var feed priceproxy.PriceFeed
		if err := feed.Unmarshal(account.AccountInfo.Data); err != nil {
			c.log.WithError(err).
				WithField("account", base58.Encode(account.Key)).
				Warn("skipping unparsable account")
			continue
		}

		view.PriceFeeds = append(view.PriceFeeds, NewPriceFeedView(account.Key, &feed, slot))
	}

	return view, nil
}

// ForcePriceFeedTimestamps re-publishes the stored price of each off-chain
// feed with the current timestamp, keeping consumers of the feed from
// rejecting it as stale.
func (c *Client) ForcePriceFeedTimestamps(keys []ed25519.PublicKey) []PriceFeedSignatureView {
	views := make([]PriceFeedSignatureView, 0, len(keys))

	for _, key := range keys {
		feed, _, err := c.loadFeed(key)
		if err != nil {
			views = append(views, NewPriceFeedErrorView(key, err))
			continue
		}
		if feed.Source != priceproxy.SourceOffChain {
			views = append(views, NewPriceFeedErrorView(key,
				errors.Errorf("price feed source must be '%s' (current '%s')",
					priceproxy.SourceOffChain, feed.Source)))
			continue
		}

		sig, err := c.writePrice(key, feed.Price(), time.Now().Unix())
		if err != nil {
			views = append(views, NewPriceFeedErrorView(key, err))
			continue
		}

		views = append(views, NewPriceFeedSignatureView(key, sig))
	}

	return views
}

// HolisticUpdatePrice performs every step needed to refresh one feed. For
// Pyth sourced feeds that includes fetching a hermes message, posting it
// on-chain, and closing the scratch accounts afterwards. Off-chain feeds are
// not supported; use WritePrice.
func (c *Client) HolisticUpdatePrice(priceFeed ed25519.PublicKey, maximumAgeSec uint64) ([]SignatureView, error) {
	feed, _, err := c.loadFeed(priceFeed)
	if err != nil {
		return nil, err
	}

	var views []SignatureView

	// A transform feed with a Pyth transform source needs its own posted
	// update, substituted for the pinned feed id address.
	transformSourceAddress := feed.TransformSourceAddress
	var transformPosted *postedUpdate
	if feed.FeedType == priceproxy.FeedTypeTransform && feed.TransformSource == priceproxy.SourcePyth {
		posted, err := c.relayPythUpdate(feed.TransformSourceAddress, feed.VerificationLevel)
		if err != nil {
			return views, err
		}
		views = appendSignatureViews(views, posted.signatures)
		transformSourceAddress = posted.priceUpdate
		transformPosted = posted
	}

	switch feed.Source {
	case priceproxy.SourcePyth:
		posted, err := c.relayPythUpdate(feed.SourceAddress, feed.VerificationLevel)
		if err != nil {
			return views, err
		}
		views = appendSignatureViews(views, posted.signatures)

		view, err := c.UpdatePrice(priceFeed, posted.priceUpdate, transformSourceAddress, maximumAgeSec)
		if err != nil {
			return views, err
		}
		views = append(views, view)

		sig, err := c.closePostedUpdate(posted)
		if err != nil {
			return views, err
		}
		views = append(views, NewSignatureView(sig))

	case priceproxy.SourceSwitchboard, priceproxy.SourceSuperLendy, priceproxy.SourceStakePool:
		if feed.Source == priceproxy.SourceSuperLendy {
			refreshViews, err := c.refreshReserve(feed.SourceAddress, maximumAgeSec)
			views = append(views, refreshViews...)
			if err != nil {
				return views, err
			}
		}

		view, err := c.UpdatePrice(priceFeed, feed.SourceAddress, transformSourceAddress, maximumAgeSec)
		if err != nil {
			return views, err
		}
		views = append(views, view)

	default:
		return views, errors.Wrapf(ErrUnsupportedSource, "'%s'", feed.Source)
	}

	if transformPosted != nil {
		sig, err := c.closePostedUpdate(transformPosted)
		if err != nil {
			return views, err
		}
		views = append(views, NewSignatureView(sig))
	}

	return views, nil
}

// refreshReserve brings a SuperLendy reserve's LP token price up to date
// before it is read: the reserve's own market price feed is updated first
// when it is on-chain sourced, then the reserve itself is refreshed.
func (c *Client) refreshReserve(reserve ed25519.PublicKey, maximumAgeSec uint64) ([]SignatureView, error) {
	info, err := c.sol.GetAccountInfo(reserve, c.commitment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reserve account")
	}

	var res superlendy.Reserve
	if err := res.Unmarshal(info.Data); err != nil {
		return nil, err
	}

	marketFeed, _, err := c.loadFeed(res.MarketPriceFeed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reserve market price feed")
	}

	var views []SignatureView
	if marketFeed.Source != priceproxy.SourceOffChain {
		view, err := c.UpdatePrice(
			res.MarketPriceFeed, marketFeed.SourceAddress, marketFeed.TransformSourceAddress, maximumAgeSec)
		if err != nil {
			return views, err
		}
		views = append(views, view)
	}

	sig, err := c.submit([]solana.Instruction{
		superlendy.NewRefreshReserveInstruction(reserve, res.MarketPriceFeed, res.Irm),
	})
	if err != nil {
		return views, errors.Wrap(err, "failed to refresh reserve")
	}

	return append(views, NewSignatureView(sig)), nil
}

// postedUpdate tracks the scratch accounts a Pyth relay leaves behind.
type postedUpdate struct {
	priceUpdate ed25519.PublicKey

	// encodedVaa is only set for fully verified posts.
	encodedVaa ed25519.PublicKey

	signatures []solana.Signature
}

// relayPythUpdate fetches the latest hermes message for the feed id and posts
// it on-chain at the requested verification level.
func (c *Client) relayPythUpdate(
	feedID ed25519.PublicKey,
	level priceproxy.WormholeVerificationLevel,
) (*postedUpdate, error) {
	message, err := c.hermes.LatestUpdate(hex.EncodeToString(feedID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch hermes update")
	}

	vaa, updates, err := pyth.DeserializeAccumulatorUpdate(message)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, errors.Wrap(pyth.ErrInvalidUpdateData, "no merkle price updates")
	}

	if level == priceproxy.VerificationLevelFull {
		return c.postUpdate(vaa, updates[0])
	}
	return c.postUpdateAtomic(vaa, updates[0])
}

// postUpdate lands a fully verified update. The VAA does not fit a single
// transaction, so it is written to a scratch wormhole account in two steps,
// verified, and only then posted.
func (c *Client) postUpdate(vaa []byte, update pyth.MerklePriceUpdate) (*postedUpdate, error) {
	authority := c.authorityKey()

	priceUpdate, priceUpdatePriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate price update keypair")
	}
	encodedVaa, encodedVaaPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate encoded vaa keypair")
	}

	splitAt := vaaSplitIndex
	if len(vaa) < splitAt {
		splitAt = len(vaa)
	}

	encodedVaaSize := uint64(len(vaa) + wormhole.EncodedVaaHeaderSize)
	rent, err := c.sol.GetMinimumBalanceForRentExemption(encodedVaaSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rent exemption")
	}

	firstSig, err := c.submit([]solana.Instruction{
		system.CreateAccount(authority, encodedVaa, wormhole.ProgramKey, rent, encodedVaaSize),
		wormhole.NewInitEncodedVaaInstruction(authority, encodedVaa),
		wormhole.NewWriteEncodedVaaInstruction(authority, encodedVaa, 0, vaa[:splitAt]),
	}, encodedVaaPriv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write encoded vaa")
	}

	guardianSetIndex, err := pyth.VaaGuardianSetIndex(vaa)
	if err != nil {
		return nil, err
	}
	guardianSet, err := wormhole.GetGuardianSetAddress(guardianSetIndex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive guardian set address")
	}

	postInstruction, err := pyth.NewPostUpdateInstruction(authority, encodedVaa, priceUpdate, update, treasuryID)
	if err != nil {
		return nil, err
	}

	secondSig, err := c.submit([]solana.Instruction{
		computebudget.SetComputeUnitLimit(verifyComputeUnitLimit),
		wormhole.NewWriteEncodedVaaInstruction(authority, encodedVaa, uint32(splitAt), vaa[splitAt:]),
		wormhole.NewVerifyEncodedVaaV1Instruction(authority, encodedVaa, guardianSet),
		postInstruction,
	}, priceUpdatePriv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to post update")
	}

	return &postedUpdate{
		priceUpdate: priceUpdate,
		encodedVaa:  encodedVaa,
		signatures:  []solana.Signature{firstSig, secondSig},
	}, nil
}

// postUpdateAtomic lands a partially verified update in one transaction,
// trimming the VAA down to the guardian signatures that fit.
func (c *Client) postUpdateAtomic(vaa []byte, update pyth.MerklePriceUpdate) (*postedUpdate, error) {
	authority := c.authorityKey()

	priceUpdate, priceUpdatePriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate price update keypair")
	}

	trimmed, err := pyth.TrimVaaSignatures(vaa, partialSignatureCount)
	if err != nil {
		return nil, err
	}

	guardianSetIndex, err := pyth.VaaGuardianSetIndex(trimmed)
	if err != nil {
		return nil, err
	}
	guardianSet, err := wormhole.GetGuardianSetAddress(guardianSetIndex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive guardian set address")
	}

	instruction, err := pyth.NewPostUpdateAtomicInstruction(
		authority, guardianSet, priceUpdate, trimmed, update, treasuryID)
	if err != nil {
		return nil, err
	}

	sig, err := c.submit([]solana.Instruction{instruction}, priceUpdatePriv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to post atomic update")
	}

	return &postedUpdate{
		priceUpdate: priceUpdate,
		signatures:  []solana.Signature{sig},
	}, nil
}

// closePostedUpdate reclaims the rent of the scratch accounts a relay created.
func (c *Client) closePostedUpdate(posted *postedUpdate) (solana.Signature, error) {
	authority := c.authorityKey()

	var instructions []solana.Instruction
	if posted.encodedVaa != nil {
		instructions = append(instructions, wormhole.NewCloseEncodedVaaInstruction(authority, posted.encodedVaa))
	}
	instructions = append(instructions, pyth.NewReclaimRentInstruction(authority, posted.priceUpdate))

	return c.submit(instructions)
}

func (c *Client) loadFeed(key ed25519.PublicKey) (*priceproxy.PriceFeed, uint64, error) {
	info, err := c.sol.GetAccountInfo(key, c.commitment)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get feed account")
	}

	var feed priceproxy.PriceFeed
	if err := feed.Unmarshal(info.Data); err != nil {
		return nil, 0, err
	}

	slot, err := c.sol.GetSlot(c.commitment)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get slot")
	}

	return &feed, slot, nil
}

func appendSignatureViews(views []SignatureView, signatures []solana.Signature) []SignatureView {
	for _, sig := range signatures {
		views = append(views, NewSignatureView(sig))
	}
	return views
}
