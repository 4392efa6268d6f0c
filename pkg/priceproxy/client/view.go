package client

import (
	"crypto/ed25519"
	"encoding/json"
	"time"

	"github.com/mr-tron/base58"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
)

// SignatureView is a JSON friendly transaction signature.
type SignatureView struct {
	Signature string `json:"signature"`
}

func NewSignatureView(sig solana.Signature) SignatureView {
	return SignatureView{Signature: base58.Encode(sig[:])}
}

func (v SignatureView) String() string {
	return marshalView(v)
}

// PriceFeedSignatureView pairs a feed address with the outcome of an
// operation against it.
type PriceFeedSignatureView struct {
	PriceFeed string `json:"price_feed"`
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

func NewPriceFeedSignatureView(priceFeed ed25519.PublicKey, sig solana.Signature) PriceFeedSignatureView {
	return PriceFeedSignatureView{
		PriceFeed: base58.Encode(priceFeed),
		Signature: base58.Encode(sig[:]),
	}
}

func NewPriceFeedErrorView(priceFeed ed25519.PublicKey, err error) PriceFeedSignatureView {
	return PriceFeedSignatureView{
		PriceFeed: base58.Encode(priceFeed),
		Error:     err.Error(),
	}
}

func (v PriceFeedSignatureView) String() string {
	return marshalView(v)
}

// PriceFeedView is a JSON friendly rendering of a feed record, with the
// fixed byte fields decoded into strings.
type PriceFeedView struct {
	Key string `json:"key"`

	FeedType          string `json:"feed_type"`
	Symbol            string `json:"symbol"`
	QuoteSymbol       string `json:"quote_symbol"`
	VerificationLevel string `json:"verification_level"`
	LogoURL           string `json:"logo_url,omitempty"`

	Source                 string `json:"source"`
	TransformSource        string `json:"transform_source"`
	SourceAddress          string `json:"source_address"`
	TransformSourceAddress string `json:"transform_source_address"`

	UpdateAuthority string `json:"update_authority"`

	Price           string `json:"price"`
	UpdateTimestamp string `json:"update_timestamp"`
	UpdateSlot      uint64 `json:"update_slot"`

	// Slot the account snapshot was taken at.
	Slot uint64 `json:"slot"`
}

func NewPriceFeedView(key ed25519.PublicKey, feed *priceproxy.PriceFeed, slot uint64) PriceFeedView {
	return PriceFeedView{
		Key: base58.Encode(key),

		FeedType:          feed.FeedType.String(),
		Symbol:            feed.SymbolString(),
		QuoteSymbol:       feed.QuoteSymbol.String(),
		VerificationLevel: feed.VerificationLevel.String(),
		LogoURL:           feed.LogoURLString(),

		Source:                 feed.Source.String(),
		TransformSource:        feed.TransformSource.String(),
		SourceAddress:          base58.Encode(feed.SourceAddress),
		TransformSourceAddress: base58.Encode(feed.TransformSourceAddress),

		UpdateAuthority: base58.Encode(feed.UpdateAuthority),

		Price:           feed.Price().String(),
		UpdateTimestamp: time.Unix(feed.UpdateTimestamp, 0).UTC().Format(time.RFC3339),
		UpdateSlot:      feed.UpdateSlot,

		Slot: slot,
	}
}

func (v PriceFeedView) String() string {
	return marshalView(v)
}

// PriceFeedsView is a snapshot of every feed the program owns.
type PriceFeedsView struct {
	PriceFeeds []PriceFeedView `json:"price_feeds"`
	Slot       uint64          `json:"slot"`
}

func (v PriceFeedsView) String() string {
	return marshalView(v)
}

func marshalView(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
