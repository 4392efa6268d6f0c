package processor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
)

var (
	ErrMissingSignature           = errors.New("missing signature")
	ErrNotEnoughAccountKeys       = errors.New("not enough account keys")
	ErrOwnerMismatch              = errors.New("owner specified doesn't match expected one")
	ErrOperationCannotBePerformed = errors.New("requested operation can not be performed due to inappropriate state")
	ErrTimestampIsNotRecent       = errors.New("timestamp is not recent")
	ErrNotEnoughBalance           = errors.New("not enough balance to perform requested operation")
	ErrInvalidPriceOrExpo         = errors.New("invalid price or exponent")
)

// InvalidKeyError indicates an account key differs from the one the feed
// record pins.
type InvalidKeyError struct {
	Name     string
	Actual   string
	Expected string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid %s key: %s, expected %s", e.Name, e.Actual, e.Expected)
}

// InvalidSourceError indicates an operation was applied to a feed whose
// source kind does not support it.
type InvalidSourceError struct {
	Current  priceproxy.PriceFeedSource
	Expected priceproxy.PriceFeedSource
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source '%s', expected '%s'", e.Current, e.Expected)
}

// StaleFeedError indicates the source price is older than the caller allowed.
// Staleness is in seconds, or epochs for stake pool sources.
type StaleFeedError struct {
	Staleness uint64
}

func (e *StaleFeedError) Error() string {
	return fmt.Sprintf("feed has not been updated in %d seconds", e.Staleness)
}
