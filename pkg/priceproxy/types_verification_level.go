package priceproxy

import (
	"strings"

	"github.com/pkg/errors"
)

// WormholeVerificationLevel is how thoroughly a Pyth price update must have
// been checked against the Wormhole guardian signatures before the feed
// accepts it.
type WormholeVerificationLevel uint8

const (
	VerificationLevelFull WormholeVerificationLevel = iota
	VerificationLevelPartial
)

func (l WormholeVerificationLevel) String() string {
	if l == VerificationLevelPartial {
		return "Partial"
	}
	return "Full"
}

func WormholeVerificationLevelFromString(value string) (WormholeVerificationLevel, error) {
	switch strings.ToLower(value) {
	case "full", "f":
		return VerificationLevelFull, nil
	case "partial", "p":
		return VerificationLevelPartial, nil
	}
	return VerificationLevelFull, errors.Errorf("`%s` is not a valid level", value)
}

func wormholeVerificationLevelFromRaw(value uint8) WormholeVerificationLevel {
	if value > uint8(VerificationLevelPartial) {
		return VerificationLevelFull
	}
	return WormholeVerificationLevel(value)
}
