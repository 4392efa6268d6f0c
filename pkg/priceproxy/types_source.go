package priceproxy

import (
	"strings"

	"github.com/pkg/errors"
)

// PriceFeedSource identifies the system a feed's price is read from.
type PriceFeedSource uint8

const (
	SourceUnknown PriceFeedSource = iota
	SourceOffChain
	SourcePyth
	SourceSwitchboard
	SourceSuperLendy
	SourceStakePool
)

func (s PriceFeedSource) String() string {
	switch s {
	case SourceOffChain:
		return "OffChain"
	case SourcePyth:
		return "Pyth"
	case SourceSwitchboard:
		return "Switchboard"
	case SourceSuperLendy:
		return "SuperLendy"
	case SourceStakePool:
		return "StakePool"
	default:
		return "Unknown"
	}
}

// PriceFeedSourceFromString parses a source name or its short alias.
func PriceFeedSourceFromString(value string) (PriceFeedSource, error) {
	switch strings.ToLower(value) {
	case "o", "off-chain", "offchain":
		return SourceOffChain, nil
	case "p", "pyth":
		return SourcePyth, nil
	case "s", "switchboard":
		return SourceSwitchboard, nil
	case "l", "super-lendy", "superlendy":
		return SourceSuperLendy, nil
	case "st", "stake-pool", "stakepool":
		return SourceStakePool, nil
	}
	return SourceUnknown, errors.Errorf("`%s` is not a valid source", value)
}

// priceFeedSourceFromRaw decodes a stored byte, mapping unrecognized values
// to SourceUnknown.
func priceFeedSourceFromRaw(value uint8) PriceFeedSource {
	if value > uint8(SourceStakePool) {
		return SourceUnknown
	}
	return PriceFeedSource(value)
}
