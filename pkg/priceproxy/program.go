// Package priceproxy implements the on-chain state and instruction codecs of
// the price-proxy oracle program.
package priceproxy

import (
	"github.com/pkg/errors"

	"github.com/texture-fi/price-proxy/pkg/solana"
)

// ProgramKey is the price-proxy program.
var ProgramKey = solana.MustPublicKeyFromString("priceEvKXX3KERsitDpmvujXfPFYesmEspw4kiC3ryF")

// ContractVersion is printed by the Version instruction before it fails.
const ContractVersion = "1.0.0"

var (
	ErrInvalidAccountData     = errors.New("invalid account data")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	ErrInvalidSymbol          = errors.New("invalid symbol")
	ErrInvalidLogoURL         = errors.New("invalid logo url")
)
