package solana

import (
	"crypto/ed25519"
)

// AccountInfo is a snapshot of a Solana account's data and metadata.
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// KeyedAccountInfo pairs an account snapshot with its address. Returned by
// program account scans.
type KeyedAccountInfo struct {
	Key         ed25519.PublicKey
	AccountInfo AccountInfo
}

// Clock mirrors the Solana clock sysvar fields the price-proxy program
// consumes.
//
// Reference: https://docs.solana.com/developing/runtime-facilities/sysvars#clock
type Clock struct {
	Slot          uint64
	Epoch         uint64
	UnixTimestamp int64
}
