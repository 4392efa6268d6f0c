package processor

import (
	"bytes"
	"crypto/ed25519"
)

// Account is a mutable snapshot of a Solana account as the runtime hands it
// to a program.
type Account struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

func (a *Account) keyEquals(other ed25519.PublicKey) bool {
	return bytes.Equal(a.Key, other)
}

func (a *Account) ownedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}
