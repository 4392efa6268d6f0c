package solana

import (
	"encoding/base64"
	"time"

	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/texture-fi/price-proxy/pkg/retry"
	"github.com/texture-fi/price-proxy/pkg/retry/backoff"
)

const (
	// todo: we can retrieve these from the Syscall account
	//       but they're unlikely to change.
	ticksPerSec  = 160
	ticksPerSlot = 64
	slotsPerSec  = ticksPerSec / ticksPerSlot

	// PollRate is the rate at which signature statuses should be polled at.
	PollRate = (time.Second / slotsPerSec) / 2

	// Poll rate is ~2x the slot rate, and we want to wait ~32 slots
	sigStatusPollLimit = 2 * 32

	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

const (
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

var (
	CommitmentProcessed = Commitment{Commitment: "processed"}
	CommitmentConfirmed = Commitment{Commitment: confirmationStatusConfirmed}
	CommitmentFinalized = Commitment{Commitment: confirmationStatusFinalized}
)

var (
	ErrNoAccountInfo     = errors.New("no account info")
	ErrSignatureNotFound = errors.New("signature not found")
)

type SignatureStatus struct {
	Slot        uint64
	ErrorResult error

	// Confirmations will be nil if the transaction has been rooted.
	Confirmations      *int
	ConfirmationStatus string
}

func (s SignatureStatus) Confirmed() bool {
	if s.Finalized() {
		return true
	}

	if s.ConfirmationStatus == confirmationStatusConfirmed {
		return true
	}

	return *s.Confirmations >= 1
}

func (s SignatureStatus) Finalized() bool {
	return s.Confirmations == nil || s.ConfirmationStatus == confirmationStatusFinalized
}

type EpochInfo struct {
	Epoch        uint64
	AbsoluteSlot uint64
	BlockHeight  uint64
	SlotIndex    uint64
	SlotsInEpoch uint64
}

// Client provides an interaction with the Solana JSON RPC API.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(ed25519.PublicKey, Commitment) (AccountInfo, error)
	GetBalance(ed25519.PublicKey) (uint64, error)
	GetEpochInfo(Commitment) (EpochInfo, error)
	GetLatestBlockhash() (Blockhash, error)
	GetMinimumBalanceForRentExemption(size uint64) (lamports uint64, err error)
	GetProgramAccounts(program ed25519.PublicKey, dataSize uint64) ([]KeyedAccountInfo, uint64, error)
	GetSignatureStatus(Signature, Commitment) (*SignatureStatus, error)
	GetSlot(Commitment) (uint64, error)
	SubmitTransaction(Transaction, Commitment) (Signature, error)
}

var (
	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	retrier retry.Retrier
}

// New returns a client using the specified endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log:    logrus.StandardLogger().WithField("type", "solana/client"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		err := c.client.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	})

	return err
}

func (c *client) handleRpcError(method string, err error) error {
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}
	if rpcErr.Code == 429 {
		c.log.WithField("method", method).Warn("rate limited")
		return errRateLimited
	}
	if rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode {
		return errServiceError
	}

	return err
}

func (c *client) GetMinimumBalanceForRentExemption(dataSize uint64) (lamports uint64, err error) {
	if err := c.call(&lamports, "getMinimumBalanceForRentExemption", dataSize); err != nil {
		return 0, errors.Wrap(err, "getMinimumBalanceForRentExemption() failed to send request")
	}

	return lamports, nil
}

func (c *client) GetSlot(commitment Commitment) (slot uint64, err error) {
	// note: we have to wrap the commitment in an []interface{} otherwise the
	//       solana RPC node complains. Technically this is a violation of the
	//       JSON RPC v2.0 spec.
	if err := c.call(&slot, "getSlot", []interface{}{commitment}); err != nil {
		return 0, errors.Wrap(err, "getSlot() failed to send request")
	}

	return slot, nil
}

func (c *client) GetEpochInfo(commitment Commitment) (info EpochInfo, err error) {
	type response struct {
		Epoch        uint64 `json:"epoch"`
		AbsoluteSlot uint64 `json:"absoluteSlot"`
		BlockHeight  uint64 `json:"blockHeight"`
		SlotIndex    uint64 `json:"slotIndex"`
		SlotsInEpoch uint64 `json:"slotsInEpoch"`
	}

	var resp response
	if err := c.call(&resp, "getEpochInfo", []interface{}{commitment}); err != nil {
		return info, errors.Wrap(err, "getEpochInfo() failed to send request")
	}

	return EpochInfo(resp), nil
}

func (c *client) GetLatestBlockhash() (hash Blockhash, err error) {
	type response struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}

	var resp response
	if err := c.call(&resp, "getLatestBlockhash"); err != nil {
		return hash, errors.Wrap(err, "getLatestBlockhash() failed to send request")
	}

	hashBytes, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return hash, errors.Wrap(err, "invalid base58 encoded hash in response")
	}

	copy(hash[:], hashBytes)

	return hash, nil
}

func (c *client) GetBalance(account ed25519.PublicKey) (uint64, error) {
	type response struct {
		Value uint64 `json:"value"`
	}

	var resp response
	if err := c.call(&resp, "getBalance", base58.Encode(account), CommitmentFinalized); err != nil {
		return 0, errors.Wrap(err, "getBalance() failed to send request")
	}

	return resp.Value, nil
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Commitment Commitment `json:"commitment"`
		Encoding   string     `json:"encoding"`
	}{
		Commitment: commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.call(&resp, "getAccountInfo", base58.Encode(account), rpcConfig); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}

	accountInfo.Owner, err = base58.Decode(resp.Value.Owner)
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base58 encoded owner")
	}

	accountInfo.Data, err = base64.StdEncoding.DecodeString(resp.Value.Data[0])
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base64 encoded data")
	}

	accountInfo.Lamports = resp.Value.Lamports
	accountInfo.Executable = resp.Value.Executable

	return accountInfo, nil
}

// GetProgramAccounts returns all accounts owned by program whose data is
// exactly dataSize bytes, along with the slot of the snapshot.
func (c *client) GetProgramAccounts(program ed25519.PublicKey, dataSize uint64) ([]KeyedAccountInfo, uint64, error) {
	type rpcResponse struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value []struct {
			Pubkey  string `json:"pubkey"`
			Account struct {
				Lamports uint64   `json:"lamports"`
				Owner    string   `json:"owner"`
				Data     []string `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Commitment Commitment `json:"commitment"`
		Encoding   string     `json:"encoding"`
		Filters    []struct {
			DataSize uint64 `json:"dataSize"`
		} `json:"filters"`
		WithContext bool `json:"withContext"`
	}{
		Commitment: CommitmentConfirmed,
		Encoding:   "base64",
		Filters: []struct {
			DataSize uint64 `json:"dataSize"`
		}{
			{DataSize: dataSize},
		},
		WithContext: true,
	}

	var resp rpcResponse
	if err := c.call(&resp, "getProgramAccounts", base58.Encode(program), rpcConfig); err != nil {
		return nil, 0, errors.Wrap(err, "getProgramAccounts() failed to send request")
	}

	accounts := make([]KeyedAccountInfo, 0, len(resp.Value))
	for _, entry := range resp.Value {
		key, err := base58.Decode(entry.Pubkey)
		if err != nil {
			return nil, 0, errors.Wrap(err, "invalid base58 encoded pubkey")
		}
		owner, err := base58.Decode(entry.Account.Owner)
		if err != nil {
			return nil, 0, errors.Wrap(err, "invalid base58 encoded owner")
		}
		data, err := base64.StdEncoding.DecodeString(entry.Account.Data[0])
		if err != nil {
			return nil, 0, errors.Wrap(err, "invalid base64 encoded data")
		}

		accounts = append(accounts, KeyedAccountInfo{
			Key: key,
			AccountInfo: AccountInfo{
				Data:     data,
				Owner:    owner,
				Lamports: entry.Account.Lamports,
			},
		})
	}

	return accounts, resp.Context.Slot, nil
}

func (c *client) SubmitTransaction(txn Transaction, commitment Commitment) (Signature, error) {
	sig := txn.Signatures[0]
	txnBytes := txn.Marshal()

	config := struct {
		SkipPreflight       bool   `json:"skipPreflight"`
		PreflightCommitment string `json:"preflightCommitment"`
	}{
		SkipPreflight:       false,
		PreflightCommitment: commitment.Commitment,
	}

	var sigStr string
	if err := c.call(&sigStr, "sendTransaction", base58.Encode(txnBytes), config); err != nil {
		return sig, errors.Wrap(err, "sendTransaction() failed to send request")
	}

	return sig, nil
}

func (c *client) GetSignatureStatus(sig Signature, commitment Commitment) (*SignatureStatus, error) {
	var s *SignatureStatus
	errConfirmationsNotReached := errors.New("confirmations not reached")
	_, err := retry.Retry(
		func() error {
			status, err := c.getSignatureStatus(sig)
			if err != nil {
				return err
			}

			s = status
			if s.ErrorResult != nil {
				return nil
			}

			switch commitment {
			case CommitmentProcessed:
				return nil
			case CommitmentConfirmed:
				if s.Confirmed() {
					return nil
				}
			case CommitmentFinalized:
				if s.Finalized() {
					return nil
				}
			}

			return errConfirmationsNotReached
		},
		retry.RetriableErrors(ErrSignatureNotFound, errConfirmationsNotReached),
		retry.Limit(sigStatusPollLimit),
		retry.Backoff(backoff.Constant(PollRate), PollRate),
	)

	return s, err
}

func (c *client) getSignatureStatus(sig Signature) (*SignatureStatus, error) {
	type rpcResponse struct {
		Value []*struct {
			Slot               uint64      `json:"slot"`
			Confirmations      *int        `json:"confirmations"`
			ConfirmationStatus string      `json:"confirmationStatus"`
			Err                interface{} `json:"err"`
		} `json:"value"`
	}

	var resp rpcResponse
	if err := c.call(&resp, "getSignatureStatuses", []string{base58.Encode(sig[:])}); err != nil {
		return nil, errors.Wrap(err, "getSignatureStatuses() failed to send request")
	}

	if len(resp.Value) == 0 || resp.Value[0] == nil {
		return nil, ErrSignatureNotFound
	}

	status := &SignatureStatus{
		Slot:               resp.Value[0].Slot,
		Confirmations:      resp.Value[0].Confirmations,
		ConfirmationStatus: resp.Value[0].ConfirmationStatus,
	}
	if resp.Value[0].Err != nil {
		status.ErrorResult = errors.Errorf("transaction failed: %v", resp.Value[0].Err)
	}

	return status, nil
}
