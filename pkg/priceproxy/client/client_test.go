package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/pyth"
	"github.com/texture-fi/price-proxy/pkg/solana/superlendy"
	"github.com/texture-fi/price-proxy/pkg/solana/wormhole"
)

// fakeRPC implements solana.Client against in-memory accounts, recording
// every submitted transaction.
type fakeRPC struct {
	accounts  map[string]solana.AccountInfo
	slot      uint64
	submitted []solana.Transaction
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{accounts: make(map[string]solana.AccountInfo), slot: 42}
}

func (f *fakeRPC) setAccount(key ed25519.PublicKey, info solana.AccountInfo) {
	f.accounts[base58.Encode(key)] = info
}

func (f *fakeRPC) GetAccountInfo(key ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	info, ok := f.accounts[base58.Encode(key)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (f *fakeRPC) GetBalance(ed25519.PublicKey) (uint64, error) {
	return 0, nil
}

func (f *fakeRPC) GetEpochInfo(solana.Commitment) (solana.EpochInfo, error) {
	return solana.EpochInfo{}, nil
}

func (f *fakeRPC) GetLatestBlockhash() (solana.Blockhash, error) {
	return solana.Blockhash{1}, nil
}

func (f *fakeRPC) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	return 1000 + size, nil
}

func (f *fakeRPC) GetProgramAccounts(program ed25519.PublicKey, dataSize uint64) ([]solana.KeyedAccountInfo, uint64, error) {
	var accounts []solana.KeyedAccountInfo
	for encoded, info := range f.accounts {
		if uint64(len(info.Data)) != dataSize {
			continue
		}
		key, err := base58.Decode(encoded)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, solana.KeyedAccountInfo{Key: key, AccountInfo: info})
	}
	return accounts, f.slot, nil
}

func (f *fakeRPC) GetSignatureStatus(sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	return &solana.SignatureStatus{Slot: f.slot, ConfirmationStatus: "finalized"}, nil
}

func (f *fakeRPC) GetSlot(solana.Commitment) (uint64, error) {
	return f.slot, nil
}

func (f *fakeRPC) SubmitTransaction(txn solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	f.submitted = append(f.submitted, txn)
	return txn.Signatures[0], nil
}

func testAuthority(t *testing.T) ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func feedAccountInfo(t *testing.T, source priceproxy.PriceFeedSource, feedType priceproxy.FeedType, level priceproxy.WormholeVerificationLevel, authority, sourceAddress, transformSourceAddress ed25519.PublicKey) solana.AccountInfo {
	params, err := priceproxy.NewPriceFeedParams(
		feedType, "SOL", priceproxy.QuoteSymbolUSD, level, "", source, source)
	require.NoError(t, err)

	feed := priceproxy.NewPriceFeed(params, authority, sourceAddress, transformSourceAddress)
	require.NoError(t, feed.SetPrice(decimal.RequireFromString("1.25"), 100, 1))

	return solana.AccountInfo{
		Data:  feed.Marshal(),
		Owner: priceproxy.ProgramKey,
	}
}

func instructionPrograms(txn solana.Transaction) []string {
	programs := make([]string, 0, len(txn.Message.Instructions))
	for _, i := range txn.Message.Instructions {
		programs = append(programs, base58.Encode(txn.Message.Accounts[i.ProgramIndex]))
	}
	return programs
}

func TestCreatePriceFeed(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	c := New(rpc, authority)

	params, err := priceproxy.NewPriceFeedParams(
		priceproxy.FeedTypeDirect, "SOL", priceproxy.QuoteSymbolUSD,
		priceproxy.VerificationLevelFull, "",
		priceproxy.SourceOffChain, priceproxy.SourceOffChain)
	require.NoError(t, err)

	source := authority.Public().(ed25519.PublicKey)
	view, err := c.CreatePriceFeed(params, source, source)
	require.NoError(t, err)
	assert.NotEmpty(t, view.PriceFeed)
	assert.NotEmpty(t, view.Signature)
	assert.Empty(t, view.Error)

	require.Len(t, rpc.submitted, 1)
	txn := rpc.submitted[0]
	// payer plus the fresh feed keypair sign
	assert.EqualValues(t, 2, txn.Message.Header.NumSignatures)
	require.Len(t, txn.Message.Instructions, 1)
	assert.Equal(t, byte(priceproxy.InstructionTypeCreatePriceFeed), txn.Message.Instructions[0].Data[0])
}

func TestWritePriceAndViews(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourceOffChain, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, authorityKey, authorityKey))

	view, err := c.WritePrice(feedKey, decimal.RequireFromString("2.5"), 200)
	require.NoError(t, err)
	assert.NotEmpty(t, view.Signature)

	feedView, err := c.PriceFeed(feedKey)
	require.NoError(t, err)
	assert.Equal(t, "SOL", feedView.Symbol)
	assert.Equal(t, "1.25", feedView.Price)
	assert.Equal(t, "OffChain", feedView.Source)
	assert.EqualValues(t, 42, feedView.Slot)

	feedsView, err := c.PriceFeeds()
	require.NoError(t, err)
	require.Len(t, feedsView.PriceFeeds, 1)
	assert.Equal(t, feedView.Key, feedsView.PriceFeeds[0].Key)
}

func TestForcePriceFeedTimestamps(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	offChainKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(offChainKey, feedAccountInfo(t,
		priceproxy.SourceOffChain, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, authorityKey, authorityKey))

	pythKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(pythKey, feedAccountInfo(t,
		priceproxy.SourcePyth, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, authorityKey, authorityKey))

	missingKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	views := c.ForcePriceFeedTimestamps([]ed25519.PublicKey{offChainKey, pythKey, missingKey})
	require.Len(t, views, 3)

	assert.NotEmpty(t, views[0].Signature)
	assert.Empty(t, views[0].Error)

	assert.Empty(t, views[1].Signature)
	assert.Contains(t, views[1].Error, "OffChain")

	assert.Empty(t, views[2].Signature)
	assert.NotEmpty(t, views[2].Error)
}

func TestHolisticUpdatePrice_OnChainSource(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sourceKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourceSwitchboard, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, sourceKey, sourceKey))

	views, err := c.HolisticUpdatePrice(feedKey, 60)
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.Len(t, rpc.submitted, 1)
	txn := rpc.submitted[0]
	require.Len(t, txn.Message.Instructions, 1)
	assert.Equal(t, byte(priceproxy.InstructionTypeUpdatePrice), txn.Message.Instructions[0].Data[0])
}

func reserveAccountInfo(t *testing.T, marketPriceFeed, irm ed25519.PublicKey) solana.AccountInfo {
	reserve := superlendy.Reserve{
		Version:         superlendy.ReserveVersion,
		LastUpdate:      superlendy.LastUpdate{Slot: 40, Timestamp: 980},
		MarketPriceFeed: marketPriceFeed,
		Irm:             irm,
	}
	reserve.SetLpMarketPrice(decimal.RequireFromString("1.15"))

	data, err := reserve.Marshal()
	require.NoError(t, err)

	return solana.AccountInfo{Data: data, Owner: superlendy.ProgramKey}
}

func TestHolisticUpdatePrice_SuperLendySource(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	reserveKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	marketFeedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	aggregatorKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	irmKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourceSuperLendy, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, reserveKey, reserveKey))
	rpc.setAccount(reserveKey, reserveAccountInfo(t, marketFeedKey, irmKey))
	rpc.setAccount(marketFeedKey, feedAccountInfo(t,
		priceproxy.SourceSwitchboard, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, aggregatorKey, aggregatorKey))

	views, err := c.HolisticUpdatePrice(feedKey, 60)
	require.NoError(t, err)

	// market feed update, reserve refresh, feed update
	require.Len(t, views, 3)
	require.Len(t, rpc.submitted, 3)

	marketUpdate := rpc.submitted[0]
	require.Len(t, marketUpdate.Message.Instructions, 1)
	assert.Equal(t, byte(priceproxy.InstructionTypeUpdatePrice), marketUpdate.Message.Instructions[0].Data[0])
	assert.Equal(t,
		[]string{base58.Encode(priceproxy.ProgramKey)},
		instructionPrograms(marketUpdate))

	refresh := rpc.submitted[1]
	assert.Equal(t,
		[]string{base58.Encode(superlendy.ProgramKey)},
		instructionPrograms(refresh))

	feedUpdate := rpc.submitted[2]
	require.Len(t, feedUpdate.Message.Instructions, 1)
	assert.Equal(t, byte(priceproxy.InstructionTypeUpdatePrice), feedUpdate.Message.Instructions[0].Data[0])
}

func TestHolisticUpdatePrice_SuperLendyOffChainMarketFeed(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	reserveKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	marketFeedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	irmKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourceSuperLendy, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, reserveKey, reserveKey))
	rpc.setAccount(reserveKey, reserveAccountInfo(t, marketFeedKey, irmKey))
	rpc.setAccount(marketFeedKey, feedAccountInfo(t,
		priceproxy.SourceOffChain, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, authorityKey, authorityKey))

	views, err := c.HolisticUpdatePrice(feedKey, 60)
	require.NoError(t, err)

	// an off-chain market feed is not updated, only refresh and feed update
	require.Len(t, views, 2)
	require.Len(t, rpc.submitted, 2)
	assert.Equal(t,
		[]string{base58.Encode(superlendy.ProgramKey)},
		instructionPrograms(rpc.submitted[0]))
}

func TestHolisticUpdatePrice_UnsupportedSource(t *testing.T) {
	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority)

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourceOffChain, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, authorityKey, authorityKey))

	_, err = c.HolisticUpdatePrice(feedKey, 60)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

// accumulatorFixture builds a minimal hermes message: a VAA carrying 13
// guardian signatures and one merkle price update.
func accumulatorFixture() []byte {
	vaa := []byte{1, 0, 0, 0, 4, 13}
	for i := 0; i < 13; i++ {
		sig := make([]byte, 66)
		sig[0] = byte(i)
		vaa = append(vaa, sig...)
	}
	vaa = append(vaa, 0xde, 0xad, 0xbe, 0xef)

	message := []byte{0xaa, 0xbb, 0xcc}
	proof := [20]byte{0x01}

	data := []byte("PNAU")
	data = append(data, 1, 0)
	data = append(data, 0)
	data = append(data, 0)
	data = append(data, byte(len(vaa)>>8), byte(len(vaa)))
	data = append(data, vaa...)
	data = append(data, 1)
	data = append(data, 0, byte(len(message)))
	data = append(data, message...)
	data = append(data, 1)
	data = append(data, proof[:]...)

	return data
}

func TestHolisticUpdatePrice_PythPartialRelay(t *testing.T) {
	fixture := accumulatorFixture()

	var queried string
	hermes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queried = r.URL.Query().Get("ids[]")
		_ = json.NewEncoder(w).Encode([]string{base64.StdEncoding.EncodeToString(fixture)})
	}))
	defer hermes.Close()

	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority, WithHermesURL(hermes.URL))

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	feedID, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourcePyth, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelPartial, authorityKey, feedID, feedID))

	views, err := c.HolisticUpdatePrice(feedKey, 60)
	require.NoError(t, err)

	// atomic post, update price, reclaim rent
	require.Len(t, views, 3)
	require.Len(t, rpc.submitted, 3)
	assert.NotEmpty(t, queried)

	post := rpc.submitted[0]
	assert.Equal(t, []string{base58.Encode(pyth.ProgramKey)}, instructionPrograms(post))
	// payer plus the scratch price update account sign
	assert.EqualValues(t, 2, post.Message.Header.NumSignatures)

	update := rpc.submitted[1]
	require.Len(t, update.Message.Instructions, 1)
	assert.Equal(t, byte(priceproxy.InstructionTypeUpdatePrice), update.Message.Instructions[0].Data[0])

	reclaim := rpc.submitted[2]
	assert.Equal(t, []string{base58.Encode(pyth.ProgramKey)}, instructionPrograms(reclaim))
}

func TestHolisticUpdatePrice_PythFullRelay(t *testing.T) {
	fixture := accumulatorFixture()

	hermes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{base64.StdEncoding.EncodeToString(fixture)})
	}))
	defer hermes.Close()

	rpc := newFakeRPC()
	authority := testAuthority(t)
	authorityKey := authority.Public().(ed25519.PublicKey)
	c := New(rpc, authority, WithHermesURL(hermes.URL))

	feedKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	feedID, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rpc.setAccount(feedKey, feedAccountInfo(t,
		priceproxy.SourcePyth, priceproxy.FeedTypeDirect,
		priceproxy.VerificationLevelFull, authorityKey, feedID, feedID))

	views, err := c.HolisticUpdatePrice(feedKey, 60)
	require.NoError(t, err)

	// write encoded vaa, verify and post, update price, close scratch
	require.Len(t, views, 4)
	require.Len(t, rpc.submitted, 4)

	write := rpc.submitted[0]
	require.Len(t, write.Message.Instructions, 3)
	assert.EqualValues(t, 2, write.Message.Header.NumSignatures)

	post := rpc.submitted[1]
	require.Len(t, post.Message.Instructions, 4)

	cleanup := rpc.submitted[3]
	assert.Equal(t,
		[]string{base58.Encode(wormhole.ProgramKey), base58.Encode(pyth.ProgramKey)},
		instructionPrograms(cleanup))
}
