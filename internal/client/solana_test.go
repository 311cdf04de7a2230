package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/rpctest"
)

const (
	testOwner = "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk"
	testMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	tokenProg = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

func mustKey(t *testing.T) solana.PublicKey {
	t.Helper()
	return solana.MustPublicKeyFromBase58(testOwner)
}

func decodeParam(t *testing.T, raw json.RawMessage) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestGetBalanceParams(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", rpctest.ContextValue(1500))

	c := NewSolanaClient(srv.URL)
	bal, err := c.GetBalance(context.Background(), mustKey(t), rpc.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), bal)

	calls := srv.Calls("getBalance")
	require.Len(t, calls, 1)
	assert.Equal(t, testOwner, decodeParam(t, calls[0].Params[0]))
	assert.Equal(t, map[string]any{"commitment": "confirmed"}, decodeParam(t, calls[0].Params[1]))
}

func TestGetTokenAccountsByOwner(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getTokenAccountsByOwner", rpctest.ContextValue([]any{
		rpctest.TokenAccount("Acc1111111111111111111111111111111111111111", testMint, testOwner, "2500000", 6),
		rpctest.TokenAccount("Acc2222222222222222222222222222222222222222", "So11111111111111111111111111111111111111112", testOwner, "0", 9),
	}))

	c := NewSolanaClient(srv.URL)
	accounts, err := c.GetTokenAccountsByOwner(context.Background(), mustKey(t),
		solana.MustPublicKeyFromBase58(tokenProg), rpc.CommitmentFinalized)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, TokenAccount{
		Pubkey:   "Acc1111111111111111111111111111111111111111",
		Mint:     testMint,
		Owner:    testOwner,
		Amount:   2_500_000,
		Decimals: 6,
	}, accounts[0])
	assert.Equal(t, uint8(9), accounts[1].Decimals)

	params := srv.Calls("getTokenAccountsByOwner")[0].Params
	assert.Equal(t, map[string]any{"programId": tokenProg}, decodeParam(t, params[1]))
	assert.Equal(t, map[string]any{"encoding": "jsonParsed", "commitment": "finalized"}, decodeParam(t, params[2]))
}

func TestGetTokenAccountsByOwnerNoCommitment(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getTokenAccountsByOwner", rpctest.ContextValue([]any{}))

	accounts, err := NewSolanaClient(srv.URL).GetTokenAccountsByOwner(context.Background(), mustKey(t),
		solana.MustPublicKeyFromBase58(tokenProg), "")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	params := srv.Calls("getTokenAccountsByOwner")[0].Params
	assert.Equal(t, map[string]any{"encoding": "jsonParsed"}, decodeParam(t, params[2]))
}

func TestGetTokenAccountsByOwnerBadAmount(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getTokenAccountsByOwner", rpctest.ContextValue([]any{
		rpctest.TokenAccount("Acc1", testMint, testOwner, "-5", 6),
	}))

	_, err := NewSolanaClient(srv.URL).GetTokenAccountsByOwner(context.Background(), mustKey(t),
		solana.MustPublicKeyFromBase58(tokenProg), "")
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
}

func TestGetAccountInfo(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getAccountInfo", rpctest.ContextValue(rpctest.AccountInfo(tokenProg, []byte{1, 2, 3})))

	info, err := NewSolanaClient(srv.URL).GetAccountInfo(context.Background(), mustKey(t))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, tokenProg, info.Owner.String())
	assert.Equal(t, []byte{1, 2, 3}, info.Data)

	params := srv.Calls("getAccountInfo")[0].Params
	assert.Equal(t, map[string]any{"encoding": "base64"}, decodeParam(t, params[1]))
}

func TestGetAccountInfoMissing(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getAccountInfo", rpctest.ContextValue(nil))

	info, err := NewSolanaClient(srv.URL).GetAccountInfo(context.Background(), mustKey(t))
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetLatestBlockhash(t *testing.T) {
	hash := solana.HashFromBytes(make([]byte, 32))
	hash[0] = 9

	srv := rpctest.NewServer(t)
	srv.HandleResult("getLatestBlockhash", rpctest.ContextValue(map[string]any{
		"blockhash":            hash.String(),
		"lastValidBlockHeight": 100,
	}))

	got, err := NewSolanaClient(srv.URL).GetLatestBlockhash(context.Background(), rpc.CommitmentFinalized)
	require.NoError(t, err)
	assert.Equal(t, hash, got)
	params := srv.Calls("getLatestBlockhash")[0].Params
	assert.Equal(t, map[string]any{"commitment": "finalized"}, decodeParam(t, params[0]))
}

func TestSendTransaction(t *testing.T) {
	var sig solana.Signature
	sig[0] = 1
	srv := rpctest.NewServer(t)
	srv.HandleResult("sendTransaction", sig.String())

	got, err := NewSolanaClient(srv.URL).SendTransaction(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	params := srv.Calls("sendTransaction")[0].Params
	assert.Equal(t, "Ldp", decodeParam(t, params[0]))
	assert.Equal(t, "base58", decodeParam(t, params[1]).(map[string]any)["encoding"])
}

func TestSendTransactionRPCError(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleError("sendTransaction", -32002, "Transaction simulation failed: Blockhash not found")

	_, err := NewSolanaClient(srv.URL).SendTransaction(context.Background(), []byte{1})
	assert.Equal(t, errs.KindRPC, errs.KindOf(err))
}

func TestGetSignatureStatus(t *testing.T) {
	var sig solana.Signature
	srv := rpctest.NewServer(t)
	srv.HandleResult("getSignatureStatuses", rpctest.ContextValue([]any{
		rpctest.SignatureStatus(77, "confirmed", nil),
	}))

	st, err := NewSolanaClient(srv.URL).GetSignatureStatus(context.Background(), sig)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, uint64(77), st.Slot)
	assert.Equal(t, "confirmed", st.ConfirmationStatus)
	assert.Nil(t, st.Err)

	params := srv.Calls("getSignatureStatuses")[0].Params
	assert.Equal(t, []any{sig.String()}, decodeParam(t, params[0]))
	assert.Equal(t, map[string]any{"searchTransactionHistory": false}, decodeParam(t, params[1]))
}

func TestGetSignatureStatusUnknown(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getSignatureStatuses", rpctest.ContextValue([]any{nil}))

	st, err := NewSolanaClient(srv.URL).GetSignatureStatus(context.Background(), solana.Signature{})
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getMinimumBalanceForRentExemption", 1238880)

	v, err := NewSolanaClient(srv.URL).GetMinimumBalanceForRentExemption(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1238880), v)
	assert.Equal(t, float64(50), decodeParam(t, srv.Calls("")[0].Params[0]))
}

func TestCoinGeckoGetSOLPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "solana", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"solana":{"usd":142.168}}`))
	}))
	defer srv.Close()

	price, err := NewCoinGeckoClientWithURL(srv.URL).GetSOLPrice(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "142.17", price)
}

func TestCoinGeckoErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currencies") == "xxx" {
			_, _ = w.Write([]byte(`{"solana":{}}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithURL(srv.URL)
	_, err := c.GetSOLPrice(context.Background(), "xxx")
	assert.Error(t, err)
	_, err = c.GetSOLPrice(context.Background(), "eur")
	assert.Error(t, err)
	_, err = c.GetSOLPrice(context.Background(), "")
	assert.Error(t, err)
}
