package solana

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/metadata"
	"github.com/AlexZinkM/solwallet/internal/pda"
	"github.com/AlexZinkM/solwallet/internal/rpctest"
)

// token2022Mint is a mint owned by the Token-2022 program in these tests.
const token2022Mint = onesKey

func metadataFields(mint string, name, symbol, uri string) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 32))
	buf.Write(solana.MustPublicKeyFromBase58(mint).Bytes())
	for _, s := range []string{name, symbol, uri} {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	}
	return buf.Bytes()
}

func token2022Account(mint, name, symbol, uri string) []byte {
	return append(make([]byte, metadata.Token2022HeaderSize), metadataFields(mint, name, symbol, uri)...)
}

func metaplexAccount(mint, name, symbol, uri string) []byte {
	data := append([]byte{4}, metadataFields(mint, name, symbol, uri)...)
	return append(data, make([]byte, metadata.MetaplexAccountSize-len(data))...)
}

func metaplexAddress(t *testing.T, mint string) string {
	t.Helper()
	addr, err := pda.MetadataAddress(solana.MustPublicKeyFromBase58(mint))
	require.NoError(t, err)
	return addr.String()
}

// balanceServer serves one USDC account under the token program and one
// Token-2022 account, each with metadata.
func balanceServer(t *testing.T, lamports uint64) *rpctest.Server {
	t.Helper()
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", rpctest.ContextValue(lamports))
	srv.Handle("getTokenAccountsByOwner", func(params []json.RawMessage) (any, *rpctest.Error) {
		var filter map[string]string
		_ = json.Unmarshal(params[1], &filter)
		if filter["programId"] == pda.Token2022ProgramID.String() {
			return rpctest.ContextValue([]any{
				rpctest.TokenAccount(twosKey, token2022Mint, abandonAddress, "42", 0),
			}), nil
		}
		return rpctest.ContextValue([]any{
			rpctest.TokenAccount(onesKey, usdcMint, abandonAddress, "2500000", 6),
		}), nil
	})

	usdcMeta := metaplexAddress(t, usdcMint)
	srv.Handle("getAccountInfo", func(params []json.RawMessage) (any, *rpctest.Error) {
		var addr string
		_ = json.Unmarshal(params[0], &addr)
		switch addr {
		case token2022Mint:
			data := token2022Account(token2022Mint, "Point", "PT", "https://example.com/pt.json")
			return rpctest.ContextValue(rpctest.AccountInfo(pda.Token2022ProgramID.String(), data)), nil
		case usdcMeta:
			data := metaplexAccount(usdcMint, "USD Coin\x00\x00", "USDC\x00", "")
			return rpctest.ContextValue(rpctest.AccountInfo(pda.MetadataProgramID.String(), data)), nil
		default:
			return rpctest.ContextValue(nil), nil
		}
	})
	return srv
}

func TestSnapshot(t *testing.T) {
	srv := balanceServer(t, 1_500_000_000)

	snaps, err := testEngine(srv.URL).Snapshot(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	snap := snaps[0]
	assert.Equal(t, srv.URL, snap.Network)
	require.NotNil(t, snap.Lamports)
	assert.Equal(t, uint64(1_500_000_000), *snap.Lamports)
	assert.Equal(t, "1.500000000", snap.SOL)
	assert.Empty(t, snap.Errors)
	require.Len(t, snap.Tokens, 2)

	usdc := snap.Tokens[0]
	assert.Equal(t, usdcMint, usdc.Mint)
	assert.Equal(t, pda.TokenProgramID.String(), usdc.ProgramID)
	assert.Equal(t, uint64(2_500_000), usdc.Amount)
	assert.Equal(t, "2.500000", usdc.UIAmount)
	assert.Equal(t, metaplexAddress(t, usdcMint), usdc.MetadataAddress)
	assert.Equal(t, "USD Coin", usdc.MetadataMetaplex.Name)
	assert.Equal(t, "USDC", usdc.MetadataMetaplex.Symbol)
	assert.True(t, usdc.Metadata2022.IsZero())

	point := snap.Tokens[1]
	assert.Equal(t, token2022Mint, point.Mint)
	assert.Equal(t, "42", point.UIAmount)
	assert.Equal(t, "Point", point.Metadata2022.Name)
	assert.Equal(t, "https://example.com/pt.json", point.Metadata2022.URI)
	assert.Equal(t, token2022Mint, point.Metadata2022.Mint)
	assert.True(t, point.MetadataMetaplex.IsZero())

	// Balance queries carry no commitment.
	for _, call := range srv.Calls("getBalance") {
		assert.Len(t, call.Params, 1)
	}
	for _, call := range srv.Calls("getTokenAccountsByOwner") {
		assert.Equal(t, map[string]any{"encoding": "jsonParsed"}, paramObject(t, call.Params[2]))
	}
}

func TestSnapshotRepeatedMintLastWins(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", rpctest.ContextValue(1))
	srv.HandleResult("getAccountInfo", rpctest.ContextValue(nil))
	srv.Handle("getTokenAccountsByOwner", func(params []json.RawMessage) (any, *rpctest.Error) {
		var filter map[string]string
		_ = json.Unmarshal(params[1], &filter)
		if filter["programId"] == pda.Token2022ProgramID.String() {
			return rpctest.ContextValue([]any{}), nil
		}
		return rpctest.ContextValue([]any{
			rpctest.TokenAccount(onesKey, usdcMint, abandonAddress, "1", 6),
			rpctest.TokenAccount(twosKey, token2022Mint, abandonAddress, "5", 0),
			rpctest.TokenAccount(abandonAddress, usdcMint, abandonAddress, "7", 6),
		}), nil
	})

	snaps, err := testEngine(srv.URL).Snapshot(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	tokens := snaps[0].Tokens
	require.Len(t, tokens, 2)
	assert.Equal(t, usdcMint, tokens[0].Mint)
	assert.Equal(t, uint64(7), tokens[0].Amount)
	assert.Equal(t, abandonAddress, tokens[0].Account)
	assert.Equal(t, token2022Mint, tokens[1].Mint)
}

func TestSnapshotMetadataFailureKeepsToken(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", rpctest.ContextValue(1))
	srv.Handle("getTokenAccountsByOwner", func(params []json.RawMessage) (any, *rpctest.Error) {
		var filter map[string]string
		_ = json.Unmarshal(params[1], &filter)
		if filter["programId"] == pda.Token2022ProgramID.String() {
			return rpctest.ContextValue([]any{}), nil
		}
		return rpctest.ContextValue([]any{
			rpctest.TokenAccount(onesKey, usdcMint, abandonAddress, "3", 0),
		}), nil
	})
	// The name length points far past the end of the account.
	bad := make([]byte, metadata.MetaplexAccountSize)
	binary.LittleEndian.PutUint32(bad[65:], 0xFFFF)
	srv.HandleResult("getAccountInfo", rpctest.ContextValue(rpctest.AccountInfo(pda.MetadataProgramID.String(), bad)))

	snaps, err := testEngine(srv.URL).Snapshot(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	require.Len(t, snaps[0].Tokens, 1)
	tok := snaps[0].Tokens[0]
	assert.Equal(t, uint64(3), tok.Amount)
	assert.True(t, tok.MetadataMetaplex.IsZero())
	assert.Len(t, snaps[0].Errors, 1)
}

// One endpoint rate limits the first request, the other always fails: the
// first snapshot succeeds after the advertised wait and the second comes
// back empty.
func TestSnapshotIsolatesEndpoints(t *testing.T) {
	limited := balanceServer(t, 2_000_000_000)
	var throttled atomic.Bool
	limited.Intercept(func(w http.ResponseWriter, call rpctest.Call) bool {
		if call.Method == "getBalance" && throttled.CompareAndSwap(false, true) {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return true
		}
		return false
	})

	broken := rpctest.NewServer(t)
	broken.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		w.WriteHeader(http.StatusInternalServerError)
		return true
	})

	e := testEngine()
	start := time.Now()
	snaps, err := e.Snapshot(context.Background(), abandonAddress, []string{limited.URL, broken.URL})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Second)

	assert.Equal(t, limited.URL, snaps[0].Network)
	require.NotNil(t, snaps[0].Lamports)
	assert.Equal(t, uint64(2_000_000_000), *snaps[0].Lamports)
	assert.Len(t, snaps[0].Tokens, 2)
	assert.Empty(t, snaps[0].Errors)
	assert.Len(t, limited.Calls("getBalance"), 2)

	assert.Equal(t, broken.URL, snaps[1].Network)
	assert.Nil(t, snaps[1].Lamports)
	assert.Empty(t, snaps[1].SOL)
	assert.Empty(t, snaps[1].Tokens)
	assert.Len(t, snaps[1].Errors, 3)
}

func TestSnapshotRejects(t *testing.T) {
	e := testEngine("http://127.0.0.1:1")

	_, err := e.Snapshot(context.Background(), "bad", nil)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestSnapshotUnknownNetworkIsIsolated(t *testing.T) {
	srv := balanceServer(t, 1)
	e := testEngine(srv.URL)

	snaps, err := e.Snapshot(context.Background(), abandonAddress, []string{"moonnet", srv.URL})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, "moonnet", snaps[0].Network)
	assert.Nil(t, snaps[0].Lamports)
	assert.Empty(t, snaps[0].Tokens)
	require.Len(t, snaps[0].Errors, 1)
	assert.Contains(t, snaps[0].Errors[0], "unknown network")

	assert.Equal(t, srv.URL, snaps[1].Network)
	require.NotNil(t, snaps[1].Lamports)
	assert.Empty(t, snaps[1].Errors)
}

type fixedPrice struct {
	price string
	err   error
}

func (f fixedPrice) GetSOLPrice(context.Context, string) (string, error) {
	return f.price, f.err
}

func TestBalancePrice(t *testing.T) {
	srv := balanceServer(t, 1)

	e := New(Options{Endpoints: []string{srv.URL}, PriceCurrency: "eur", Prices: fixedPrice{price: "141.27"}})
	resp, err := e.Balance(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, abandonAddress, resp.Address)
	assert.Equal(t, "eur", resp.Currency)
	assert.Equal(t, "141.27", resp.Price)
	assert.Len(t, resp.Snapshots, 1)

	e = New(Options{Endpoints: []string{srv.URL}, PriceCurrency: "eur", Prices: fixedPrice{err: errors.New("down")}})
	resp, err = e.Balance(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Price)

	resp, err = testEngine(srv.URL).Balance(context.Background(), abandonAddress, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Currency)
}
