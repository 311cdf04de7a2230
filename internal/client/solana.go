package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/solwallet/internal/codec"
	"github.com/AlexZinkM/solwallet/internal/errs"
)

// SolanaClient is a client for the Solana RPC methods the wallet uses.
type SolanaClient struct {
	*Transport
}

// NewSolanaClient creates a client for endpoint.
func NewSolanaClient(endpoint string, opts ...TransportOption) *SolanaClient {
	return &SolanaClient{Transport: NewTransport(endpoint, opts...)}
}

type contextValue[T any] struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value T `json:"value"`
}

func commitmentConfig(commitment rpc.CommitmentType) map[string]any {
	cfg := map[string]any{}
	if commitment != "" {
		cfg["commitment"] = commitment
	}
	return cfg
}

// GetBalance returns the lamport balance of address.
func (c *SolanaClient) GetBalance(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	var out contextValue[uint64]
	params := []any{address.String()}
	if commitment != "" {
		params = append(params, commitmentConfig(commitment))
	}
	if err := c.Call(ctx, "getBalance", params, &out); err != nil {
		return 0, err
	}
	return out.Value, nil
}

// TokenAccount is one jsonParsed entry of getTokenAccountsByOwner.
type TokenAccount struct {
	Pubkey   string
	Mint     string
	Owner    string
	Amount   uint64
	Decimals uint8
}

// tokenAccountInfo represents token account info from RPC.
type tokenAccountInfo struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string `json:"mint"`
					Owner       string `json:"owner"`
					TokenAmount struct {
						Amount   string `json:"amount"`
						Decimals uint8  `json:"decimals"`
					} `json:"tokenAmount"`
				} `json:"info"`
				Type string `json:"type"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

// GetTokenAccountsByOwner lists owner's token accounts under programID using
// jsonParsed encoding. RPC order is preserved.
func (c *SolanaClient) GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey, commitment rpc.CommitmentType) ([]TokenAccount, error) {
	const op = "rpc.getTokenAccountsByOwner"

	cfg := commitmentConfig(commitment)
	cfg["encoding"] = solana.EncodingJSONParsed

	var out contextValue[[]tokenAccountInfo]
	params := []any{
		owner.String(),
		map[string]string{"programId": programID.String()},
		cfg,
	}
	if err := c.Call(ctx, "getTokenAccountsByOwner", params, &out); err != nil {
		return nil, err
	}

	accounts := make([]TokenAccount, 0, len(out.Value))
	for _, item := range out.Value {
		info := item.Account.Data.Parsed.Info
		var amount uint64
		if info.TokenAmount.Amount != "" {
			v, err := strconv.ParseUint(info.TokenAmount.Amount, 10, 64)
			if err != nil {
				return nil, errs.Wrap(errs.KindTransport, op, fmt.Errorf("failed to parse token amount %q: %w", info.TokenAmount.Amount, err))
			}
			amount = v
		}
		accounts = append(accounts, TokenAccount{
			Pubkey:   item.Pubkey,
			Mint:     info.Mint,
			Owner:    info.Owner,
			Amount:   amount,
			Decimals: info.TokenAmount.Decimals,
		})
	}
	return accounts, nil
}

// AccountInfo is a base64-decoded account.
type AccountInfo struct {
	Owner      solana.PublicKey
	Lamports   uint64
	Executable bool
	Data       []byte
}

type accountInfoJSON struct {
	Owner      string   `json:"owner"`
	Lamports   uint64   `json:"lamports"`
	Executable bool     `json:"executable"`
	Data       []string `json:"data"`
}

// GetAccountInfo fetches address with base64 encoding. A missing account
// yields nil without error.
func (c *SolanaClient) GetAccountInfo(ctx context.Context, address solana.PublicKey) (*AccountInfo, error) {
	const op = "rpc.getAccountInfo"

	var out contextValue[*accountInfoJSON]
	params := []any{address.String(), map[string]any{"encoding": solana.EncodingBase64}}
	if err := c.Call(ctx, "getAccountInfo", params, &out); err != nil {
		return nil, err
	}
	if out.Value == nil {
		return nil, nil
	}

	owner, err := solana.PublicKeyFromBase58(out.Value.Owner)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransport, op, fmt.Errorf("invalid account owner: %w", err))
	}
	data, err := codec.DecodeAccountData(out.Value.Data)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, op, err)
	}
	return &AccountInfo{
		Owner:      owner,
		Lamports:   out.Value.Lamports,
		Executable: out.Value.Executable,
		Data:       data,
	}, nil
}

// GetLatestBlockhash returns the most recent blockhash at commitment.
func (c *SolanaClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	const op = "rpc.getLatestBlockhash"

	var out contextValue[struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	}]
	if err := c.Call(ctx, "getLatestBlockhash", []any{commitmentConfig(commitment)}, &out); err != nil {
		return solana.Hash{}, err
	}
	hash, err := solana.HashFromBase58(out.Value.Blockhash)
	if err != nil {
		return solana.Hash{}, errs.Wrap(errs.KindTransport, op, fmt.Errorf("invalid blockhash: %w", err))
	}
	return hash, nil
}

// SendTransaction submits a signed, serialized transaction as base58.
func (c *SolanaClient) SendTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	const op = "rpc.sendTransaction"

	var sig string
	params := []any{
		codec.EncodeBase58(raw),
		map[string]any{
			"encoding":            solana.EncodingBase58,
			"preflightCommitment": rpc.CommitmentFinalized,
		},
	}
	if err := c.Call(ctx, "sendTransaction", params, &sig); err != nil {
		return solana.Signature{}, err
	}
	out, err := solana.SignatureFromBase58(sig)
	if err != nil {
		return solana.Signature{}, errs.Wrap(errs.KindTransport, op, fmt.Errorf("invalid signature in response: %w", err))
	}
	return out, nil
}

// SignatureStatus is one entry of getSignatureStatuses.
type SignatureStatus struct {
	Slot               uint64  `json:"slot"`
	Confirmations      *uint64 `json:"confirmations"`
	Err                any     `json:"err"`
	ConfirmationStatus string  `json:"confirmationStatus"`
}

// GetSignatureStatus looks up sig without searching transaction history.
// A signature the node has not seen yields nil.
func (c *SolanaClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	var out contextValue[[]*SignatureStatus]
	params := []any{
		[]string{sig.String()},
		map[string]bool{"searchTransactionHistory": false},
	}
	if err := c.Call(ctx, "getSignatureStatuses", params, &out); err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for an
// account of size bytes.
func (c *SolanaClient) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var out uint64
	if err := c.Call(ctx, "getMinimumBalanceForRentExemption", []any{size}, &out); err != nil {
		return 0, err
	}
	return out, nil
}
