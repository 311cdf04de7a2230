package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/AlexZinkM/solwallet/internal/client"
	"github.com/AlexZinkM/solwallet/internal/common"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/metadata"
	"github.com/AlexZinkM/solwallet/internal/model"
	"github.com/AlexZinkM/solwallet/internal/pda"
	"github.com/AlexZinkM/solwallet/internal/validate"
)

// Balance gets the SOL and token holdings of address on every network and
// prices SOL when a currency is configured. A failed price lookup leaves the
// price empty.
func (e *Engine) Balance(ctx context.Context, address string, networks []string) (*model.BalanceResponse, error) {
	snapshots, err := e.Snapshot(ctx, address, networks)
	if err != nil {
		return nil, err
	}

	resp := &model.BalanceResponse{
		Address:   strings.TrimSpace(address),
		Snapshots: snapshots,
	}
	if e.opts.PriceCurrency != "" && e.opts.Prices != nil {
		resp.Currency = e.opts.PriceCurrency
		price, err := e.opts.Prices.GetSOLPrice(ctx, e.opts.PriceCurrency)
		if err != nil {
			log.Balance.Warn().Err(err).Str("currency", e.opts.PriceCurrency).Msg("Price lookup failed")
		} else {
			resp.Price = price
		}
	}
	return resp, nil
}

// Snapshot queries each network independently and concurrently. The result
// has one snapshot per network in input order; failures, including a
// network name that does not resolve, degrade the affected snapshot and
// never fail the call. Only an invalid address is an error.
func (e *Engine) Snapshot(ctx context.Context, address string, networks []string) ([]model.NetworkBalanceSnapshot, error) {
	const op = "solana.Snapshot"

	address = strings.TrimSpace(address)
	if !validate.IsValidAddress(address) {
		return nil, errs.Validation(op, "invalid address %q", address)
	}
	owner := solana.MustPublicKeyFromBase58(address)

	if len(networks) == 0 {
		networks = e.opts.Endpoints
	}

	snapshots := make([]model.NetworkBalanceSnapshot, len(networks))
	var g errgroup.Group
	for i, network := range networks {
		endpoint, err := e.endpoint(op, network)
		if err != nil {
			log.Balance.Warn().Err(err).Str("network", network).Msg("Skipping network")
			snapshots[i] = model.NetworkBalanceSnapshot{
				Network: strings.TrimSpace(network),
				Tokens:  []model.TokenAccountInfo{},
				Errors:  []string{err.Error()},
			}
			continue
		}
		g.Go(func() error {
			snapshots[i] = e.snapshot(ctx, owner, endpoint)
			return nil
		})
	}
	_ = g.Wait()
	return snapshots, nil
}

func (e *Engine) snapshot(ctx context.Context, owner solana.PublicKey, endpoint string) model.NetworkBalanceSnapshot {
	c := e.client(endpoint)
	snap := model.NetworkBalanceSnapshot{
		Network: endpoint,
		Tokens:  []model.TokenAccountInfo{},
	}
	degrade := func(method string, err error, fields map[string]any) {
		log.Balance.Warn().Err(err).Str("endpoint", endpoint).Str("method", method).Fields(fields).Msg("Balance step failed")
		snap.Errors = append(snap.Errors, fmt.Sprintf("%s: %v", method, err))
	}

	lamports, err := c.GetBalance(ctx, owner, "")
	if err != nil {
		degrade("getBalance", err, nil)
	} else {
		snap.Lamports = &lamports
		snap.SOL = common.LamportsToSOL(lamports)
	}

	index := map[string]int{}
	for _, program := range pda.TokenPrograms {
		accounts, err := c.GetTokenAccountsByOwner(ctx, owner, program, "")
		if err != nil {
			degrade("getTokenAccountsByOwner", err, map[string]any{"program": program.String()})
			continue
		}
		for _, acc := range accounts {
			info := model.TokenAccountInfo{
				Mint:      acc.Mint,
				ProgramID: program.String(),
				Account:   acc.Pubkey,
				Owner:     acc.Owner,
				Amount:    acc.Amount,
				Decimals:  acc.Decimals,
				UIAmount:  common.FormatUnits(acc.Amount, acc.Decimals),
			}
			if i, ok := index[acc.Mint]; ok {
				snap.Tokens[i] = info
				continue
			}
			index[acc.Mint] = len(snap.Tokens)
			snap.Tokens = append(snap.Tokens, info)
		}
	}

	for i := range snap.Tokens {
		e.attachMetadata(ctx, c, &snap.Tokens[i], degrade)
	}
	return snap
}

// attachMetadata fills both metadata variants of token. Each failure leaves
// its variant empty.
func (e *Engine) attachMetadata(ctx context.Context, c *client.SolanaClient, token *model.TokenAccountInfo, degrade func(string, error, map[string]any)) {
	mint, err := solana.PublicKeyFromBase58(token.Mint)
	if err != nil {
		degrade("metadata", errs.Wrap(errs.KindDecode, "solana.attachMetadata", err), map[string]any{"mint": token.Mint})
		return
	}
	fields := map[string]any{"mint": token.Mint}

	if token.ProgramID == pda.Token2022ProgramID.String() {
		acc, err := c.GetAccountInfo(ctx, mint)
		switch {
		case err != nil:
			degrade("getAccountInfo", err, fields)
		case acc != nil:
			md, err := metadata.Decode2022(acc.Data)
			if err != nil {
				degrade("metadata2022", err, fields)
			}
			token.Metadata2022 = md
		}
	}

	addr, err := pda.MetadataAddress(mint)
	if err != nil {
		degrade("metadataAddress", err, fields)
		return
	}
	token.MetadataAddress = addr.String()

	acc, err := c.GetAccountInfo(ctx, addr)
	if err != nil {
		degrade("getAccountInfo", err, fields)
		return
	}
	if acc == nil {
		return
	}
	md, err := metadata.DecodeMetaplex(acc.Data)
	if err != nil {
		degrade("metadataMetaplex", err, fields)
	}
	token.MetadataMetaplex = md
}
