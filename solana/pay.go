package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/solwallet/internal/client"
	"github.com/AlexZinkM/solwallet/internal/common"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/instructions"
	"github.com/AlexZinkM/solwallet/internal/keys"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
	"github.com/AlexZinkM/solwallet/internal/pda"
	"github.com/AlexZinkM/solwallet/internal/validate"
)

const (
	solFeeLamports = 5000 // Fee in lamports (0.000005 SOL)

	// rentFloorAccountSize is the account size the spendable floor is
	// computed for.
	rentFloorAccountSize = 50
)

// transfer is the validated form shared by both transfer kinds.
type transfer struct {
	endpoint string
	client   *client.SolanaClient
	signer   *keys.KeyPair
	to       solana.PublicKey
	target   rpc.CommitmentType
}

func (e *Engine) prepare(op, network, from, privateKeyHex, secret, to, amount, commitment string) (*transfer, error) {
	to = strings.TrimSpace(to)
	if !validate.IsValidAddress(to) {
		return nil, errs.Validation(op, "invalid recipient address %q", to)
	}
	if !validate.IsValidAmount(amount) {
		return nil, errs.Validation(op, "invalid amount %q", amount)
	}
	target, err := parseCommitment(op, commitment, e.opts.ConfirmCommitment)
	if err != nil {
		return nil, err
	}
	endpoint, err := e.endpoint(op, network)
	if err != nil {
		return nil, err
	}
	signer, err := ResolveSigner(from, privateKeyHex, secret)
	if err != nil {
		return nil, err
	}
	return &transfer{
		endpoint: endpoint,
		client:   e.client(endpoint),
		signer:   signer,
		to:       solana.MustPublicKeyFromBase58(to),
		target:   target,
	}, nil
}

// TransferSOL sends SOL and waits for the configured commitment. The amount
// must stay below the fresh balance minus the rent floor. Once the
// transaction is submitted, a failure returns the partial result, with the
// signature, alongside the error.
func (e *Engine) TransferSOL(ctx context.Context, req model.SOLTransferRequest) (*model.TransferResult, error) {
	const op = "solana.TransferSOL"

	t, err := e.prepare(op, req.Network, req.From, req.PrivateKeyHex, req.Secret, req.To, req.Amount, req.ConfirmCommitment)
	if err != nil {
		return nil, err
	}
	lamports, err := common.SOLToLamports(req.Amount)
	if err != nil {
		return nil, errs.Validation(op, "invalid amount: %v", err)
	}
	if lamports == 0 {
		return nil, errs.Validation(op, "amount %s is below one lamport", req.Amount)
	}

	from := t.signer.PublicKey()
	before, err := t.client.GetBalance(ctx, from, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	floor := e.rentFloor(ctx, t.client)
	if before <= floor || lamports >= before-floor {
		var maxSend uint64
		if before > floor+1 {
			maxSend = before - floor - 1
		}
		return nil, errs.Newf(errs.KindInsufficientBalance, op,
			"insufficient SOL balance: have %s SOL, rent floor %s SOL, max you can send %s SOL",
			common.LamportsToSOL(before), common.LamportsToSOL(floor), common.LamportsToSOL(maxSend))
	}

	sig, err := e.submit(ctx, t, instructions.SystemTransfer(from, t.to, lamports))
	if err != nil {
		return nil, err
	}
	log.Transfer.Info().Str("signature", sig.String()).Str("from", from.String()).Str("to", t.to.String()).
		Uint64("lamports", lamports).Msg("SOL transfer submitted")

	result := &model.TransferResult{Signature: sig.String(), BalanceBefore: before}
	if err := e.finish(ctx, t, sig, result); err != nil {
		return result, err
	}
	if spent := lamports + result.BalanceAfter; result.BalanceAfter > 0 && before > spent {
		result.Fee = before - spent
	}
	return result, nil
}

// TransferToken sends amount of mint, creating the recipient's associated
// token account when the recipient holds no account for the mint.
func (e *Engine) TransferToken(ctx context.Context, req model.TokenTransferRequest) (*model.TransferResult, error) {
	const op = "solana.TransferToken"

	mintStr := strings.TrimSpace(req.Mint)
	if !validate.IsValidAddress(mintStr) {
		return nil, errs.Validation(op, "invalid mint address %q", req.Mint)
	}
	mint := solana.MustPublicKeyFromBase58(mintStr)

	t, err := e.prepare(op, req.Network, req.From, req.PrivateKeyHex, req.Secret, req.To, req.Amount, req.ConfirmCommitment)
	if err != nil {
		return nil, err
	}
	from := t.signer.PublicKey()

	program, err := e.tokenProgram(ctx, t.client, mint)
	if err != nil {
		return nil, err
	}
	source, err := pda.AssociatedTokenAddress(from, mint, program)
	if err != nil {
		return nil, err
	}

	held, err := e.findTokenAccount(ctx, t.client, from, program, func(a client.TokenAccount) bool {
		return a.Pubkey == source.String()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender token account: %w", err)
	}
	if held == nil {
		return nil, errs.Newf(errs.KindInsufficientBalance, op, "%s holds no %s", from, mint)
	}
	raw, err := common.ToBaseUnits(req.Amount, held.Decimals)
	if err != nil {
		return nil, errs.Validation(op, "invalid amount: %v", err)
	}
	if raw == 0 {
		return nil, errs.Validation(op, "amount %s is below the token's smallest unit", req.Amount)
	}
	if raw > held.Amount {
		return nil, errs.Newf(errs.KindInsufficientBalance, op, "insufficient token balance: have %s, want %s",
			common.FormatUnits(held.Amount, held.Decimals), common.FormatUnits(raw, held.Decimals))
	}

	before, err := t.client.GetBalance(ctx, from, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if before < solFeeLamports {
		return nil, errs.Newf(errs.KindInsufficientBalance, op, "insufficient SOL for transaction fee (fee: %s SOL). Have: %s SOL",
			common.LamportsToSOL(solFeeLamports), common.LamportsToSOL(before))
	}

	var ixs []solana.Instruction
	recipient, err := e.findTokenAccount(ctx, t.client, t.to, program, func(a client.TokenAccount) bool {
		return a.Mint == mint.String()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient token account: %w", err)
	}
	var destination solana.PublicKey
	if recipient != nil {
		if destination, err = solana.PublicKeyFromBase58(recipient.Pubkey); err != nil {
			return nil, errs.Wrap(errs.KindTransport, op, fmt.Errorf("invalid recipient token account: %w", err))
		}
	} else {
		if destination, err = pda.AssociatedTokenAddress(t.to, mint, program); err != nil {
			return nil, err
		}
		create, err := instructions.CreateAssociatedTokenAccount(from, destination, t.to, mint, program)
		if err != nil {
			return nil, err
		}
		ixs = append(ixs, create)
	}
	move, err := instructions.TransferChecked(source, mint, destination, from, program, raw, held.Decimals)
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, move)

	sig, err := e.submit(ctx, t, ixs...)
	if err != nil {
		return nil, err
	}
	log.Transfer.Info().Str("signature", sig.String()).Str("mint", mint.String()).Str("to", t.to.String()).
		Bool("create_account", recipient == nil).Uint64("amount", raw).Msg("Token transfer submitted")

	result := &model.TransferResult{Signature: sig.String(), BalanceBefore: before}
	if err := e.finish(ctx, t, sig, result); err != nil {
		return result, err
	}
	return result, nil
}

// submit signs ixs with a blockhash fetched just before signing and sends
// the transaction.
func (e *Engine) submit(ctx context.Context, t *transfer, ixs ...solana.Instruction) (solana.Signature, error) {
	payer := t.signer.PublicKey()

	hash, err := t.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(ixs, hash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			pk := t.signer.PrivateKey()
			return &pk
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	sig, err := t.client.SendTransaction(ctx, raw)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// finish confirms sig and records the balance after it.
func (e *Engine) finish(ctx context.Context, t *transfer, sig solana.Signature, result *model.TransferResult) error {
	status, err := e.confirm(ctx, t.client, sig, t.target)
	if status != nil {
		result.Commitment = status.Commitment
		result.Slot = status.Slot
	}
	if err != nil {
		return err
	}

	after, err := t.client.GetBalance(ctx, t.signer.PublicKey(), "")
	if err != nil {
		log.Transfer.Warn().Err(err).Str("signature", sig.String()).Msg("Balance after transfer unavailable")
		return nil
	}
	result.BalanceAfter = after
	return nil
}

// tokenProgram returns the token program owning mint. Lookup errors are
// retried; a missing mint is not.
func (e *Engine) tokenProgram(ctx context.Context, c *client.SolanaClient, mint solana.PublicKey) (solana.PublicKey, error) {
	const op = "solana.tokenProgram"

	var acc *client.AccountInfo
	err := e.retry(e.opts.ProgramLookupDelay).Do(ctx, func(ctx context.Context) (bool, error) {
		a, err := c.GetAccountInfo(ctx, mint)
		if err != nil {
			log.Transfer.Debug().Err(err).Str("mint", mint.String()).Msg("Token program lookup failed, retrying")
			return false, err
		}
		acc = a
		return true, nil
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get token program of %s: %w", mint, err)
	}
	if acc == nil {
		return solana.PublicKey{}, errs.Newf(errs.KindNotFound, op, "mint %s not found", mint)
	}
	if !pda.IsTokenProgram(acc.Owner) {
		return solana.PublicKey{}, errs.Validation(op, "%s is owned by %s, not a token program", mint, acc.Owner)
	}
	return acc.Owner, nil
}

// findTokenAccount scans owner's accounts under program for the first one
// matching. Nil means none matched.
func (e *Engine) findTokenAccount(ctx context.Context, c *client.SolanaClient, owner, program solana.PublicKey, match func(client.TokenAccount) bool) (*client.TokenAccount, error) {
	var found *client.TokenAccount
	err := e.retry(e.opts.TokenAccountLookupDelay).Do(ctx, func(ctx context.Context) (bool, error) {
		accounts, err := c.GetTokenAccountsByOwner(ctx, owner, program, rpc.CommitmentFinalized)
		if err != nil {
			log.Transfer.Debug().Err(err).Str("owner", owner.String()).Msg("Token account lookup failed, retrying")
			return false, err
		}
		for i := range accounts {
			if match(accounts[i]) {
				found = &accounts[i]
				break
			}
		}
		return true, nil
	})
	return found, err
}

// RentFloor returns the rent-exempt minimum kept out of spendable balance on
// network. Any failure yields 0.
func (e *Engine) RentFloor(ctx context.Context, network string) uint64 {
	endpoint, err := e.endpoint("solana.RentFloor", network)
	if err != nil {
		log.Transfer.Warn().Err(err).Msg("Rent floor unavailable")
		return 0
	}
	return e.rentFloor(ctx, e.client(endpoint))
}

func (e *Engine) rentFloor(ctx context.Context, c *client.SolanaClient) uint64 {
	var floor uint64
	err := e.retry(e.opts.RentLookupDelay).Do(ctx, func(ctx context.Context) (bool, error) {
		v, err := c.GetMinimumBalanceForRentExemption(ctx, rentFloorAccountSize)
		if err != nil {
			return false, err
		}
		floor = v
		return true, nil
	})
	if err != nil {
		log.Transfer.Warn().Err(err).Str("endpoint", c.Endpoint()).Msg("Rent floor unavailable, using 0")
		return 0
	}
	return floor
}
