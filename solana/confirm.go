package solana

import (
	"context"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/solwallet/internal/client"
	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
)

// CommitmentRank orders commitment levels. Unknown levels rank 0, below
// processed.
func CommitmentRank(c rpc.CommitmentType) int {
	switch c {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentConfirmed:
		return 2
	case rpc.CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

func parseCommitment(op, s string, fallback rpc.CommitmentType) (rpc.CommitmentType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	c := rpc.CommitmentType(s)
	if CommitmentRank(c) == 0 {
		return "", errs.Validation(op, "commitment must be processed, confirmed or finalized, got %q", s)
	}
	return c, nil
}

// Confirm waits until signature reaches commitment on network. An empty
// commitment uses the configured default.
func (e *Engine) Confirm(ctx context.Context, network, signature, commitment string) (*model.SignatureStatus, error) {
	const op = "solana.Confirm"

	sig, err := solana.SignatureFromBase58(strings.TrimSpace(signature))
	if err != nil {
		return nil, errs.Validation(op, "invalid signature %q", signature)
	}
	target, err := parseCommitment(op, commitment, e.opts.ConfirmCommitment)
	if err != nil {
		return nil, err
	}
	endpoint, err := e.endpoint(op, network)
	if err != nil {
		return nil, err
	}
	return e.confirm(ctx, e.client(endpoint), sig, target)
}

// confirm polls getSignatureStatuses every ConfirmInterval until the status
// ranks at or above target or ConfirmTimeout elapses. Any RPC or transport
// error ends polling at once, as does ctx being done, which is reported as
// errs.KindTransport. A status the node has not seen yet keeps it
// going.
func (e *Engine) confirm(ctx context.Context, c *client.SolanaClient, sig solana.Signature, target rpc.CommitmentType) (*model.SignatureStatus, error) {
	const op = "solana.confirm"

	start := time.Now()
	for time.Since(start) < e.opts.ConfirmTimeout {
		st, err := c.GetSignatureStatus(ctx, sig)
		if err != nil {
			return nil, err
		}
		if st != nil && CommitmentRank(rpc.CommitmentType(st.ConfirmationStatus)) >= CommitmentRank(target) {
			status := &model.SignatureStatus{
				Signature:     sig.String(),
				Slot:          st.Slot,
				Confirmations: st.Confirmations,
				Commitment:    st.ConfirmationStatus,
				Err:           st.Err,
			}
			if st.Err != nil {
				log.Transfer.Warn().Str("signature", sig.String()).Interface("err", st.Err).Msg("Transaction failed on chain")
				return status, errs.Newf(errs.KindTransactionFailed, op, "transaction %s failed: %v", sig, st.Err)
			}
			log.Transfer.Info().Str("signature", sig.String()).Str("commitment", st.ConfirmationStatus).Uint64("slot", st.Slot).Msg("Transaction confirmed")
			return status, nil
		}
		// A cancelled caller is not a confirmation timeout.
		if err := client.Sleep(ctx, e.opts.ConfirmInterval); err != nil {
			return nil, errs.Wrap(errs.KindTransport, op, err)
		}
	}
	return nil, errs.Newf(errs.KindConfirmationTimeout, op, "transaction %s did not reach %s within %s", sig, target, e.opts.ConfirmTimeout)
}
