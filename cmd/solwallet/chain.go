package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/solwallet/internal/config"
	"github.com/AlexZinkM/solwallet/internal/model"
)

func newBalanceCmd(a *app) *cobra.Command {
	var networks []string
	cmd := &cobra.Command{
		Use:   "balance ADDRESS",
		Short: "Show SOL and token balances on one or more networks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.engine.Balance(cmd.Context(), args[0], networks)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().StringSliceVarP(&networks, "network", "n", nil, "cluster name or RPC URL, repeatable (default: all configured)")
	return cmd
}

// sendFlags are shared by send-sol and send-token.
type sendFlags struct {
	network    string
	from       string
	wallet     string
	to         string
	amount     string
	commitment string
}

func (f *sendFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.network, "network", "n", "", "cluster name or RPC URL (default: first configured)")
	cmd.Flags().StringVar(&f.from, "from", "", "sender address")
	cmd.Flags().StringVar(&f.wallet, "wallet", "", "saved wallet key to sign with, instead of --from")
	cmd.Flags().StringVar(&f.to, "to", "", "recipient address")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount in SOL or token units")
	cmd.Flags().StringVar(&f.commitment, "commitment", "", "processed, confirmed or finalized (default from CONFIRM_COMMITMENT)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
}

// signer returns the sender address, its private key when a saved signing
// wallet is used, and otherwise a secret read from the terminal.
func (a *app) signer(f *sendFlags) (from, privateKeyHex, secret string, err error) {
	from = f.from
	if f.wallet != "" {
		s, err := a.openStore()
		if err != nil {
			return "", "", "", err
		}
		defer s.Close()

		rec, err := s.Load(f.wallet)
		if err != nil {
			return "", "", "", err
		}
		from = rec.AddressBase58
		if !rec.WatchOnly() {
			return from, rec.PrivateKeyHex, "", nil
		}
	}
	if from == "" {
		return "", "", "", errors.New("one of --from or --wallet is required")
	}
	secret, err = config.PromptForSecret("Mnemonic or private key for " + from)
	if err != nil {
		return "", "", "", err
	}
	return from, "", secret, nil
}

// printTransfer prints whatever result a transfer produced, so a submitted
// but unconfirmed signature is never lost.
func printTransfer(cmd *cobra.Command, result *model.TransferResult, err error) error {
	if result != nil {
		if perr := printJSON(cmd, result); perr != nil {
			return perr
		}
	}
	return err
}

func newSendSOLCmd(a *app) *cobra.Command {
	f := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send-sol",
		Short: "Send SOL",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, pk, secret, err := a.signer(f)
			if err != nil {
				return err
			}
			result, err := a.engine.TransferSOL(cmd.Context(), model.SOLTransferRequest{
				Network:           f.network,
				From:              from,
				PrivateKeyHex:     pk,
				Secret:            secret,
				To:                f.to,
				Amount:            f.amount,
				ConfirmCommitment: f.commitment,
			})
			return printTransfer(cmd, result, err)
		},
	}
	f.bind(cmd)
	return cmd
}

func newSendTokenCmd(a *app) *cobra.Command {
	f := &sendFlags{}
	var mint string
	cmd := &cobra.Command{
		Use:   "send-token",
		Short: "Send an SPL or Token-2022 token",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, pk, secret, err := a.signer(f)
			if err != nil {
				return err
			}
			result, err := a.engine.TransferToken(cmd.Context(), model.TokenTransferRequest{
				Network:           f.network,
				From:              from,
				PrivateKeyHex:     pk,
				Secret:            secret,
				To:                f.to,
				Mint:              mint,
				Amount:            f.amount,
				ConfirmCommitment: f.commitment,
			})
			return printTransfer(cmd, result, err)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&mint, "mint", "", "token mint address")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}

func newConfirmCmd(a *app) *cobra.Command {
	var network, commitment string
	cmd := &cobra.Command{
		Use:   "confirm SIGNATURE",
		Short: "Wait for a transaction signature to reach a commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.engine.Confirm(cmd.Context(), network, args[0], commitment)
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", "", "cluster name or RPC URL (default: first configured)")
	cmd.Flags().StringVar(&commitment, "commitment", "", "processed, confirmed or finalized (default from CONFIRM_COMMITMENT)")
	return cmd
}
