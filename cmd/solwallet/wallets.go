package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/solwallet/internal/config"
	"github.com/AlexZinkM/solwallet/internal/model"
	"github.com/AlexZinkM/solwallet/internal/store"
	"github.com/AlexZinkM/solwallet/solana"
)

type recordFlags struct {
	name        string
	description string
	save        bool
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "wallet name")
	cmd.Flags().StringVar(&f.description, "description", "", "wallet description")
	cmd.Flags().BoolVar(&f.save, "save", true, "save the record to the wallet store")
}

// emit prints rec and, when requested, saves it under a fresh key.
func (a *app) emit(cmd *cobra.Command, f *recordFlags, rec *model.WalletRecord) error {
	if !f.save {
		return printJSON(cmd, rec)
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	key, err := store.NextKey(s, time.Now())
	if err != nil {
		return err
	}
	if err := s.Save(key, *rec); err != nil {
		return err
	}
	return printJSON(cmd, model.StoredWallet{Key: key, Record: *rec})
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new wallet with a 12-word mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := solana.GenerateWallet(f.name, f.description)
			if err != nil {
				return err
			}
			return a.emit(cmd, f, rec)
		},
	}
	f.bind(cmd)
	return cmd
}

func newRecoverCmd(a *app) *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Import a wallet from a mnemonic, hex private key or base58 secret key",
		Long:  "Import a wallet. The secret is read from the terminal without echo.",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := config.PromptForSecret("Mnemonic or private key")
			if err != nil {
				return err
			}
			rec, err := solana.RecoverWallet(f.name, f.description, secret)
			if err != nil {
				return err
			}
			return a.emit(cmd, f, rec)
		},
	}
	f.bind(cmd)
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "watch ADDRESS",
		Short: "Add a watch-only wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := solana.AddAddressWallet(f.name, f.description, args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, f, rec)
		},
	}
	f.bind(cmd)
	return cmd
}

func newWalletsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "List saved wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			wallets, err := s.List(store.KeyPrefix)
			if err != nil {
				return err
			}
			for _, w := range wallets {
				kind := "signing"
				if w.Record.WatchOnly() {
					kind = "watch-only"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", w.Key, w.Record.AddressBase58, kind, w.Record.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show KEY",
		Short: "Print a saved wallet record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.Load(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a saved wallet record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Delete(args[0])
		},
	})
	return cmd
}

func newQRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qr ADDRESS",
		Short: "Print a receive QR code for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qr, err := solana.TerminalQRCode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), qr)
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
