// Command solwallet runs the Solana wallet engine as an HTTP service or as
// one-shot CLI commands.
//
// @title			Solana Wallet API
// @version		1.0
// @description	Non-custodial Solana wallet: key management, balances, transfers.
// @BasePath		/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/solwallet/internal/api"
	"github.com/AlexZinkM/solwallet/internal/config"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/store"
	"github.com/AlexZinkM/solwallet/solana"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	engine   *solana.Engine
	closeLog func() error
}

// close releases the log file, if one was opened.
func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
		a.closeLog = nil
	}
}

func (a *app) openStore() (store.Store, error) {
	s, err := store.Open(a.cfg.WalletStore, a.cfg.WalletStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet store: %w", err)
	}
	return s, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "solwallet",
		Short:         "Non-custodial Solana wallet",
		Long:          "Create and import Solana wallets, read balances and send SOL or SPL tokens. Configuration comes from the environment.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			a.cfg = config.Get()
			closeLog, err := log.Init(a.cfg.LogLevel, a.cfg.LogJSON, a.cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			a.closeLog = closeLog
			a.engine = solana.New(solana.OptionsFromConfig(a.cfg))
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newGenerateCmd(a),
		newRecoverCmd(a),
		newWatchCmd(a),
		newWalletsCmd(a),
		newQRCmd(),
		newBalanceCmd(a),
		newSendSOLCmd(a),
		newSendTokenCmd(a),
		newConfirmCmd(a),
	)
	return root
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API on $PORT",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			router, err := api.SetupRouter(a.engine, s)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Logger.Info().
					Str("port", a.cfg.Port).
					Strs("endpoints", a.cfg.Endpoints()).
					Str("store", a.cfg.WalletStore).
					Msg("Starting server")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Logger.Info().Msg("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
