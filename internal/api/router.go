package api

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/solwallet/docs"
	"github.com/AlexZinkM/solwallet/internal/handler"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/store"
	"github.com/AlexZinkM/solwallet/solana"
)

// SetupRouter sets up router with handlers
func SetupRouter(engine *solana.Engine, s store.Store) (http.Handler, error) {
	solanaHandler, err := handler.NewSolanaHandler(engine, s)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet records
	mux.HandleFunc("/wallets/generate", solanaHandler.GenerateWallet)
	mux.HandleFunc("/wallets/recover", solanaHandler.RecoverWallet)
	mux.HandleFunc("/wallets/address", solanaHandler.AddAddress)
	mux.HandleFunc("/wallets", solanaHandler.Wallets)
	mux.HandleFunc("/wallets/", solanaHandler.Wallet)
	mux.HandleFunc("/qr", solanaHandler.QR)

	// Solana endpoints
	mux.HandleFunc("/balance", solanaHandler.GetBalance)
	mux.HandleFunc("/transfer/sol", solanaHandler.TransferSOL)
	mux.HandleFunc("/transfer/token", solanaHandler.TransferToken)
	mux.HandleFunc("/confirm", solanaHandler.Confirm)

	return logRequests(mux), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs method, path, status and duration of every request.
// Bodies may carry secrets and are never logged.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.API.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("Request")
	})
}
