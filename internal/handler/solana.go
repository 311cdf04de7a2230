package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
	"github.com/AlexZinkM/solwallet/internal/model"
	"github.com/AlexZinkM/solwallet/internal/store"
	"github.com/AlexZinkM/solwallet/internal/validate"
	"github.com/AlexZinkM/solwallet/solana"
)

// SolanaHandler serves the wallet engine and the record store over HTTP.
type SolanaHandler struct {
	engine *solana.Engine
	store  store.Store
	now    func() time.Time
}

// NewSolanaHandler creates a SolanaHandler.
func NewSolanaHandler(engine *solana.Engine, s store.Store) (*SolanaHandler, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if s == nil {
		return nil, errors.New("wallet store is required")
	}
	return &SolanaHandler{engine: engine, store: s, now: time.Now}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to the HTTP status returned for it.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation, errs.KindInvalidSecretKey:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInsufficientBalance, errs.KindTransactionFailed:
		return http.StatusUnprocessableEntity
	case errs.KindConfirmationTimeout:
		return http.StatusGatewayTimeout
	case errs.KindRPC, errs.KindTransport, errs.KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorResponse(w, err, "")
}

func writeErrorResponse(w http.ResponseWriter, err error, signature string) {
	kind := errs.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		log.API.Error().Err(err).Str("kind", string(kind)).Msg("Request failed")
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: string(kind), Signature: signature})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errs.Validation("decode", "invalid request body: %v", err))
		return false
	}
	return true
}

// GenerateWallet handles POST /wallets/generate
// @Summary      Generate new wallet
// @Description  Generates a wallet from a fresh 12-word mnemonic. The record is returned, not saved.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  true  "Wallet name and description"
// @Success      200      {object}  model.WalletRecord
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallets/generate [post]
func (h *SolanaHandler) GenerateWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := solana.GenerateWallet(req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// RecoverWallet handles POST /wallets/recover
// @Summary      Recover wallet
// @Description  Imports a wallet from a 12/24-word mnemonic, a 64-char hex private key or a base58 secret key
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.RecoverRequest  true  "Secret and wallet details"
// @Success      200      {object}  model.WalletRecord
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallets/recover [post]
func (h *SolanaHandler) RecoverWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RecoverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := solana.RecoverWallet(req.Name, req.Description, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// AddAddress handles POST /wallets/address
// @Summary      Add watch-only wallet
// @Description  Creates a watch-only wallet record for an address
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.AddressRequest  true  "Address and wallet details"
// @Success      200      {object}  model.WalletRecord
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallets/address [post]
func (h *SolanaHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := solana.AddAddressWallet(req.Name, req.Description, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Wallets handles GET and POST /wallets
// @Summary      List or save wallets
// @Description  GET lists saved wallets ordered by key. POST saves a record under a new creation-time key.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.WalletRecord  false  "Record to save (POST)"
// @Success      200      {array}   model.StoredWallet
// @Success      201      {object}  model.SaveWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallets [get]
// @Router       /wallets [post]
func (h *SolanaHandler) Wallets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.store.List(store.KeyPrefix)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []model.StoredWallet{}
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var rec model.WalletRecord
		if !decodeBody(w, r, &rec) {
			return
		}
		if !validate.IsValidAddress(rec.AddressBase58) {
			writeError(w, errs.Validation("wallets", "invalid address %q", rec.AddressBase58))
			return
		}
		key, err := store.NextKey(h.store, h.now())
		if err != nil {
			writeError(w, err)
			return
		}
		if err := h.store.Save(key, rec); err != nil {
			writeError(w, err)
			return
		}
		log.Store.Info().Str("key", key).Str("address", rec.AddressBase58).Msg("Wallet saved")
		writeJSON(w, http.StatusCreated, model.SaveWalletResponse{Key: key})

	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
	}
}

// Wallet handles GET and DELETE /wallets/{key}
// @Summary      Get or delete a saved wallet
// @Tags         wallets
// @Produce      json
// @Param        key  path      string  true  "Wallet key, e.g. wallet.2024-05-01-10-20-30"
// @Success      200  {object}  model.WalletRecord
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets/{key} [get]
// @Router       /wallets/{key} [delete]
func (h *SolanaHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/wallets/")

	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed. Should be GET or DELETE", http.StatusMethodNotAllowed)
		return
	}
	if err := store.ValidateKey(key); err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.store.Load(key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)

	case http.MethodDelete:
		if err := h.store.Delete(key); err != nil {
			writeError(w, err)
			return
		}
		log.Store.Info().Str("key", key).Msg("Wallet deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// networks collects repeated and comma-separated network parameters.
func networks(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["network"] {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// GetBalance handles GET /balance
// @Summary      Get wallet balance
// @Description  Gets SOL and token holdings with metadata on each network. A failing network yields an empty snapshot with errors.
// @Tags         solana
// @Produce      json
// @Param        address  query     string  true   "Wallet address"
// @Param        network  query     string  false  "Cluster name or RPC URL, repeatable or comma-separated"
// @Success      200      {object}  model.BalanceResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /balance [get]
func (h *SolanaHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.engine.Balance(r.Context(), r.URL.Query().Get("address"), networks(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// TransferSOL handles POST /transfer/sol
// @Summary      Send SOL
// @Description  Signs, submits and confirms a SOL transfer
// @Tags         solana
// @Accept       json
// @Produce      json
// @Param        request  body      model.SOLTransferRequest  true  "Transfer data"
// @Success      200      {object}  model.TransferResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      504      {object}  model.ErrorResponse
// @Router       /transfer/sol [post]
func (h *SolanaHandler) TransferSOL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SOLTransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.engine.TransferSOL(r.Context(), req)
	writeTransfer(w, res, err)
}

// TransferToken handles POST /transfer/token
// @Summary      Send tokens
// @Description  Signs, submits and confirms a checked token transfer, creating the recipient's associated account if needed
// @Tags         solana
// @Accept       json
// @Produce      json
// @Param        request  body      model.TokenTransferRequest  true  "Transfer data"
// @Success      200      {object}  model.TransferResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /transfer/token [post]
func (h *SolanaHandler) TransferToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.TokenTransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.engine.TransferToken(r.Context(), req)
	writeTransfer(w, res, err)
}

func writeTransfer(w http.ResponseWriter, res *model.TransferResult, err error) {
	if err != nil {
		var sig string
		if res != nil {
			sig = res.Signature
		}
		writeErrorResponse(w, err, sig)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Confirm handles GET /confirm
// @Summary      Wait for confirmation
// @Description  Polls a signature until it reaches the commitment or the confirmation timeout elapses
// @Tags         solana
// @Produce      json
// @Param        signature   query     string  true   "Transaction signature"
// @Param        network     query     string  false  "Cluster name or RPC URL"
// @Param        commitment  query     string  false  "processed, confirmed or finalized"
// @Success      200         {object}  model.SignatureStatus
// @Failure      504         {object}  model.ErrorResponse
// @Router       /confirm [get]
func (h *SolanaHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	status, err := h.engine.Confirm(r.Context(), q.Get("network"), q.Get("signature"), q.Get("commitment"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// QR handles GET /qr
// @Summary      Address QR code
// @Description  Returns the address as a base64-encoded PNG QR code
// @Tags         wallets
// @Produce      json
// @Param        address  query     string  true  "Wallet address"
// @Success      200      {object}  model.QRResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /qr [get]
func (h *SolanaHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	qr, err := solana.GenerateQRCode(address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QRResponse{Address: address, QR: qr})
}
