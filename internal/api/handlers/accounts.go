// Package handlers implements the HTTP endpoints. Handlers parse and
// validate the request, call into the service layer and translate domain
// errors to status codes via the middleware helpers.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/tracker"
)

type accountResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:            account.ID,
		Name:          account.Name,
		Type:          string(account.Type),
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance.StringFixed(2),
		CreatedAt:     account.CreatedAt,
	}
}

// AccountsHandler serves the account endpoints.
type AccountsHandler struct {
	service *tracker.Service
	log     zerolog.Logger
}

// NewAccountsHandler creates the handler.
func NewAccountsHandler(service *tracker.Service, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{service: service, log: log}
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accounts, total, err := h.service.ListAccounts(ctx, middleware.UserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteDomainError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts":      out,
		"total_balance": total.StringFixed(2),
		"count":         len(out),
	})
}

// Create handles POST /api/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string          `json:"name"`
		Type           string          `json:"type"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	account, err := h.service.CreateAccount(ctx, middleware.UserID(ctx), req.Name, domain.AccountType(req.Type), req.InitialBalance)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

// Get handles GET /api/accounts/{id}.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := h.service.GetAccount(ctx, r.PathValue("id"))
	if err != nil || account.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// Update handles PUT /api/accounts/{id}.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	if !h.owns(w, r, id) {
		return
	}
	if err := h.service.UpdateAccount(ctx, id, req.Name, domain.AccountType(req.Type)); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /api/accounts/{id}.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.owns(w, r, id) {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Transfer handles POST /api/accounts/transfer.
func (h *AccountsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromAccountID string          `json:"from_account_id"`
		ToAccountID   string          `json:"to_account_id"`
		Amount        decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if err := h.service.Transfer(ctx, middleware.UserID(ctx), req.FromAccountID, req.ToAccountID, req.Amount); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

// AddFunds handles POST /api/accounts/{id}/funds.
func (h *AccountsHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if err := h.service.AddFunds(ctx, middleware.UserID(ctx), r.PathValue("id"), req.Amount); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "funds added"})
}

// owns writes a 404 and returns false unless the account belongs to the
// calling user.
func (h *AccountsHandler) owns(w http.ResponseWriter, r *http.Request, id string) bool {
	ctx := r.Context()
	account, err := h.service.GetAccount(ctx, id)
	if err != nil || account.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return false
	}
	return true
}
