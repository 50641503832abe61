package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
	"github.com/spendwise/spendwise/internal/tracker"
)

type transactionRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    string          `json:"category_id"`
	AccountID     string          `json:"account_id"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	Tags          []string        `json:"tags"`
}

func (req *transactionRequest) toInput(userID string) (tracker.TransactionInput, error) {
	in := tracker.TransactionInput{
		UserID:        userID,
		Amount:        req.Amount,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Tags:          req.Tags,
	}
	if req.Date != "" {
		date, err := civil.ParseDate(req.Date)
		if err != nil {
			return in, domain.NewValidationError("date", "date must be YYYY-MM-DD")
		}
		in.Date = date
	}
	return in, nil
}

type transactionResponse struct {
	ID            string   `json:"id"`
	Amount        string   `json:"amount"`
	CategoryID    string   `json:"category_id"`
	AccountID     string   `json:"account_id,omitempty"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	PaymentMethod string   `json:"payment_method"`
	Tags          []string `json:"tags,omitempty"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Amount:        tx.Amount.StringFixed(2),
		CategoryID:    tx.CategoryID,
		AccountID:     tx.AccountID,
		Date:          tx.Date.String(),
		Description:   tx.Description,
		PaymentMethod: tx.PaymentMethod,
		Tags:          tx.Tags,
	}
}

// TransactionsHandler serves the transaction endpoints.
type TransactionsHandler struct {
	service *tracker.Service
	log     zerolog.Logger
}

// NewTransactionsHandler creates the handler.
func NewTransactionsHandler(service *tracker.Service, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{service: service, log: log}
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := store.TransactionFilter{
		UserID:     middleware.UserID(ctx),
		CategoryID: query.Get("category_id"),
	}
	if raw := query.Get("start_date"); raw != "" {
		date, err := civil.ParseDate(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid start_date format")
			return
		}
		filter.From = date
	}
	if raw := query.Get("end_date"); raw != "" {
		date, err := civil.ParseDate(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid end_date format")
			return
		}
		filter.To = date
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	transactions, err := h.service.ListTransactions(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteDomainError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, toTransactionResponse(tx))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": out,
		"count":        len(out),
	})
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	in, err := req.toInput(middleware.UserID(ctx))
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	tx, err := h.service.CreateTransaction(ctx, in)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tx, err := h.service.GetTransaction(ctx, r.PathValue("id"))
	if err != nil || tx.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Update handles PUT /api/transactions/{id}.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	if !h.owns(w, r, id) {
		return
	}
	in, err := req.toInput(middleware.UserID(ctx))
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	tx, err := h.service.UpdateTransaction(ctx, id, in)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.owns(w, r, id) {
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TransactionsHandler) owns(w http.ResponseWriter, r *http.Request, id string) bool {
	ctx := r.Context()
	tx, err := h.service.GetTransaction(ctx, id)
	if err != nil || tx.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return false
	}
	return true
}

// CategoriesHandler serves the category endpoints.
type CategoriesHandler struct {
	service *tracker.Service
	log     zerolog.Logger
}

// NewCategoriesHandler creates the handler.
func NewCategoriesHandler(service *tracker.Service, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{service: service, log: log}
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories, err := h.service.ListCategories(ctx, middleware.UserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteDomainError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, categoryResponse{ID: category.ID, Name: category.Name, Type: string(category.Type)})
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": out,
		"count":      len(out),
	})
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	category, err := h.service.CreateCategory(ctx, middleware.UserID(ctx), req.Name, domain.CategoryType(req.Type))
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name, Type: string(category.Type)})
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	category, err := h.service.GetCategory(ctx, id)
	if err != nil || category.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.service.DeleteCategory(ctx, id); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
