package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/insights"
	"github.com/spendwise/spendwise/internal/store"
	"github.com/spendwise/spendwise/internal/tracker"
)

// InsightsHandler serves the spending insights endpoint.
type InsightsHandler struct {
	service   *tracker.Service
	generator *insights.Generator
	log       zerolog.Logger
}

// NewInsightsHandler creates the handler.
func NewInsightsHandler(service *tracker.Service, generator *insights.Generator, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{service: service, generator: generator, log: log}
}

type monthAmountResponse struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

type categoryTotalResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type insightsResponse struct {
	TotalExpenses  string                  `json:"total_expenses"`
	AverageExpense string                  `json:"average_expense"`
	TopCategories  []categoryTotalResponse `json:"top_categories"`
	MonthlyTrend   []monthAmountResponse   `json:"monthly_trend"`
	Suggestions    []string                `json:"suggestions"`
}

// Get handles GET /api/insights. It aggregates the user's expenses and asks
// the model for recommendations.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	categories, err := h.service.ListCategories(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteDomainError(w, err)
		return
	}
	categoryNames := make(map[string]string)
	for _, category := range categories {
		if category.Type == domain.CategoryExpense {
			categoryNames[category.ID] = category.Name
		}
	}

	transactions, err := h.service.ListTransactions(ctx, store.TransactionFilter{UserID: userID})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteDomainError(w, err)
		return
	}

	var expenses []insights.Expense
	for _, tx := range transactions {
		name, ok := categoryNames[tx.CategoryID]
		if !ok {
			continue
		}
		expenses = append(expenses, insights.Expense{
			Amount:      tx.Amount,
			Category:    name,
			Date:        tx.Date,
			Description: tx.Description,
		})
	}

	summary := insights.Summarize(expenses)
	suggestions, err := h.generator.Generate(ctx, summary)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate insights")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate insights")
		return
	}

	resp := insightsResponse{
		TotalExpenses:  summary.Total.StringFixed(2),
		AverageExpense: summary.Average.StringFixed(2),
		Suggestions:    suggestions,
	}
	for _, cat := range summary.TopCategories {
		resp.TopCategories = append(resp.TopCategories, categoryTotalResponse{Name: cat.Name, Amount: cat.Amount.StringFixed(2)})
	}
	for _, month := range summary.MonthlyTrend {
		resp.MonthlyTrend = append(resp.MonthlyTrend, monthAmountResponse{Month: month.Month, Amount: month.Amount.StringFixed(2)})
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
