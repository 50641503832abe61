// Package insights aggregates a user's spending and asks a Gemini model for
// actionable recommendations. The aggregation is pure so it can be tested and
// reused without a model call.
package insights

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Expense is one spending record flattened for analysis.
type Expense struct {
	Amount      decimal.Decimal
	Category    string
	Date        civil.Date
	Description string
}

// CategoryTotal is total spend attributed to one category.
type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
}

// MonthAmount is total spend in one calendar month.
type MonthAmount struct {
	Month  string
	Amount decimal.Decimal
}

// Summary is the aggregate view the advisor prompt is built from.
type Summary struct {
	Total         decimal.Decimal
	Average       decimal.Decimal
	TopCategories []CategoryTotal
	MonthlyTrend  []MonthAmount
	Recent        []Expense
}

const (
	topCategoryCount = 5
	recentCount      = 5
)

// Summarize computes spending totals, the top categories, the month-by-month
// trend and the most recent expenses.
func Summarize(expenses []Expense) Summary {
	summary := Summary{Total: decimal.Zero, Average: decimal.Zero}
	if len(expenses) == 0 {
		return summary
	}

	byCategory := make(map[string]decimal.Decimal)
	byMonth := make(map[civil.Date]decimal.Decimal)
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		monthKey := civil.Date{Year: e.Date.Year, Month: e.Date.Month, Day: 1}
		byMonth[monthKey] = byMonth[monthKey].Add(e.Amount)
	}
	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(len(expenses)))).Round(2)

	for name, amount := range byCategory {
		summary.TopCategories = append(summary.TopCategories, CategoryTotal{Name: name, Amount: amount})
	}
	sort.Slice(summary.TopCategories, func(i, j int) bool {
		a, b := summary.TopCategories[i], summary.TopCategories[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Name < b.Name
	})
	if len(summary.TopCategories) > topCategoryCount {
		summary.TopCategories = summary.TopCategories[:topCategoryCount]
	}

	months := make([]civil.Date, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	for _, month := range months {
		label := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		summary.MonthlyTrend = append(summary.MonthlyTrend, MonthAmount{Month: label, Amount: byMonth[month]})
	}

	recent := make([]Expense, len(expenses))
	copy(recent, expenses)
	sort.SliceStable(recent, func(i, j int) bool { return recent[j].Date.Before(recent[i].Date) })
	if len(recent) > recentCount {
		recent = recent[:recentCount]
	}
	summary.Recent = recent

	return summary
}
