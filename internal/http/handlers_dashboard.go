package http

import (
	"log/slog"
	"net/http"
	"strings"

	"myfinance/internal/core"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity := identityFrom(r)
	data, err := s.getTransactions(r.Context(), identity.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard summary failed", "error", err, "user_id", identity.ID)
		writeError(w, http.StatusInternalServerError, "could not build summary")
		return
	}

	incomeTotal := core.Summarize(data.Income)
	expenseTotal := core.Summarize(data.Expense)
	balance := core.Balance(data.Income, data.Expense)

	type categoryTotalJSON struct {
		Name       string `json:"name"`
		TotalCents int64  `json:"total_cents"`
		Total      string `json:"total"`
	}
	byCategory := make([]categoryTotalJSON, 0)
	for _, ct := range core.GroupByCategory(data.Expense) {
		byCategory = append(byCategory, categoryTotalJSON{
			Name:       ct.Category,
			TotalCents: ct.Total.Cents,
			Total:      ct.Total.Format(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"income_cents":        incomeTotal.Cents,
		"income":              incomeTotal.Format(),
		"expense_cents":       expenseTotal.Cents,
		"expense":             expenseTotal.Format(),
		"balance_cents":       balance.Cents,
		"balance":             balance.Format(),
		"expense_by_category": byCategory,
	})
}

func (s *Server) handleDashboardCashFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity := identityFrom(r)
	data, err := s.getTransactions(r.Context(), identity.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard cashflow failed", "error", err, "user_id", identity.ID)
		writeError(w, http.StatusInternalServerError, "could not build cash flow")
		return
	}

	incomeCategories := selectedCategories(r, "income_categories", data.Income)
	expenseCategories := selectedCategories(r, "expense_categories", data.Expense)

	series := core.BuildCashFlowSeries(data.Income, data.Expense, incomeCategories, expenseCategories)

	type pointJSON struct {
		Date            string `json:"date"`
		CumulativeCents int64  `json:"cumulative_cents"`
		Cumulative      string `json:"cumulative"`
	}
	points := make([]pointJSON, 0, len(series))
	for _, p := range series {
		points = append(points, pointJSON{
			Date:            p.Date.String(),
			CumulativeCents: p.Cumulative.Cents,
			Cumulative:      p.Cumulative.Format(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// selectedCategories reads a comma-separated category filter. An absent
// parameter selects every category seen in the user's transactions; a
// present-but-empty parameter selects nothing, which charts nothing.
func selectedCategories(r *http.Request, param string, txs []core.Transaction) []string {
	values, present := r.URL.Query()[param]
	if !present {
		seen := make(map[string]struct{})
		var all []string
		for _, tx := range txs {
			if _, ok := seen[tx.Category]; ok {
				continue
			}
			seen[tx.Category] = struct{}{}
			all = append(all, tx.Category)
		}
		return all
	}

	var selected []string
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				selected = append(selected, name)
			}
		}
	}
	return selected
}
