package http

import (
	"errors"
	"log/slog"
	"net/http"

	"myfinance/internal/core"
)

type transactionJSON struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Settled     bool   `json:"settled"`
	Recurring   bool   `json:"recurring"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Description: tx.Description,
		AmountCents: tx.Amount.Cents,
		Amount:      tx.Amount.Format(),
		Date:        tx.Date.String(),
		Category:    tx.Category,
		Settled:     tx.Settled,
		Recurring:   tx.Recurring,
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	data, err := s.getTransactions(r.Context(), identity.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction listing failed", "error", err, "user_id", identity.ID)
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"income":  toTransactionListJSON(data.Income),
		"expense": toTransactionListJSON(data.Expense),
	})
}

type createTransactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Settled     bool   `json:"settled"`
	Recurring   bool   `json:"recurring"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	var req createTransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Type:        core.TransactionType(sanitizeInput(req.Type)),
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    sanitizeInput(req.Category),
		Settled:     req.Settled,
		Recurring:   req.Recurring,
		OwnerID:     identity.ID,
	}

	id, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidType),
			errors.Is(err, core.ErrInvalidAmount),
			errors.Is(err, core.ErrInvalidDate),
			errors.Is(err, core.ErrEmptyCategory),
			errors.Is(err, core.ErrEmptyDescription):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Transaction create failed", "error", err, "user_id", identity.ID)
			writeError(w, http.StatusInternalServerError, "could not save transaction")
		}
		return
	}

	s.invalidateTransactions(identity.ID)

	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}
