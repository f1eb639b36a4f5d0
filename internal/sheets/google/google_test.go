package google

import (
	"testing"

	"myfinance/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"plain base", "Transações", 2026, "2026 Transações"},
		{"already prefixed", "2025 Transações", 2026, "2025 Transações"},
		{"whitespace trimmed", "  Export ", 2026, "2026 Export"},
		{"empty base", "", 2026, ""},
		{"short base", "Ex", 2026, "2026 Ex"},
		{"numeric but not a year", "12 Meses", 2026, "2026 12 Meses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}

func TestTransactionRow(t *testing.T) {
	tx := core.Transaction{
		Type:        core.Expense,
		Description: "Aluguel de março",
		Amount:      core.Money{Cents: 150050},
		Date:        core.NewDate(2024, 3, 5),
		Category:    "Aluguel",
		Settled:     true,
		OwnerID:     1,
	}

	row := transactionRow(tx)
	if len(row) != 6 {
		t.Fatalf("row has %d columns, want 6", len(row))
	}
	if row[0] != "2024-03-05" {
		t.Errorf("date column = %v", row[0])
	}
	if row[1] != "despesa" {
		t.Errorf("type column = %v", row[1])
	}
	if row[3] != 1500.50 {
		t.Errorf("value column = %v", row[3])
	}
	if row[5] != "sim" {
		t.Errorf("settled column = %v", row[5])
	}

	tx.Settled = false
	if row := transactionRow(tx); row[5] != "não" {
		t.Errorf("unsettled column = %v", row[5])
	}
}
