package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Date:     NewDate(2024, 5, 10),
		Amount:   Money{Cents: 1250},
		Category: "Alimentação",
		OwnerID:  7,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transferencia" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = Date{Time: time.Time{}} }, ErrInvalidDate},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"blank category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"missing owner", func(tx *Transaction) { tx.OwnerID = 0 }, ErrMissingOwner},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDateNormalize(t *testing.T) {
	d := Date{Time: time.Date(2024, 6, 15, 13, 45, 12, 0, time.Local)}
	n := d.Normalize()
	if n != NewDate(2024, 6, 15) {
		t.Fatalf("got %v, want 2024-06-15 UTC midnight", n)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil || d != NewDate(2024, 1, 2) {
		t.Fatalf("got (%v, %v)", d, err)
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Fatalf("expected error for wrong format")
	}
}
