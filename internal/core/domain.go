package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Income and Expense are the two transaction types. Storage and the
	// wire format keep the original Portuguese labels.
	Income  TransactionType = "receita"
	Expense TransactionType = "despesa"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated income or expense entry. Transactions
	// are append-only: there is no edit or delete surface, historical
	// records stay as they were written.
	Transaction struct {
		ID          int64
		Type        TransactionType
		Description string
		Amount      Money
		Date        Date
		Category    string
		Settled     bool // money has actually moved
		Recurring   bool // flag only, no recurrence engine
		OwnerID     int64
	}

	// Category is a global name/type pair shared across all users.
	// Names are unique within a type; the same name may exist for both types.
	Category struct {
		Name string
		Type TransactionType
	}

	// Identity is the public view of an authenticated user. Password hash
	// and salt never leave the credential store.
	Identity struct {
		ID       int64
		Username string
		Email    string
		Active   bool
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrMissingOwner     = errors.New("transaction owner is required")
	ErrEmptyDescription = errors.New("empty description")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Normalize drops any time-of-day component so dates compare and group
// by calendar day.
func (d Date) Normalize() Date {
	y, m, day := d.Date()
	return NewDate(y, int(m), day)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a transaction before it is handed to the store. The
// store itself only enforces ownership; everything else is caller policy.
func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if tx.OwnerID == 0 {
		return ErrMissingOwner
	}
	return nil
}
