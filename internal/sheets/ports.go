package sheets

import (
	"context"

	"myfinance/internal/core"
)

// Ports for outbound adapters.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
