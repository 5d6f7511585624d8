// Package monitor implements the polling engine: change detection against a
// remote ledger with no changefeed, dedup by transaction id, per-vendor
// cooldowns, and alert dispatch on a fixed cadence.
package monitor

import (
	"context"
	"time"

	"github.com/aviu16/mercury-bot/pkg/model"
)

// Ledger is the upstream account and transaction source. A fresh call to
// ListTransactions with the same arguments re-fetches; there is no durable
// cursor to resume from.
type Ledger interface {
	ListAccounts(ctx context.Context) (model.AccountSet, error)
	ListTransactions(ctx context.Context, accountID string, since time.Time) ([]model.Transaction, error)
}
