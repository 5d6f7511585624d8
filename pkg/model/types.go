package model

import (
	"fmt"
	"time"
)

// AccountKind distinguishes Mercury checking accounts from credit accounts.
type AccountKind string

const (
	AccountCore   AccountKind = "core"
	AccountCredit AccountKind = "credit"
)

// Account is a Mercury account descriptor. The remote account list is
// re-fetched on every polling cycle; nothing caches it authoritatively.
type Account struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Kind AccountKind `json:"kind"`
}

// AccountSet groups the accounts returned by a single enumeration.
type AccountSet struct {
	Core   []Account `json:"accounts"`
	Credit []Account `json:"credit_accounts"`
}

// All returns core and credit accounts concatenated, in enumeration order.
func (s AccountSet) All() []Account {
	out := make([]Account, 0, len(s.Core)+len(s.Credit))
	out = append(out, s.Core...)
	out = append(out, s.Credit...)
	return out
}

// TransactionKind indicates money direction.
type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// Transaction is an immutable snapshot of a remote ledger entry at
// observation time. ID is the sole identity key: two values with the same
// ID are the same event and must never both produce a notification.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountKind AccountKind     `json:"account_kind"`
	AmountMinor int64           `json:"amount_minor"` // signed minor units; positive = credit
	Kind        TransactionKind `json:"kind"`
	VendorName  string          `json:"vendor_name"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AbsAmountMinor returns the transaction magnitude in minor units.
func (t Transaction) AbsAmountMinor() int64 {
	if t.AmountMinor < 0 {
		return -t.AmountMinor
	}
	return t.AmountMinor
}

// FormatAmount renders a minor-unit magnitude as a dollar string, e.g. "$12.34".
func FormatAmount(minor int64) string {
	if minor < 0 {
		minor = -minor
	}
	return fmt.Sprintf("$%d.%02d", minor/100, minor%100)
}

// NotificationSettings controls which new transactions produce alerts.
// Mutated by runtime controls, read by the dispatcher on every transaction.
type NotificationSettings struct {
	Enabled         bool  `json:"enabled"`
	MinAmountMinor  int64 `json:"min_amount_minor"`
	IncludeCredits  bool  `json:"include_credits"`
	IncludeDebits   bool  `json:"include_debits"`
	CooldownSeconds int64 `json:"cooldown_seconds"`
}

// DefaultSettings matches first-run behavior: everything notifiable,
// five minute per-vendor cooldown.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:         true,
		MinAmountMinor:  0,
		IncludeCredits:  true,
		IncludeDebits:   true,
		CooldownSeconds: 300,
	}
}

// Cooldown returns the cooldown window as a duration.
func (s NotificationSettings) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

// AlertRecord is the audit trail entry for a dispatched notification.
type AlertRecord struct {
	ID            string    `json:"id" db:"id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Vendor        string    `json:"vendor" db:"vendor"`
	AccountName   string    `json:"account_name" db:"account_name"`
	AmountMinor   int64     `json:"amount_minor" db:"amount_minor"`
	Kind          string    `json:"kind" db:"kind"`
	DispatchedAt  time.Time `json:"dispatched_at" db:"dispatched_at"`
}
