package alerts

import "context"

// Alert is a rendered transaction notification, ready for any sink.
type Alert struct {
	Title         string `json:"title"`
	Action        string `json:"action"` // "Spent $12.34" / "Received $12.34"
	Vendor        string `json:"vendor"`
	AccountName   string `json:"account_name"`
	AccountKind   string `json:"account_kind"`
	Kind          string `json:"kind"` // credit or debit
	Date          string `json:"date"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	TransactionID string `json:"transaction_id"`
}

// Notifier sends alerts to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Implementations must be safe for concurrent use.
	Send(ctx context.Context, alert Alert) error
}
