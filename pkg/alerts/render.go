package alerts

import (
	"github.com/aviu16/mercury-bot/pkg/model"
)

const maxDescriptionLen = 100

// Render projects a detected transaction into the sink-neutral Alert shape.
func Render(tx model.Transaction) Alert {
	action := "Spent " + model.FormatAmount(tx.AmountMinor)
	if tx.Kind == model.KindCredit {
		action = "Received " + model.FormatAmount(tx.AmountMinor)
	}

	description := ""
	if tx.Description != "" && tx.Description != tx.VendorName {
		description = truncate(tx.Description, maxDescriptionLen)
	}

	return Alert{
		Title:         "New Transaction",
		Action:        action,
		Vendor:        tx.VendorName,
		AccountName:   tx.AccountName,
		AccountKind:   string(tx.AccountKind),
		Kind:          string(tx.Kind),
		Date:          tx.CreatedAt.Format("2006-01-02 15:04"),
		Category:      tx.Category,
		Description:   description,
		TransactionID: tx.ID,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
