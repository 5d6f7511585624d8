package alerts_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aviu16/mercury-bot/pkg/alerts"
	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestRender_Debit(t *testing.T) {
	tx := model.Transaction{
		ID:          "tx1",
		AccountName: "Operating",
		AccountKind: model.AccountCore,
		AmountMinor: -4999,
		Kind:        model.KindDebit,
		VendorName:  "AWS",
		Category:    "software",
		Description: "AMAZON WEB SERVICES",
		CreatedAt:   time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}

	a := alerts.Render(tx)
	assert.Equal(t, "New Transaction", a.Title)
	assert.Equal(t, "Spent $49.99", a.Action)
	assert.Equal(t, "AWS", a.Vendor)
	assert.Equal(t, "Operating", a.AccountName)
	assert.Equal(t, "core", a.AccountKind)
	assert.Equal(t, "debit", a.Kind)
	assert.Equal(t, "2025-06-01 12:30", a.Date)
	assert.Equal(t, "software", a.Category)
	assert.Equal(t, "AMAZON WEB SERVICES", a.Description)
	assert.Equal(t, "tx1", a.TransactionID)
}

func TestRender_Credit(t *testing.T) {
	tx := model.Transaction{
		ID:          "tx2",
		AmountMinor: 100000,
		Kind:        model.KindCredit,
		VendorName:  "Stripe",
	}

	a := alerts.Render(tx)
	assert.Equal(t, "Received $1000.00", a.Action)
}

func TestRender_DescriptionMatchingVendorOmitted(t *testing.T) {
	tx := model.Transaction{
		ID:          "tx3",
		VendorName:  "WIRE IN",
		Description: "WIRE IN",
	}

	a := alerts.Render(tx)
	assert.Empty(t, a.Description)
}

func TestRender_TruncatesLongDescription(t *testing.T) {
	tx := model.Transaction{
		ID:          "tx4",
		VendorName:  "AWS",
		Description: strings.Repeat("x", 150),
	}

	a := alerts.Render(tx)
	assert.Len(t, a.Description, 103)
	assert.True(t, strings.HasSuffix(a.Description, "..."))
}
