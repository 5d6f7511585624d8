package alerts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aviu16/mercury-bot/pkg/alerts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_Name(t *testing.T) {
	n := alerts.NewSlackNotifier("https://hooks.slack.com/test", "#money")
	assert.Equal(t, "slack", n.Name())
}

func TestSlackNotifier_Send(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		err := json.NewDecoder(r.Body).Decode(&received)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewSlackNotifier(server.URL, "#money")
	alert := alerts.Alert{
		Title:         "New Transaction",
		Action:        "Spent $49.99",
		Vendor:        "AWS",
		AccountName:   "Operating",
		AccountKind:   "core",
		Kind:          "debit",
		Date:          "2025-06-01 12:00",
		Category:      "software",
		TransactionID: "tx1",
	}

	err := n.Send(context.Background(), alert)
	require.NoError(t, err)

	assert.Equal(t, "#money", received["channel"])
	attachments, ok := received["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)

	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "#ff0000", attachment["color"])
	assert.Equal(t, "New Transaction", attachment["title"])
	assert.Equal(t, "Spent $49.99", attachment["text"])
	assert.Equal(t, "Transaction ID: tx1", attachment["footer"])

	fields := attachment["fields"].([]any)
	// Vendor, account, date and category; no description field without one.
	assert.Len(t, fields, 4)
}

func TestSlackNotifier_Send_CreditIsGreen(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewSlackNotifier(server.URL, "")
	err := n.Send(context.Background(), alerts.Alert{Kind: "credit", Action: "Received $100.00"})
	require.NoError(t, err)

	attachment := received["attachments"].([]any)[0].(map[string]any)
	assert.Equal(t, "#36a64f", attachment["color"])
}

func TestSlackNotifier_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := alerts.NewSlackNotifier(server.URL, "")
	err := n.Send(context.Background(), alerts.Alert{Vendor: "AWS"})
	assert.Error(t, err)
}
