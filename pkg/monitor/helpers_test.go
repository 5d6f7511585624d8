package monitor_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aviu16/mercury-bot/pkg/alerts"
	"github.com/aviu16/mercury-bot/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeLedger is an in-memory Ledger with scriptable per-account failures.
type fakeLedger struct {
	mu           sync.Mutex
	accounts     model.AccountSet
	accountsErr  error
	accountCalls int
	txns         map[string][]model.Transaction
	txnErrs      map[string]error
}

func newFakeLedger(accounts model.AccountSet) *fakeLedger {
	return &fakeLedger{
		accounts: accounts,
		txns:     make(map[string][]model.Transaction),
		txnErrs:  make(map[string]error),
	}
}

func (f *fakeLedger) ListAccounts(_ context.Context) (model.AccountSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	if f.accountsErr != nil {
		return model.AccountSet{}, f.accountsErr
	}
	return f.accounts, nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, accountID string, since time.Time) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.txnErrs[accountID]; err != nil {
		return nil, err
	}
	var out []model.Transaction
	for _, tx := range f.txns[accountID] {
		if !tx.CreatedAt.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) addTransaction(accountID string, tx model.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txns[accountID] = append(f.txns[accountID], tx)
}

func (f *fakeLedger) setTxnErr(accountID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.txnErrs, accountID)
		return
	}
	f.txnErrs[accountID] = err
}

func (f *fakeLedger) setAccountsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountsErr = err
}

// fakeNotifier records delivered alerts and can be scripted to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	name string
	sent []alerts.Alert
	err  error
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(_ context.Context, alert alerts.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, alert)
	return nil
}

func (f *fakeNotifier) delivered(t *testing.T) []alerts.Alert {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]alerts.Alert(nil), f.sent...)
}

// vendorFailNotifier fails delivery for a single vendor and accepts the rest.
type vendorFailNotifier struct {
	mu         sync.Mutex
	failVendor string
	sent       []alerts.Alert
}

func (v *vendorFailNotifier) Name() string { return "vendor-fail" }

func (v *vendorFailNotifier) Send(_ context.Context, alert alerts.Alert) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if alert.Vendor == v.failVendor {
		return errors.New("delivery refused")
	}
	v.sent = append(v.sent, alert)
	return nil
}

func coreAccount(id, name string) model.Account {
	return model.Account{ID: id, Name: name, Kind: model.AccountCore}
}

func debitTx(id, vendor string, amountMinor int64, createdAt time.Time) model.Transaction {
	kind := model.KindDebit
	if amountMinor > 0 {
		kind = model.KindCredit
	}
	return model.Transaction{
		ID:          id,
		AmountMinor: amountMinor,
		Kind:        kind,
		VendorName:  vendor,
		CreatedAt:   createdAt,
	}
}
