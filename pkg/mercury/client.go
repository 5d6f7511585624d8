// Package mercury provides a resilient client for the Mercury bank API:
// account enumeration, paginated transaction listing, retry with backoff,
// and typed failures the polling engine can absorb per cycle.
package mercury

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aviu16/mercury-bot/pkg/model"
)

// DefaultBaseURL is the production Mercury API.
const DefaultBaseURL = "https://api.mercury.com/api/v1"

const pageSize = 100

// Client talks to the Mercury API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  RetryOptions
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryOptions overrides the backoff policy.
func WithRetryOptions(opts RetryOptions) Option {
	return func(c *Client) { c.retryOpts = opts }
}

// NewClient creates a Mercury API client authenticated with the given token.
func NewClient(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("mercury: API token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger.With("component", "mercury"),
		retryOpts: DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Wire shapes. Mercury reports amounts as float dollars; they are converted
// to signed minor units at this boundary and stay integers everywhere else.
type accountsResponse struct {
	Accounts []apiAccount `json:"accounts"`
}

type apiAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

type transactionsResponse struct {
	Transactions []apiTransaction `json:"transactions"`
}

type apiTransaction struct {
	ID               string          `json:"id"`
	Amount           float64         `json:"amount"`
	Kind             string          `json:"kind"`
	CreatedAt        string          `json:"createdAt"`
	MerchantName     string          `json:"merchantName"`
	CounterpartyName string          `json:"counterpartyName"`
	BankDescription  string          `json:"bankDescription"`
	MercuryCategory  string          `json:"mercuryCategory"`
	CardDetails      *apiCardDetails `json:"cardDetails"`
}

type apiCardDetails struct {
	MerchantName string `json:"merchantName"`
}

// ListAccounts enumerates checking and credit accounts. Both lists are
// fetched fresh; an empty result for either endpoint is not an error.
func (c *Client) ListAccounts(ctx context.Context) (model.AccountSet, error) {
	var set model.AccountSet

	core, err := c.fetchAccounts(ctx, "/accounts", model.AccountCore)
	if err != nil {
		return set, err
	}
	credit, err := c.fetchAccounts(ctx, "/credit", model.AccountCredit)
	if err != nil {
		return set, err
	}

	set.Core = core
	set.Credit = credit
	return set, nil
}

func (c *Client) fetchAccounts(ctx context.Context, path string, kind model.AccountKind) ([]model.Account, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp accountsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DataFormatError{Op: "list " + string(kind) + " accounts", Detail: err.Error()}
	}

	accounts := make([]model.Account, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		if a.ID == "" {
			c.logger.Warn("skipping account with no id", "kind", kind)
			continue
		}
		name := a.Name
		if name == "" {
			name = a.Nickname
		}
		if name == "" {
			name = "Unknown"
		}
		accounts = append(accounts, model.Account{ID: a.ID, Name: name, Kind: kind})
	}
	return accounts, nil
}

// ListTransactions fetches all transactions for an account created at or
// after since, paging until exhausted. A fresh call re-fetches from the
// start; there is no resumable cursor.
func (c *Client) ListTransactions(ctx context.Context, accountID string, since time.Time) ([]model.Transaction, error) {
	if accountID == "" {
		return nil, &DataFormatError{Op: "list transactions", Detail: "empty account id"}
	}

	path := "/account/" + accountID + "/transactions"
	var collected []model.Transaction
	cursor := ""

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("from", since.UTC().Format(time.RFC3339))
		if cursor != "" {
			params.Set("before", cursor)
		}

		body, err := c.get(ctx, path, params)
		if err != nil {
			return nil, err
		}

		var resp transactionsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &DataFormatError{Op: "list transactions", Detail: err.Error()}
		}
		if len(resp.Transactions) == 0 {
			break
		}

		pastWindow := false
		for _, raw := range resp.Transactions {
			tx, err := c.mapTransaction(raw, accountID)
			if err != nil {
				c.logger.Warn("skipping malformed transaction",
					"account_id", accountID, "error", err)
				continue
			}
			if tx.CreatedAt.Before(since) {
				pastWindow = true
				continue
			}
			collected = append(collected, tx)
		}

		if pastWindow || len(resp.Transactions) < pageSize {
			break
		}
		last := resp.Transactions[len(resp.Transactions)-1]
		if last.ID == "" || last.ID == cursor {
			break
		}
		cursor = last.ID
	}

	return collected, nil
}

// mapTransaction converts a wire record into the domain type. Records with
// no id or an unparseable timestamp are rejected.
func (c *Client) mapTransaction(raw apiTransaction, accountID string) (model.Transaction, error) {
	if raw.ID == "" {
		return model.Transaction{}, &DataFormatError{Op: "map transaction", Detail: "missing id"}
	}
	createdAt, err := time.Parse(time.RFC3339, raw.CreatedAt)
	if err != nil {
		return model.Transaction{}, &DataFormatError{
			Op:     "map transaction",
			Detail: fmt.Sprintf("bad createdAt %q: %v", raw.CreatedAt, err),
		}
	}

	minor := dollarsToMinor(raw.Amount)
	kind := model.KindDebit
	if minor > 0 {
		kind = model.KindCredit
	}
	if reported, ok := reportedKind(raw.Kind); ok && reported != kind {
		c.logger.Warn("transaction kind disagrees with amount sign",
			"transaction_id", raw.ID, "reported", raw.Kind, "amount_minor", minor)
	}

	cardMerchant := ""
	if raw.CardDetails != nil {
		cardMerchant = raw.CardDetails.MerchantName
	}

	return model.Transaction{
		ID:          raw.ID,
		AccountID:   accountID,
		AmountMinor: minor,
		Kind:        kind,
		VendorName:  VendorName(raw.MerchantName, raw.CounterpartyName, raw.BankDescription, cardMerchant),
		Category:    raw.MercuryCategory,
		Description: raw.BankDescription,
		CreatedAt:   createdAt.UTC(),
	}, nil
}

// dollarsToMinor converts a float dollar amount to signed minor units,
// rounding half away from zero.
func dollarsToMinor(dollars float64) int64 {
	cents := dollars * 100
	if cents < 0 {
		return -int64(math.Floor(-cents + 0.5))
	}
	return int64(math.Floor(cents + 0.5))
}

// get performs an authenticated GET with retry. Rate limits and 5xx
// responses retry with backoff; other failures are permanent.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body []byte
	err := withRetry(ctx, c.logger, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return permanent(&DataFormatError{Op: "build request", Detail: err.Error()})
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("request %s: %w", path, ErrRateLimited)
		case resp.StatusCode >= 500:
			return fmt.Errorf("request %s: status %d", path, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return permanent(&DataFormatError{
				Op:     "request " + path,
				Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode),
			})
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s response: %w", path, err)
		}
		return nil
	}, c.retryOpts)

	if err != nil {
		var dfe *DataFormatError
		if errors.As(err, &dfe) {
			return nil, dfe
		}
		return nil, &TransientError{Op: "GET " + path, Err: err}
	}
	return body, nil
}

// reportedKind interprets Mercury's kind strings, which embed direction
// (e.g. "externalTransferCredit", "debitCardTransaction").
func reportedKind(kind string) (model.TransactionKind, bool) {
	lower := strings.ToLower(kind)
	switch {
	case strings.Contains(lower, "credit"):
		return model.KindCredit, true
	case strings.Contains(lower, "debit"):
		return model.KindDebit, true
	default:
		return "", false
	}
}
