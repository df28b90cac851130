package paymentsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrRejected matches every *APIError: the API answered with a non-2xx status.
	ErrRejected     = errors.New("payments api rejected the request")
	ErrUserNotFound = errors.New("user not found")
)

var numericID = regexp.MustCompile(`^\d+$`)

// APIError carries the status and body text of a non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s failed: http %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s failed: http %d", e.Op, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRejected
}

// Client talks JSON over HTTP to the remote payments API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a client. A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetUser fetches a user and its balance of record.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.do(ctx, "get user", http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchUsers runs a free-text user search and returns the first hit. The API
// answers either with an array or with a single object.
func (c *Client) SearchUsers(ctx context.Context, query string) (*User, error) {
	var raw json.RawMessage
	path := "/users/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, "search users", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var users []User
		if err := json.Unmarshal(trimmed, &users); err != nil {
			return nil, fmt.Errorf("decode search result: %w", err)
		}
		if len(users) == 0 {
			return nil, ErrUserNotFound
		}
		return &users[0], nil
	}

	var u User
	if err := json.Unmarshal(trimmed, &u); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	if u.ID == 0 {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// LookupUser fetches by id when the identifier is numeric, otherwise searches.
func (c *Client) LookupUser(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if numericID.MatchString(identifier) {
		id, err := strconv.ParseInt(identifier, 10, 64)
		if err != nil {
			return nil, ErrUserNotFound
		}
		return c.GetUser(ctx, id)
	}
	return c.SearchUsers(ctx, identifier)
}

// CreateUser registers a new user under the given handle.
func (c *Client) CreateUser(ctx context.Context, handle string) (*User, error) {
	var u User
	if err := c.do(ctx, "create user", http.MethodPost, "/users/new", NewUserRequest{Handle: handle}, &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		u.ID = u.UserID
	}
	return &u, nil
}

// SetBalance overwrites the balance of record. The amount is in minor units
// and goes out in major units.
func (c *Client) SetBalance(ctx context.Context, userID, balanceMinor int64) error {
	req := SetBalanceRequest{
		UserID:  userID,
		Balance: json.Number(decimal.New(balanceMinor, -2).String()),
	}
	return c.do(ctx, "set balance", http.MethodPost, "/users/set-balance", req, nil)
}

func (c *Client) PayPix(ctx context.Context, req PixTransferRequest) error {
	return c.do(ctx, "pix transfer", http.MethodPost, "/pay/pix", req, nil)
}

func (c *Client) PayPOS(ctx context.Context, req POSTransferRequest) error {
	return c.do(ctx, "pos transfer", http.MethodPost, "/pay/pos", req, nil)
}

func (c *Client) PayLink(ctx context.Context, req LinkPaymentRequest) error {
	return c.do(ctx, "link payment", http.MethodPost, "/pay/link", req, nil)
}

func (c *Client) PayCard(ctx context.Context, req CardPaymentRequest) error {
	return c.do(ctx, "card payment", http.MethodPost, "/card_payment", req, nil)
}

func (c *Client) CreateReceivable(ctx context.Context, req ReceivableRequest) error {
	return c.do(ctx, "create receivable", http.MethodPost, "/receivables", req, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("op", op).Str("method", method).Str("path", path).Msg("payments api call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
		c.logger.Warn().Str("op", op).Int("status", resp.StatusCode).Str("body", apiErr.Body).Msg("payments api rejected request")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
