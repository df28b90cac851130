package paymentsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0, zerolog.Nop())
}

func TestGetUser_DecodesBalance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/2955", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":2955,"handle":"maria","balance":100.5}`)
	})

	u, err := c.GetUser(context.Background(), 2955)
	require.NoError(t, err)
	assert.Equal(t, int64(2955), u.ID)
	assert.Equal(t, "maria", u.Handle)
	assert.Equal(t, int64(10050), u.BalanceMinor())
}

func TestSearchUsers_ArrayAndObject(t *testing.T) {
	t.Run("array takes first", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "maria@example.com", r.URL.Query().Get("query"))
			_, _ = io.WriteString(w, `[{"id":7,"handle":"maria"},{"id":8,"handle":"mario"}]`)
		})
		u, err := c.SearchUsers(context.Background(), "maria@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
	})

	t.Run("object", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":9,"handle":"joao"}`)
		})
		u, err := c.SearchUsers(context.Background(), "joao")
		require.NoError(t, err)
		assert.Equal(t, int64(9), u.ID)
	})

	t.Run("empty array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
		_, err := c.SearchUsers(context.Background(), "ninguem")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestLookupUser_NumericGoesToGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":42,"handle":"x"}`)
	})

	u, err := c.LookupUser(context.Background(), " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
}

func TestNon2xx_IsAPIErrorWithBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, "insufficient funds\n")
	})

	err := c.PayPix(context.Background(), PixTransferRequest{FromUserID: 1, ToUserID: 2, Amount: 500})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "insufficient funds", apiErr.Body)
	assert.Equal(t, "pix transfer", apiErr.Op)
}

func TestSetBalance_SendsMajorUnitsAsNumber(t *testing.T) {
	var got map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/set-balance", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{}`)
	})

	require.NoError(t, c.SetBalance(context.Background(), 5, 5050))
	assert.Equal(t, "5", string(got["user_id"]))
	assert.Equal(t, "50.5", string(got["balance"]))
}

func TestPaymentEndpoints(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(c *Client) error
		want string
	}{
		{"pix", "/pay/pix", func(c *Client) error {
			return c.PayPix(context.Background(), PixTransferRequest{FromUserID: 1, ToUserID: 2, Amount: 5000})
		}, `{"from_user_id":1,"to_user_id":2,"amount":5000}`},
		{"pos", "/pay/pos", func(c *Client) error {
			return c.PayPOS(context.Background(), POSTransferRequest{ToUserID: 2, Amount: 5000, PaymentMethod: "debit"})
		}, `{"to_user_id":2,"amount":5000,"payment_method":"debit"}`},
		{"link", "/pay/link", func(c *Client) error {
			return c.PayLink(context.Background(), LinkPaymentRequest{FromUserID: 1, ToUserID: 2, Amount: 5000})
		}, `{"from_user_id":1,"to_user_id":2,"amount":5000}`},
		{"card", "/card_payment", func(c *Client) error {
			return c.PayCard(context.Background(), CardPaymentRequest{UserID: 1, Amount: 5000, StoreName: "Loja"})
		}, `{"user_id":1,"amount":5000,"store_name":"Loja"}`},
		{"receivable", "/receivables", func(c *Client) error {
			return c.CreateReceivable(context.Background(), ReceivableRequest{UserID: 2, Amount: 5000, Premint: true})
		}, `{"user_id":2,"amount":5000,"premint":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, tt.want, string(body))
				w.WriteHeader(http.StatusCreated)
			})
			require.NoError(t, tt.call(c))
		})
	}
}

func TestCreateUser_AcceptsUserIDField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/new", r.URL.Path)
		_, _ = io.WriteString(w, `{"user_id":321,"handle":"novo"}`)
	})

	u, err := c.CreateUser(context.Background(), "novo")
	require.NoError(t, err)
	assert.Equal(t, int64(321), u.ID)
}
