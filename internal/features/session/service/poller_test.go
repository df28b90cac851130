package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/platform/paymentsapi"
)

func newTestPollers(t *testing.T) (*pollers, *sessionFixture, *time.Time) {
	t.Helper()
	f := newSessionFixture(t)
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p := newPollers(2955, 5*time.Second, 3*time.Second, f.users, f.ledger, newViewState(2955, clock), zerolog.Nop())
	p.now = clock
	return p, f, &now
}

func TestPollers_BalanceAdoptsRemote(t *testing.T) {
	ctx := context.Background()
	p, f, _ := newTestPollers(t)
	f.users.On("GetUser", mock.Anything, int64(2955)).Return(&paymentsapi.User{ID: 2955, Balance: decimal.RequireFromString("42.10")}, nil)

	p.tickBalance(ctx)

	assert.Equal(t, int64(4210), p.view.Snapshot().Balance)
	mirrored, ok, err := f.ledger.Balance(ctx, 2955)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4210), mirrored)
}

func TestPollers_BalanceFailureKeepsView(t *testing.T) {
	p, f, _ := newTestPollers(t)
	p.view.SetBalance(100)
	f.users.On("GetUser", mock.Anything, int64(2955)).Return(nil, errors.New("timeout"))

	p.tickBalance(context.Background())

	assert.Equal(t, int64(100), p.view.Snapshot().Balance)
}

func TestPollers_HistoryReadsMirror(t *testing.T) {
	ctx := context.Background()
	p, f, _ := newTestPollers(t)
	_, err := f.ledger.AppendRecord(ctx, 2955, ledgermodels.Record{
		Amount: decimal.NewFromInt(-5), Status: ledgermodels.StatusSuccess, Date: "2025-05-20", Recipient: "joao",
	})
	require.NoError(t, err)

	p.tickHistory(ctx)

	history := p.view.Snapshot().History
	require.Len(t, history, 1)
	assert.Equal(t, "joao", history[0].Recipient)
}

func TestPollers_SuppressWindow(t *testing.T) {
	p, _, now := newTestPollers(t)
	assert.False(t, p.suppressed())

	p.Suppress()
	assert.True(t, p.suppressed())

	*now = now.Add(2 * time.Second)
	assert.True(t, p.suppressed())

	*now = now.Add(time.Second)
	assert.False(t, p.suppressed())
}

func TestViewState_SubscribersGetLatest(t *testing.T) {
	v := newViewState(1, time.Now)
	updates, cancel := v.Subscribe()

	v.SetBalance(10)
	v.SetBalance(20)
	v.SetBalance(20)

	got := <-updates
	assert.Equal(t, int64(20), got.Balance)
	select {
	case <-updates:
		t.Fatal("unchanged balance must not publish")
	default:
	}

	cancel()
	cancel()
	v.closeAll()
}
