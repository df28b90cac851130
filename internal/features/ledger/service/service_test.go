package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-chat-backend/internal/features/ledger/models"
	redisrepo "payments-chat-backend/internal/features/ledger/repository/redis"
)

func newTestLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisrepo.NewStore(client)
	return NewLedger(store, store, zerolog.Nop()), mr
}

func record(amount int64, label string) models.Record {
	return models.Record{
		Amount:    decimal.New(amount, -2),
		Status:    models.StatusSuccess,
		Date:      "2025-05-20",
		Recipient: label,
	}
}

func TestHistory_MissingPartitionIsEmpty(t *testing.T) {
	l, _ := newTestLedger(t)

	got, err := l.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoadHistory_MalformedContentLoadsEmpty(t *testing.T) {
	l, mr := newTestLedger(t)
	require.NoError(t, mr.Set(HistoryKey(1), "{not json"))

	_, err := l.History(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMalformedPartition)

	got, err := l.LoadHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAppendRecord_AssignsMonotonicIDsAtEnd(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	first, err := l.AppendRecord(ctx, 1, record(-5000, "2955"))
	require.NoError(t, err)
	second, err := l.AppendRecord(ctx, 1, record(-1000, "maria"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	history, err := l.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2955", history[0].Recipient)
	assert.Equal(t, "maria", history[1].Recipient)
	assert.True(t, history[0].Amount.Equal(decimal.RequireFromString("-50")))
}

func TestPrependRecord_PutsNewestFirst(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.PrependRecord(ctx, 2, record(1000, "Recebido de 1"))
	require.NoError(t, err)
	rec, err := l.PrependRecord(ctx, 2, record(2000, "Recebido de 3"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID)

	history, err := l.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].ID)
	assert.Equal(t, int64(1), history[1].ID)
}

func TestNextID_UsesHighestExistingID(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLedger(t)
	require.NoError(t, mr.Set(HistoryKey(1), `[{"id":9,"amount":"-1","status":"success","date":"2025-01-01","recipient":"x"},{"id":4,"amount":"2","status":"success","date":"2025-01-01","recipient":"y"}]`))

	rec, err := l.AppendRecord(ctx, 1, record(-100, "z"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.ID)
}

func TestAppendRecord_PreservesMalformedHistory(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLedger(t)
	require.NoError(t, mr.Set(HistoryKey(1), "garbage"))

	rec, err := l.AppendRecord(ctx, 1, record(-100, "z"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)

	history, err := l.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	backup, err := mr.Get(CorruptHistoryKey(1))
	require.NoError(t, err)
	assert.Equal(t, "garbage", backup)
}

func TestAppendRecord_StoresAmountsAsNumbers(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLedger(t)

	_, err := l.AppendRecord(ctx, 1, record(-5050, "2955"))
	require.NoError(t, err)

	raw, err := mr.Get(HistoryKey(1))
	require.NoError(t, err)
	assert.Contains(t, raw, `"amount":-50.5`)
	assert.NotContains(t, raw, `"amount":"`)

	history, err := l.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(decimal.RequireFromString("-50.50")))
}

func TestBalanceMirror(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, ok, err := l.Balance(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.SetBalance(ctx, 1, 10000))
	v, err := l.AdjustBalance(ctx, 1, -5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), v)

	v, err = l.AdjustBalance(ctx, 2, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), v, "missing mirror starts from zero")

	got, ok, err := l.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5000), got)
}

func TestWatchChanges_ReceivesNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l, _ := newTestLedger(t)

	events, stop, err := l.WatchChanges(ctx, 2955)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, l.NotifyHistoryChanged(ctx, 2955))

	select {
	case ev := <-events:
		assert.Equal(t, int64(2955), ev.UserID)
		assert.Equal(t, "transactions:2955", ev.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
}
