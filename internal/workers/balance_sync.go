package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	go_redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"payments-chat-backend/internal/features/transfer/models"
)

const (
	eventBalanceSync = "balance_sync"
	readBlock        = 5 * time.Second
	errorBackoff     = time.Second
	// Entries are acked right after processing; the cap only bounds history.
	streamMaxLen = 1000
)

// BalanceSetter pushes a mirrored balance to the balance of record.
type BalanceSetter interface {
	SetBalance(ctx context.Context, userID, balanceMinor int64) error
}

// BalanceSyncQueue appends sync jobs to a Redis stream.
type BalanceSyncQueue struct {
	rdb    go_redis.Cmdable
	stream string
	maxLen int64
	approx bool
}

func NewBalanceSyncQueue(rdb go_redis.Cmdable, stream string) *BalanceSyncQueue {
	return &BalanceSyncQueue{rdb: rdb, stream: stream, maxLen: streamMaxLen, approx: true}
}

func (q *BalanceSyncQueue) Enqueue(ctx context.Context, job models.BalanceSync) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal balance sync: %w", err)
	}
	return q.rdb.XAdd(ctx, &go_redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: q.approx,
		Values: map[string]interface{}{
			"type":    eventBalanceSync,
			"payload": string(payload),
		},
	}).Err()
}

// BalanceSyncWorker consumes the stream and pushes both balances of every
// job. Failures are logged and the entry is acknowledged anyway: a later
// transfer or the balance poller reconciles.
type BalanceSyncWorker struct {
	rdb      go_redis.Cmdable
	api      BalanceSetter
	stream   string
	group    string
	consumer string
	block    time.Duration
	logger   zerolog.Logger
}

func NewBalanceSyncWorker(rdb go_redis.Cmdable, api BalanceSetter, stream, group string, logger zerolog.Logger) *BalanceSyncWorker {
	return &BalanceSyncWorker{
		rdb:      rdb,
		api:      api,
		stream:   stream,
		group:    group,
		consumer: "balance-sync-" + uuid.NewString()[:8],
		block:    readBlock,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled.
func (w *BalanceSyncWorker) Start(ctx context.Context) {
	if err := w.ensureGroup(ctx); err != nil {
		w.logger.Error().Err(err).Str("stream", w.stream).Msg("failed to create consumer group")
	}

	w.logger.Info().Str("stream", w.stream).Str("consumer", w.consumer).Msg("balance sync worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("balance sync worker stopped")
			return
		default:
		}

		if _, err := w.poll(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("failed to read balance sync stream")
			time.Sleep(errorBackoff)
		}
	}
}

func (w *BalanceSyncWorker) ensureGroup(ctx context.Context) error {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// poll reads one batch, processes and acknowledges it. It returns the
// number of entries handled.
func (w *BalanceSyncWorker) poll(ctx context.Context) (int, error) {
	entries, err := w.rdb.XReadGroup(ctx, &go_redis.XReadGroupArgs{
		Group:    w.group,
		Consumer: w.consumer,
		Streams:  []string{w.stream, ">"},
		Count:    10,
		Block:    w.block,
	}).Result()
	if errors.Is(err, go_redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	handled := 0
	for _, stream := range entries {
		for _, msg := range stream.Messages {
			w.processMessage(ctx, msg.Values)
			if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
				w.logger.Warn().Err(err).Str("id", msg.ID).Msg("failed to ack balance sync")
			}
			handled++
		}
	}
	return handled, nil
}

func (w *BalanceSyncWorker) processMessage(ctx context.Context, values map[string]interface{}) {
	eventType, _ := values["type"].(string)
	if eventType != eventBalanceSync {
		return
	}

	raw, _ := values["payload"].(string)
	var job models.BalanceSync
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.logger.Error().Err(err).Str("payload", raw).Msg("invalid balance sync payload")
		return
	}

	w.push(ctx, job.PayerID, job.PayerBalance)
	if job.RecipientID != job.PayerID {
		w.push(ctx, job.RecipientID, job.RecipientBalance)
	}
}

func (w *BalanceSyncWorker) push(ctx context.Context, userID, balance int64) {
	if err := w.api.SetBalance(ctx, userID, balance); err != nil {
		w.logger.Error().Err(err).Int64("user_id", userID).Int64("balance", balance).Msg("failed to sync balance")
		return
	}
	w.logger.Debug().Int64("user_id", userID).Int64("balance", balance).Msg("balance synced")
}
