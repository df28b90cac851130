package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/ledger/repository"
)

var ErrMalformedPartition = errors.New("malformed partition content")

// Ledger owns the per-user mirror partitions: the transaction history and the
// cached balance. Histories are always rewritten wholesale.
type Ledger struct {
	store    repository.Store
	notifier repository.Notifier
	now      func() time.Time
	logger   zerolog.Logger
}

func NewLedger(store repository.Store, notifier repository.Notifier, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// History returns the stored history of userID. A missing partition is an
// empty history; unparsable content yields ErrMalformedPartition.
func (l *Ledger) History(ctx context.Context, userID int64) ([]models.Record, error) {
	raw, err := l.store.Get(ctx, HistoryKey(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []models.Record{}, nil
		}
		return nil, err
	}
	return decodeHistory(raw)
}

// LoadHistory is History for display: malformed content is logged and read
// as an empty history instead of failing the caller.
func (l *Ledger) LoadHistory(ctx context.Context, userID int64) ([]models.Record, error) {
	records, err := l.History(ctx, userID)
	if errors.Is(err, ErrMalformedPartition) {
		l.logger.Error().Err(err).Int64("user_id", userID).Msg("discarding unreadable transaction history")
		return []models.Record{}, nil
	}
	return records, err
}

// AppendRecord adds rec at the end of userID's history with the next id.
func (l *Ledger) AppendRecord(ctx context.Context, userID int64, rec models.Record) (models.Record, error) {
	return l.insertRecord(ctx, userID, rec, false)
}

// PrependRecord adds rec at the front of userID's history with the next id.
func (l *Ledger) PrependRecord(ctx context.Context, userID int64, rec models.Record) (models.Record, error) {
	return l.insertRecord(ctx, userID, rec, true)
}

func (l *Ledger) insertRecord(ctx context.Context, userID int64, rec models.Record, front bool) (models.Record, error) {
	err := l.store.Update(ctx, HistoryKey(userID), func(current []byte) ([]byte, error) {
		history, err := decodeHistory(current)
		if err != nil {
			if err := l.store.Set(ctx, CorruptHistoryKey(userID), current, 0); err != nil {
				return nil, fmt.Errorf("preserve unreadable history: %w", err)
			}
			l.logger.Warn().Err(err).Int64("user_id", userID).
				Str("backup_key", CorruptHistoryKey(userID)).
				Msg("replacing unreadable transaction history")
			history = nil
		}

		rec.ID = nextID(history)
		if front {
			history = append([]models.Record{rec}, history...)
		} else {
			history = append(history, rec)
		}
		return json.Marshal(history)
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("write history of user %d: %w", userID, err)
	}
	return rec, nil
}

// Balance returns the mirrored balance in minor units and whether one exists.
func (l *Ledger) Balance(ctx context.Context, userID int64) (int64, bool, error) {
	raw, err := l.store.Get(ctx, BalanceKey(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	v, err := parseBalance(raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (l *Ledger) SetBalance(ctx context.Context, userID, minor int64) error {
	return l.store.Set(ctx, BalanceKey(userID), []byte(strconv.FormatInt(minor, 10)), 0)
}

// AdjustBalance adds delta to the mirror of userID and returns the new value.
// A missing or unreadable mirror counts as zero.
func (l *Ledger) AdjustBalance(ctx context.Context, userID, delta int64) (int64, error) {
	var updated int64
	err := l.store.Update(ctx, BalanceKey(userID), func(current []byte) ([]byte, error) {
		prev, err := parseBalance(current)
		if err != nil {
			l.logger.Warn().Err(err).Int64("user_id", userID).Msg("resetting unreadable balance mirror")
			prev = 0
		}
		updated = prev + delta
		return []byte(strconv.FormatInt(updated, 10)), nil
	})
	if err != nil {
		return 0, fmt.Errorf("adjust balance of user %d: %w", userID, err)
	}
	return updated, nil
}

// NotifyHistoryChanged tells open sessions of userID that their history
// partition was rewritten elsewhere.
func (l *Ledger) NotifyHistoryChanged(ctx context.Context, userID int64) error {
	payload, err := json.Marshal(models.ChangeEvent{
		UserID:    userID,
		Key:       HistoryKey(userID),
		ChangedAt: l.now().UTC(),
	})
	if err != nil {
		return err
	}
	return l.notifier.Publish(ctx, ChangesChannel(userID), payload)
}

// WatchChanges streams change events for userID until ctx ends or stop is called.
func (l *Ledger) WatchChanges(ctx context.Context, userID int64) (<-chan models.ChangeEvent, func() error, error) {
	raw, stop, err := l.notifier.Subscribe(ctx, ChangesChannel(userID))
	if err != nil {
		return nil, nil, err
	}

	events := make(chan models.ChangeEvent)
	go func() {
		defer close(events)
		for payload := range raw {
			var ev models.ChangeEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				l.logger.Warn().Err(err).Msg("skipping malformed change event")
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, stop, nil
}

func decodeHistory(raw []byte) ([]models.Record, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []models.Record{}, nil
	}
	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPartition, err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

func parseBalance(raw []byte) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: balance %q", ErrMalformedPartition, s)
	}
	return v, nil
}

func nextID(history []models.Record) int64 {
	var highest int64
	for _, r := range history {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest + 1
}
