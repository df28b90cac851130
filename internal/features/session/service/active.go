package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"payments-chat-backend/internal/features/session/models"
	transfermodels "payments-chat-backend/internal/features/transfer/models"
	transfer "payments-chat-backend/internal/features/transfer/service"
)

const refreshTimeout = 5 * time.Second

// ActiveSession is one logged-in user's in-process state: the conversation,
// the dashboard view and the loops keeping that view fresh.
type ActiveSession struct {
	Token  string
	UserID int64
	Handle string

	Conversation *transfer.Conversation

	view    *viewState
	pollers *pollers
	ledger  LedgerReader
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	lastReceipt *transfermodels.ReceiptDocument
}

// View returns the current dashboard view.
func (a *ActiveSession) View() models.View {
	return a.view.Snapshot()
}

// Updates streams view changes until the returned cancel is called or the
// session closes.
func (a *ActiveSession) Updates() (<-chan models.View, func()) {
	return a.view.Subscribe()
}

func (a *ActiveSession) SetLastReceipt(doc *transfermodels.ReceiptDocument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastReceipt = doc
}

func (a *ActiveSession) LastReceipt() (*transfermodels.ReceiptDocument, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReceipt, a.lastReceipt != nil
}

// Refresh reloads balance and history from the mirror.
func (a *ActiveSession) Refresh(ctx context.Context) {
	if balance, ok, err := a.ledger.Balance(ctx, a.UserID); err != nil {
		a.logger.Warn().Err(err).Msg("failed to read mirrored balance")
	} else if ok {
		a.view.SetBalance(balance)
	}

	history, err := a.ledger.LoadHistory(ctx, a.UserID)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to read mirrored history")
		return
	}
	a.view.SetHistory(history)
}

// afterDispatch runs inside the conversation once a transfer reached the
// payments API.
func (a *ActiveSession) afterDispatch() {
	a.pollers.Suppress()
	ctx, cancel := context.WithTimeout(a.ctx, refreshTimeout)
	defer cancel()
	a.Refresh(ctx)
}

func (a *ActiveSession) start() {
	a.pollers.Start()

	events, stop, err := a.ledger.WatchChanges(a.ctx, a.UserID)
	if err != nil {
		a.logger.Warn().Err(err).Msg("change notifications unavailable")
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() { _ = stop() }()
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				ctx, cancel := context.WithTimeout(a.ctx, refreshTimeout)
				a.Refresh(ctx)
				cancel()
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Close stops background work and ends every view subscription.
func (a *ActiveSession) Close() {
	a.cancel()
	a.pollers.Stop()
	a.wg.Wait()
	a.view.closeAll()
}

func (a *ActiveSession) SessionUserID() int64 {
	return a.UserID
}
