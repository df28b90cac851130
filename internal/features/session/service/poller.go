package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// pollers keep a session's view fresh: one loop re-reads the mirrored
// history, the other fetches the balance of record. Both skip their ticks
// for a cooldown after a local transfer so they do not overwrite the
// optimistic update with stale remote data.
type pollers struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	userID   int64
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time

	users  UserLookup
	ledger LedgerReader
	view   *viewState
	logger zerolog.Logger

	mu              sync.Mutex
	suppressedUntil time.Time
}

func newPollers(userID int64, interval, cooldown time.Duration, users UserLookup, ledger LedgerReader, view *viewState, logger zerolog.Logger) *pollers {
	ctx, cancel := context.WithCancel(context.Background())
	return &pollers{
		ctx:      ctx,
		cancel:   cancel,
		userID:   userID,
		interval: interval,
		cooldown: cooldown,
		now:      time.Now,
		users:    users,
		ledger:   ledger,
		view:     view,
		logger:   logger,
	}
}

func (p *pollers) Start() {
	if p.interval <= 0 {
		return
	}
	p.wg.Add(2)
	go p.loop(p.tickHistory)
	go p.loop(p.tickBalance)
}

// Stop cancels both loops and waits for an in-flight tick to finish.
func (p *pollers) Stop() {
	p.cancel()
	p.wg.Wait()
}

// Suppress starts a cooldown window.
func (p *pollers) Suppress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suppressedUntil = p.now().Add(p.cooldown)
}

func (p *pollers) suppressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().Before(p.suppressedUntil)
}

func (p *pollers) loop(tick func(context.Context)) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if p.suppressed() {
				continue
			}
			tick(p.ctx)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *pollers) tickHistory(ctx context.Context) {
	history, err := p.ledger.LoadHistory(ctx, p.userID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("history poll failed")
		return
	}
	p.view.SetHistory(history)
}

// tickBalance adopts the balance of record into the mirror and the view.
func (p *pollers) tickBalance(ctx context.Context) {
	user, err := p.users.GetUser(ctx, p.userID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("balance poll failed")
		return
	}
	balance := user.BalanceMinor()
	if err := p.ledger.SetBalance(ctx, p.userID, balance); err != nil {
		p.logger.Warn().Err(err).Msg("failed to mirror polled balance")
	}
	p.view.SetBalance(balance)
}
