package service

import (
	"slices"
	"sync"
	"time"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/session/models"
)

// viewState holds the last known balance and history of one session and
// fans changes out to subscribers. Slow subscribers miss intermediate
// updates but always see the latest one.
type viewState struct {
	mu          sync.Mutex
	view        models.View
	subscribers map[chan models.View]struct{}
	closed      bool
	now         func() time.Time
}

func newViewState(userID int64, now func() time.Time) *viewState {
	return &viewState{
		view:        models.View{UserID: userID, History: []ledgermodels.Record{}},
		subscribers: make(map[chan models.View]struct{}),
		now:         now,
	}
}

func (v *viewState) Snapshot() models.View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyView(v.view)
}

func (v *viewState) SetBalance(balance int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.view.Balance == balance {
		return
	}
	v.view.Balance = balance
	v.publishLocked()
}

func (v *viewState) SetHistory(history []ledgermodels.Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if slices.EqualFunc(v.view.History, history, recordsEqual) {
		return
	}
	v.view.History = slices.Clone(history)
	v.publishLocked()
}

// Subscribe returns a channel of view updates and a function that ends the
// subscription.
func (v *viewState) Subscribe() (<-chan models.View, func()) {
	ch := make(chan models.View, 1)
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	v.subscribers[ch] = struct{}{}
	v.mu.Unlock()

	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.subscribers[ch]; ok {
			delete(v.subscribers, ch)
			close(ch)
		}
	}
}

func (v *viewState) closeAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	for ch := range v.subscribers {
		delete(v.subscribers, ch)
		close(ch)
	}
}

func (v *viewState) publishLocked() {
	v.view.UpdatedAt = v.now()
	snapshot := copyView(v.view)
	for ch := range v.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func copyView(v models.View) models.View {
	v.History = slices.Clone(v.History)
	if v.History == nil {
		v.History = []ledgermodels.Record{}
	}
	return v
}

func recordsEqual(a, b ledgermodels.Record) bool {
	return a.ID == b.ID && a.Amount.Equal(b.Amount) && a.Status == b.Status &&
		a.Date == b.Date && a.Recipient == b.Recipient
}
