package service

import (
	"context"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/ledger/repository"
	"payments-chat-backend/internal/platform/paymentsapi"
)

type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*paymentsapi.User, error)
}

// UserDirectory is the payments API surface used for login and sign-up.
type UserDirectory interface {
	UserLookup
	LookupUser(ctx context.Context, identifier string) (*paymentsapi.User, error)
	CreateUser(ctx context.Context, handle string) (*paymentsapi.User, error)
}

// LedgerReader is what a session reads from and seeds into the mirror.
type LedgerReader interface {
	LoadHistory(ctx context.Context, userID int64) ([]ledgermodels.Record, error)
	Balance(ctx context.Context, userID int64) (int64, bool, error)
	SetBalance(ctx context.Context, userID, minor int64) error
	WatchChanges(ctx context.Context, userID int64) (<-chan ledgermodels.ChangeEvent, func() error, error)
}

type SessionStore = repository.Store
