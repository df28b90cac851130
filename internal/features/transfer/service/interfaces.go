package service

import (
	"context"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/transfer/models"
	"payments-chat-backend/internal/platform/paymentsapi"
)

// UserSearcher is the remote half of recipient resolution.
type UserSearcher interface {
	SearchUsers(ctx context.Context, query string) (*paymentsapi.User, error)
}

// PaymentsAPI is the subset of the payments service a transfer touches.
type PaymentsAPI interface {
	PayPix(ctx context.Context, req paymentsapi.PixTransferRequest) error
	PayPOS(ctx context.Context, req paymentsapi.POSTransferRequest) error
	PayLink(ctx context.Context, req paymentsapi.LinkPaymentRequest) error
	PayCard(ctx context.Context, req paymentsapi.CardPaymentRequest) error
	CreateReceivable(ctx context.Context, req paymentsapi.ReceivableRequest) error
}

// LedgerMirror is the local balance and history mirror.
type LedgerMirror interface {
	AdjustBalance(ctx context.Context, userID, delta int64) (int64, error)
	AppendRecord(ctx context.Context, userID int64, rec ledgermodels.Record) (ledgermodels.Record, error)
	PrependRecord(ctx context.Context, userID int64, rec ledgermodels.Record) (ledgermodels.Record, error)
	NotifyHistoryChanged(ctx context.Context, userID int64) error
}

// BalanceSyncQueue hands balance pushes to a background worker.
type BalanceSyncQueue interface {
	Enqueue(ctx context.Context, job models.BalanceSync) error
}

type RecipientResolver interface {
	Resolve(ctx context.Context, identifier string) (int64, error)
}

type TransferDispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*models.Receipt, error)
}

type ReceiptGenerator interface {
	Generate(ctx context.Context, receipt models.Receipt) (*models.ReceiptDocument, error)
}
