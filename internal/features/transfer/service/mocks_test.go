package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/transfer/models"
	"payments-chat-backend/internal/platform/paymentsapi"
)

type MockPaymentsAPI struct {
	mock.Mock
}

func (m *MockPaymentsAPI) PayPix(ctx context.Context, req paymentsapi.PixTransferRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentsAPI) PayPOS(ctx context.Context, req paymentsapi.POSTransferRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentsAPI) PayLink(ctx context.Context, req paymentsapi.LinkPaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentsAPI) PayCard(ctx context.Context, req paymentsapi.CardPaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentsAPI) CreateReceivable(ctx context.Context, req paymentsapi.ReceivableRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockUserSearcher struct {
	mock.Mock
}

func (m *MockUserSearcher) SearchUsers(ctx context.Context, query string) (*paymentsapi.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentsapi.User), args.Error(1)
}

type MockSyncQueue struct {
	mock.Mock
}

func (m *MockSyncQueue) Enqueue(ctx context.Context, job models.BalanceSync) error {
	return m.Called(ctx, job).Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, identifier string) (int64, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(int64), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, req DispatchRequest) (*models.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

type MockReceiptGenerator struct {
	mock.Mock
}

func (m *MockReceiptGenerator) Generate(ctx context.Context, receipt models.Receipt) (*models.ReceiptDocument, error) {
	args := m.Called(ctx, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiptDocument), args.Error(1)
}

// MockLedger only covers the failure paths; the happy paths run against the
// Redis-backed ledger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) AdjustBalance(ctx context.Context, userID, delta int64) (int64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) AppendRecord(ctx context.Context, userID int64, rec ledgermodels.Record) (ledgermodels.Record, error) {
	args := m.Called(ctx, userID, rec)
	return args.Get(0).(ledgermodels.Record), args.Error(1)
}

func (m *MockLedger) PrependRecord(ctx context.Context, userID int64, rec ledgermodels.Record) (ledgermodels.Record, error) {
	args := m.Called(ctx, userID, rec)
	return args.Get(0).(ledgermodels.Record), args.Error(1)
}

func (m *MockLedger) NotifyHistoryChanged(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
