package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	"payments-chat-backend/internal/features/transfer/models"
	"payments-chat-backend/internal/platform/paymentsapi"
)

const posPaymentMethod = "debit"

// DispatchRequest is a resolved transfer plus the method the user picked.
type DispatchRequest struct {
	PayerID     int64
	RecipientID int64
	Amount      int64
	Method      string
	// Identifier labels the payer's history record; the recipient id is
	// used when it is empty.
	Identifier string
}

// Dispatcher executes a transfer against the payments API and records the
// outcome in the local mirror.
type Dispatcher struct {
	api       PaymentsAPI
	ledger    LedgerMirror
	queue     BalanceSyncQueue
	storeName string
	now       func() time.Time
	logger    zerolog.Logger

	background sync.WaitGroup
}

func NewDispatcher(api PaymentsAPI, ledger LedgerMirror, queue BalanceSyncQueue, storeName string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api:       api,
		ledger:    ledger,
		queue:     queue,
		storeName: storeName,
		now:       time.Now,
		logger:    logger,
	}
}

// Dispatch checks preconditions in order (method present, recipient id
// positive, method recognized and available) without touching the API.
// After a successful payment the mirror, history and follow-up tasks are
// best-effort: their failures are logged and never undo the receipt.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (*models.Receipt, error) {
	if strings.TrimSpace(req.Method) == "" {
		return nil, ErrMethodNotSpecified
	}
	if req.RecipientID <= 0 {
		return nil, ErrInvalidRecipientID
	}
	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	log := d.logger.With().
		Int64("payer_id", req.PayerID).
		Int64("recipient_id", req.RecipientID).
		Int64("amount", req.Amount).
		Str("method", string(method)).
		Logger()

	if err := d.pay(ctx, method, req); err != nil {
		log.Error().Err(err).Msg("payment rejected")
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	issuedAt := d.now()
	d.updateMirror(ctx, log, req)
	d.recordHistory(ctx, log, req, issuedAt)
	d.createReceivable(ctx, log, req)

	log.Info().Msg("transfer completed")

	return &models.Receipt{
		Amount:      req.Amount,
		RecipientID: req.RecipientID,
		Recipient:   strconv.FormatInt(req.RecipientID, 10),
		Method:      method,
		IssuedAt:    issuedAt,
	}, nil
}

// Wait blocks until detached follow-up calls have finished.
func (d *Dispatcher) Wait() {
	d.background.Wait()
}

func (d *Dispatcher) pay(ctx context.Context, method models.Method, req DispatchRequest) error {
	switch method {
	case models.MethodPIX:
		return d.api.PayPix(ctx, paymentsapi.PixTransferRequest{
			FromUserID: req.PayerID,
			ToUserID:   req.RecipientID,
			Amount:     req.Amount,
		})
	case models.MethodPOS:
		return d.api.PayPOS(ctx, paymentsapi.POSTransferRequest{
			ToUserID:      req.RecipientID,
			Amount:        req.Amount,
			PaymentMethod: posPaymentMethod,
		})
	case models.MethodLink:
		return d.api.PayLink(ctx, paymentsapi.LinkPaymentRequest{
			FromUserID: req.PayerID,
			ToUserID:   req.RecipientID,
			Amount:     req.Amount,
		})
	case models.MethodCard:
		return d.api.PayCard(ctx, paymentsapi.CardPaymentRequest{
			UserID:    req.PayerID,
			Amount:    req.Amount,
			StoreName: d.storeName,
		})
	default:
		return ErrMethodNotRecognized
	}
}

func (d *Dispatcher) updateMirror(ctx context.Context, log zerolog.Logger, req DispatchRequest) {
	payerBalance, err := d.ledger.AdjustBalance(ctx, req.PayerID, -req.Amount)
	if err != nil {
		log.Error().Err(err).Msg("failed to debit payer mirror")
		return
	}
	recipientBalance, err := d.ledger.AdjustBalance(ctx, req.RecipientID, req.Amount)
	if err != nil {
		log.Error().Err(err).Msg("failed to credit recipient mirror")
		return
	}
	if req.PayerID == req.RecipientID {
		payerBalance = recipientBalance
	}

	job := models.BalanceSync{
		PayerID:          req.PayerID,
		PayerBalance:     payerBalance,
		RecipientID:      req.RecipientID,
		RecipientBalance: recipientBalance,
	}
	if err := d.queue.Enqueue(ctx, job); err != nil {
		log.Warn().Err(err).Msg("failed to enqueue balance sync")
	}
}

func (d *Dispatcher) recordHistory(ctx context.Context, log zerolog.Logger, req DispatchRequest, at time.Time) {
	label := req.Identifier
	if label == "" {
		label = strconv.FormatInt(req.RecipientID, 10)
	}
	date := at.Format(ledgermodels.DateLayout)
	amount := decimal.New(req.Amount, -2)

	_, err := d.ledger.AppendRecord(ctx, req.PayerID, ledgermodels.Record{
		Amount:    amount.Neg(),
		Status:    ledgermodels.StatusSuccess,
		Date:      date,
		Recipient: label,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record payer history")
	}

	if req.PayerID == req.RecipientID {
		return
	}

	_, err = d.ledger.PrependRecord(ctx, req.RecipientID, ledgermodels.Record{
		Amount:    amount,
		Status:    ledgermodels.StatusSuccess,
		Date:      date,
		Recipient: fmt.Sprintf("Recebido de %d", req.PayerID),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record recipient history")
		return
	}
	if err := d.ledger.NotifyHistoryChanged(ctx, req.RecipientID); err != nil {
		log.Warn().Err(err).Msg("failed to publish history change")
	}
}

// createReceivable runs detached from the request: a rejection by the API is
// expected for some accounts and ignored, anything else is logged.
func (d *Dispatcher) createReceivable(ctx context.Context, log zerolog.Logger, req DispatchRequest) {
	detached := context.WithoutCancel(ctx)
	receivable := paymentsapi.ReceivableRequest{
		UserID:  req.RecipientID,
		Amount:  req.Amount,
		Premint: true,
	}

	d.background.Add(1)
	go func() {
		defer d.background.Done()
		err := d.api.CreateReceivable(detached, receivable)
		switch {
		case err == nil:
			log.Debug().Msg("receivable created")
		case errors.Is(err, paymentsapi.ErrRejected):
			log.Debug().Err(err).Msg("receivable rejected")
		default:
			log.Error().Err(err).Msg("failed to create receivable")
		}
	}()
}
