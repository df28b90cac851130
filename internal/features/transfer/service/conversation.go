package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"payments-chat-backend/internal/features/transfer/models"
)

type StateName string

const (
	StateIdle                      StateName = "idle"
	StateAwaitingMethod            StateName = "awaiting_method"
	StateAwaitingShareConfirmation StateName = "awaiting_share_confirmation"
)

// State is the conversation's tagged state. Only the types in this file
// implement it.
type State interface {
	Name() StateName
	state()
}

type Idle struct{}

type AwaitingMethod struct {
	Intent models.TransferIntent
}

type AwaitingShareConfirmation struct {
	Receipt models.Receipt
}

func (Idle) Name() StateName                      { return StateIdle }
func (AwaitingMethod) Name() StateName            { return StateAwaitingMethod }
func (AwaitingShareConfirmation) Name() StateName { return StateAwaitingShareConfirmation }

func (Idle) state()                      {}
func (AwaitingMethod) state()            {}
func (AwaitingShareConfirmation) state() {}

// Reply is what one user action produced.
type Reply struct {
	Messages []models.Message
	State    State
	Err      error
	Document *models.ReceiptDocument
}

// Conversation drives a single user's chat. Methods are safe for concurrent
// use; each action runs to completion before the next starts.
type Conversation struct {
	mu         sync.Mutex
	userID     int64
	state      State
	transcript []models.Message

	resolver   RecipientResolver
	dispatcher TransferDispatcher
	receipts   ReceiptGenerator
	onDispatch func()
	now        func() time.Time
	logger     zerolog.Logger
}

type ConversationOption func(*Conversation)

// WithDispatchHook registers a callback fired after every dispatch attempt
// that reached the payments API.
func WithDispatchHook(fn func()) ConversationOption {
	return func(c *Conversation) { c.onDispatch = fn }
}

func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) { c.now = now }
}

func NewConversation(
	userID int64,
	resolver RecipientResolver,
	dispatcher TransferDispatcher,
	receipts ReceiptGenerator,
	logger zerolog.Logger,
	opts ...ConversationOption,
) *Conversation {
	c := &Conversation{
		userID:     userID,
		state:      Idle{},
		resolver:   resolver,
		dispatcher: dispatcher,
		receipts:   receipts,
		onDispatch: func() {},
		now:        time.Now,
		logger:     logger.With().Int64("user_id", userID).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transcript = []models.Message{c.message(models.RoleAgent, MsgWelcome)}
	return c
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Submit handles a free-text line. While a receipt is awaiting confirmation
// a yes/no answer is treated as the share response and any other text
// declines the share before being handled as a command.
func (c *Conversation) Submit(ctx context.Context, text string) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{State: c.state}
	}

	start := len(c.transcript)
	c.say(models.RoleUser, text)

	var err error
	var doc *models.ReceiptDocument
	switch st := c.state.(type) {
	case AwaitingMethod:
		err = ErrTransferPending
		c.say(models.RoleAgent, UserMessage(err))
	case AwaitingShareConfirmation:
		if accept, ok := ParseShareAnswer(text); ok {
			doc, err = c.respondShare(ctx, st, accept)
			break
		}
		c.state = Idle{}
		err = c.handleCommand(ctx, text)
	default:
		err = c.handleCommand(ctx, text)
	}

	return c.reply(start, err, doc)
}

// SelectMethod answers the pending transfer with a payment method.
func (c *Conversation) SelectMethod(ctx context.Context, method string) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := len(c.transcript)
	pending, ok := c.state.(AwaitingMethod)
	if !ok {
		err := ErrNoPendingTransfer
		c.say(models.RoleAgent, UserMessage(err))
		return c.reply(start, err, nil)
	}

	if label := strings.TrimSpace(method); label != "" {
		c.say(models.RoleUser, label)
	}

	receipt, err := c.dispatcher.Dispatch(ctx, DispatchRequest{
		PayerID:     c.userID,
		RecipientID: pending.Intent.RecipientID,
		Amount:      pending.Intent.Amount,
		Method:      method,
		Identifier:  pending.Intent.Identifier,
	})
	if err != nil {
		if !IsMethodInputError(err) {
			c.state = Idle{}
		}
		if errors.Is(err, ErrPaymentFailed) {
			c.onDispatch()
		}
		c.say(models.RoleAgent, UserMessage(err))
		return c.reply(start, err, nil)
	}

	c.onDispatch()
	c.state = AwaitingShareConfirmation{Receipt: *receipt}
	c.say(models.RoleAgent, transferSucceeded(receipt.Method))
	c.say(models.RoleAgent, MsgAskShare)
	return c.reply(start, nil, nil)
}

// RespondShare answers the share prompt. Either way the conversation
// returns to idle.
func (c *Conversation) RespondShare(ctx context.Context, accept bool) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := len(c.transcript)
	pending, ok := c.state.(AwaitingShareConfirmation)
	if !ok {
		err := ErrNoPendingReceipt
		c.say(models.RoleAgent, UserMessage(err))
		return c.reply(start, err, nil)
	}

	if accept {
		c.say(models.RoleUser, "Sim")
	} else {
		c.say(models.RoleUser, "Não")
	}
	doc, err := c.respondShare(ctx, pending, accept)
	return c.reply(start, err, doc)
}

func (c *Conversation) handleCommand(ctx context.Context, text string) error {
	intent, err := ParseCommand(text)
	if err != nil {
		c.say(models.RoleAgent, UserMessage(err))
		return err
	}

	id, err := c.resolver.Resolve(ctx, intent.Identifier)
	if err != nil {
		c.say(models.RoleAgent, UserMessage(ErrRecipientNotFound))
		return err
	}

	intent.RecipientID = id
	c.state = AwaitingMethod{Intent: intent}
	c.say(models.RoleAgent, MsgAskMethod)
	return nil
}

func (c *Conversation) respondShare(ctx context.Context, pending AwaitingShareConfirmation, accept bool) (*models.ReceiptDocument, error) {
	c.state = Idle{}
	if !accept {
		c.say(models.RoleAgent, MsgReceiptDeclined)
		return nil, nil
	}

	doc, err := c.receipts.Generate(ctx, pending.Receipt)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to generate receipt")
		c.say(models.RoleAgent, MsgReceiptFailed)
		return nil, errors.Join(ErrReceiptFailed, err)
	}
	c.say(models.RoleAgent, MsgReceiptShared)
	return doc, nil
}

func (c *Conversation) say(role models.Role, content string) {
	c.transcript = append(c.transcript, c.message(role, content))
}

func (c *Conversation) message(role models.Role, content string) models.Message {
	return models.Message{Role: role, Content: content, At: c.now()}
}

func (c *Conversation) reply(start int, err error, doc *models.ReceiptDocument) Reply {
	added := make([]models.Message, len(c.transcript)-start)
	copy(added, c.transcript[start:])
	return Reply{
		Messages: added,
		State:    c.state,
		Err:      err,
		Document: doc,
	}
}

// ParseShareAnswer recognizes typed yes/no answers to the share prompt.
func ParseShareAnswer(text string) (accept bool, ok bool) {
	switch foldMethod(text) {
	case "SIM", "S", "YES", "Y":
		return true, true
	case "NAO", "N", "NO":
		return false, true
	}
	return false, false
}
