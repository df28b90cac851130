package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "payments-chat-backend/internal/common/errors"
	"payments-chat-backend/internal/common/validation"
	"payments-chat-backend/internal/features/ledger/repository"
	ledger "payments-chat-backend/internal/features/ledger/service"
	"payments-chat-backend/internal/features/session/models"
	transfer "payments-chat-backend/internal/features/transfer/service"
	"payments-chat-backend/internal/platform/paymentsapi"
)

// ConversationDeps are shared by every session's conversation.
type ConversationDeps struct {
	Resolver   transfer.RecipientResolver
	Dispatcher transfer.TransferDispatcher
	Receipts   transfer.ReceiptGenerator
}

type Config struct {
	TTL          time.Duration
	PollInterval time.Duration
	PollCooldown time.Duration
}

// Service owns login, sign-up, logout and the registry of active sessions.
// The token partition in the store is the source of truth; the registry is
// rebuilt from it on demand, e.g. after a restart.
type Service struct {
	users  UserDirectory
	store  SessionStore
	ledger LedgerReader
	deps   ConversationDeps
	cfg    Config
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*ActiveSession
}

func NewService(users UserDirectory, store SessionStore, ledger LedgerReader, deps ConversationDeps, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		store:    store,
		ledger:   ledger,
		deps:     deps,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*ActiveSession),
	}
}

// Login accepts an id, handle, email or tax id. The password is the user's
// decimal id.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.NewValidationError("identifier", "cannot be empty")
	}
	if password == "" {
		return nil, apperrors.NewValidationError("password", "cannot be empty")
	}

	user, err := s.users.LookupUser(ctx, identifier)
	if err != nil {
		if isUnknownUser(err) {
			return nil, errUserNotFound()
		}
		return nil, apperrors.NewExternalAPIError("lookup user", err)
	}
	if user == nil || user.ID <= 0 {
		return nil, errUserNotFound()
	}
	if password != strconv.FormatInt(user.ID, 10) {
		return nil, errWrongPassword()
	}

	return s.open(ctx, user)
}

// Register creates a remote account and logs it in.
func (s *Service) Register(ctx context.Context, handle string) (*models.AuthResponse, error) {
	handle = strings.TrimSpace(handle)
	if err := validation.ValidateHandle(handle); err != nil {
		return nil, apperrors.NewValidationError("handle", err.Error())
	}

	user, err := s.users.CreateUser(ctx, handle)
	if err != nil {
		var apiErr *paymentsapi.APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Body, handleTakenMarker) {
			return nil, errHandleTaken(handle)
		}
		return nil, apperrors.NewExternalAPIError("create user", err)
	}
	if user.ID <= 0 {
		reason := user.Message
		if reason == "" {
			reason = user.Error
		}
		if strings.Contains(reason, handleTakenMarker) {
			return nil, errHandleTaken(handle)
		}
		if reason == "" {
			reason = "Erro ao criar conta"
		}
		return nil, apperrors.New(apperrors.ErrCodeExternalAPI, reason)
	}
	if user.Handle == "" {
		user.Handle = handle
	}

	s.logger.Info().Int64("user_id", user.ID).Str("handle", user.Handle).Msg("account created")
	return s.open(ctx, user)
}

// Logout drops the token partition and stops the session's background work.
// Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, ledger.SessionKey(token)); err != nil {
		return apperrors.NewStorageError("delete session", err)
	}

	s.mu.Lock()
	active, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		active.Close()
		s.logger.Info().Int64("user_id", active.UserID).Msg("session closed")
	}
	return nil
}

// Authenticate validates token against its partition and returns the active
// session, recreating it when this process has not seen it yet.
func (s *Service) Authenticate(ctx context.Context, token string) (*ActiveSession, error) {
	if token == "" {
		return nil, errSessionExpired()
	}

	raw, err := s.store.Get(ctx, ledger.SessionKey(token))
	if errors.Is(err, repository.ErrNotFound) {
		s.drop(token)
		return nil, errSessionExpired()
	}
	if err != nil {
		return nil, apperrors.NewStorageError("read session", err)
	}

	var rec models.Record
	if err := json.Unmarshal(raw, &rec); err != nil || rec.UserID <= 0 {
		s.drop(token)
		return nil, errSessionExpired()
	}

	if active, ok := s.lookup(token); ok {
		return active, nil
	}
	return s.register(token, s.activate(ctx, token, rec)), nil
}

// Close ends every active session without touching their partitions.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*ActiveSession)
	s.mu.Unlock()

	for _, active := range sessions {
		active.Close()
	}
}

func (s *Service) open(ctx context.Context, user *paymentsapi.User) (*models.AuthResponse, error) {
	token := uuid.NewString()
	now := s.now()
	rec := models.Record{UserID: user.ID, Handle: user.Handle, CreatedAt: now.UTC()}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode session")
	}
	if err := s.store.Set(ctx, ledger.SessionKey(token), payload, s.cfg.TTL); err != nil {
		return nil, apperrors.NewStorageError("write session", err)
	}

	if err := s.ledger.SetBalance(ctx, user.ID, user.BalanceMinor()); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to seed balance mirror")
	}

	s.register(token, s.activate(ctx, token, rec))

	s.logger.Info().Int64("user_id", user.ID).Msg("session opened")

	resp := &models.AuthResponse{Token: token, UserID: user.ID, Handle: user.Handle}
	if s.cfg.TTL > 0 {
		resp.ExpiresAt = now.Add(s.cfg.TTL).UTC()
	}
	return resp, nil
}

// isUnknownUser separates "no such user" from the payments API failing.
func isUnknownUser(err error) bool {
	if errors.Is(err, paymentsapi.ErrUserNotFound) {
		return true
	}
	var apiErr *paymentsapi.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (s *Service) lookup(token string) (*ActiveSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.sessions[token]
	return active, ok
}

// register adds active to the registry unless another request got there
// first, in which case active is closed and the registered one returned.
func (s *Service) register(token string, active *ActiveSession) *ActiveSession {
	s.mu.Lock()
	existing, ok := s.sessions[token]
	if !ok {
		s.sessions[token] = active
	}
	s.mu.Unlock()

	if ok {
		active.Close()
		return existing
	}
	return active
}

// activate builds and starts a session without registering it. It reads the
// mirror and subscribes to change events, so it runs outside s.mu.
func (s *Service) activate(ctx context.Context, token string, rec models.Record) *ActiveSession {
	log := s.logger.With().Int64("user_id", rec.UserID).Logger()
	view := newViewState(rec.UserID, s.now)
	sessionCtx, cancel := context.WithCancel(context.Background())

	active := &ActiveSession{
		Token:   token,
		UserID:  rec.UserID,
		Handle:  rec.Handle,
		view:    view,
		pollers: newPollers(rec.UserID, s.cfg.PollInterval, s.cfg.PollCooldown, s.users, s.ledger, view, log),
		ledger:  s.ledger,
		logger:  log,
		ctx:     sessionCtx,
		cancel:  cancel,
	}
	active.Conversation = transfer.NewConversation(rec.UserID, s.deps.Resolver, s.deps.Dispatcher, s.deps.Receipts, log,
		transfer.WithDispatchHook(active.afterDispatch),
		transfer.WithClock(s.now),
	)

	active.Refresh(ctx)
	active.start()
	return active
}

func (s *Service) drop(token string) {
	s.mu.Lock()
	active, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()
	if ok {
		active.Close()
	}
}
