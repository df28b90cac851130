package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "payments-chat-backend/internal/common/errors"
	"payments-chat-backend/internal/common/middleware"
	"payments-chat-backend/internal/common/validation"
	receipt "payments-chat-backend/internal/features/receipt/service"
	"payments-chat-backend/internal/features/session/models"
	"payments-chat-backend/internal/features/session/service"
	transfermodels "payments-chat-backend/internal/features/transfer/models"
	transfer "payments-chat-backend/internal/features/transfer/service"
)

const (
	receiptPath       = "/api/v1/chat/receipt"
	keepAliveInterval = 15 * time.Second
)

type SessionService interface {
	Login(ctx context.Context, identifier, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, handle string) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*service.ActiveSession, error)
}

type SessionHandler struct {
	service      SessionService
	logger       zerolog.Logger
	secureCookie bool
}

func NewSessionHandler(service SessionService, logger zerolog.Logger, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		service:      service,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper(h.logger)

	auth := router.Group("/auth")
	{
		auth.POST("/login", wrap(h.login))
		auth.POST("/register", wrap(h.register))
	}

	protected := router.Group("")
	protected.Use(middleware.RequireSession[*service.ActiveSession](h.service, h.logger))
	{
		protected.POST("/auth/logout", wrap(h.logout))
		protected.GET("/dashboard", h.dashboard)
		protected.GET("/events", h.events)

		chat := protected.Group("/chat")
		chat.GET("/messages", h.transcript)
		chat.POST("/messages", wrap(h.sendMessage))
		chat.POST("/method", wrap(h.selectMethod))
		chat.POST("/share", wrap(h.share))
		chat.GET("/receipt", wrap(h.downloadReceipt))
	}
}

// @Summary Log in
// @Description Log in with a user id, handle, email or CPF. The password is the numeric user id.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 401 {object} middleware.ErrorResponse "Unknown user or wrong password"
// @Router /auth/login [post]
func (h *SessionHandler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid login request"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, resp)
	c.JSON(http.StatusOK, resp)
}

// @Summary Create account
// @Description Create a payments account for a handle and log it in.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body models.RegisterRequest true "New handle"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid handle"
// @Failure 409 {object} middleware.ErrorResponse "Handle already taken"
// @Failure 502 {object} middleware.ErrorResponse "Payments API error"
// @Router /auth/register [post]
func (h *SessionHandler) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid registration request"))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req.Handle)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, resp)
	c.JSON(http.StatusCreated, resp)
}

// @Summary Log out
// @Tags auth
// @Security SessionToken
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/logout [post]
func (h *SessionHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// @Summary Dashboard
// @Description Mirrored balance and history, chat transcript and conversation state.
// @Tags dashboard
// @Produce json
// @Security SessionToken
// @Success 200 {object} models.DashboardResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /dashboard [get]
func (h *SessionHandler) dashboard(c *gin.Context) {
	active := mustSession(c)
	view := active.View()
	state := active.Conversation.State()

	c.JSON(http.StatusOK, models.DashboardResponse{
		View:           view,
		BalanceDisplay: receipt.FormatBRL(view.Balance),
		Messages:       active.Conversation.Transcript(),
		State:          string(state.Name()),
		Methods:        methodChoices(state),
	})
}

// @Summary Chat transcript
// @Tags chat
// @Produce json
// @Security SessionToken
// @Success 200 {object} models.ChatResponse
// @Router /chat/messages [get]
func (h *SessionHandler) transcript(c *gin.Context) {
	active := mustSession(c)
	state := active.Conversation.State()
	c.JSON(http.StatusOK, models.ChatResponse{
		Messages: active.Conversation.Transcript(),
		State:    string(state.Name()),
		Methods:  methodChoices(state),
	})
}

// @Summary Send a chat message
// @Description Free text such as "transfira R$50 para 2955". While a receipt awaits confirmation, "sim" or "não" answer it.
// @Tags chat
// @Accept json
// @Produce json
// @Security SessionToken
// @Param message body models.ChatRequest true "Message"
// @Success 200 {object} models.ChatResponse "Agent replies; code is set when the input was refused"
// @Failure 400 {object} middleware.ErrorResponse
// @Router /chat/messages [post]
func (h *SessionHandler) sendMessage(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid chat message"))
		return
	}
	if err := validation.ValidateChatMessage(req.Text); err != nil {
		_ = c.Error(apperrors.NewValidationError("text", err.Error()))
		return
	}

	active := mustSession(c)
	reply := active.Conversation.Submit(c.Request.Context(), req.Text)
	h.respond(c, active, reply)
}

// @Summary Pick the payment method
// @Description Answers the pending transfer with PIX, POS, LINK, CARD/CARTÃO or MPOS.
// @Tags chat
// @Accept json
// @Produce json
// @Security SessionToken
// @Param method body models.MethodRequest true "Method"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /chat/method [post]
func (h *SessionHandler) selectMethod(c *gin.Context) {
	var req models.MethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid method request"))
		return
	}
	if err := validation.ValidateMethodName(req.Method); err != nil {
		_ = c.Error(apperrors.NewValidationError("method", err.Error()))
		return
	}

	active := mustSession(c)
	reply := active.Conversation.SelectMethod(c.Request.Context(), req.Method)
	h.respond(c, active, reply)
}

// @Summary Answer the share prompt
// @Tags chat
// @Accept json
// @Produce json
// @Security SessionToken
// @Param answer body models.ShareRequest true "Share answer"
// @Success 200 {object} models.ChatResponse "receipt_url is set when a receipt was generated"
// @Failure 400 {object} middleware.ErrorResponse
// @Router /chat/share [post]
func (h *SessionHandler) share(c *gin.Context) {
	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid share answer"))
		return
	}

	active := mustSession(c)
	reply := active.Conversation.RespondShare(c.Request.Context(), *req.Accept)
	h.respond(c, active, reply)
}

// @Summary Download the last receipt
// @Tags chat
// @Produce application/pdf
// @Security SessionToken
// @Success 200 {file} binary
// @Failure 404 {object} middleware.ErrorResponse "No receipt generated yet"
// @Router /chat/receipt [get]
func (h *SessionHandler) downloadReceipt(c *gin.Context) {
	doc, ok := mustSession(c).LastReceipt()
	if !ok {
		_ = c.Error(apperrors.NewNotFoundError("receipt", "latest"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// @Summary Dashboard updates
// @Description Server-sent events: a "view" event with balance and history whenever they change.
// @Tags dashboard
// @Produce text/event-stream
// @Security SessionToken
// @Success 200 {object} models.View
// @Router /events [get]
func (h *SessionHandler) events(c *gin.Context) {
	active := mustSession(c)
	updates, cancel := active.Updates()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("view", active.View())
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case view, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("view", view)
			return true
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *SessionHandler) respond(c *gin.Context, active *service.ActiveSession, reply transfer.Reply) {
	resp := models.ChatResponse{
		Messages: reply.Messages,
		State:    string(reply.State.Name()),
		Methods:  methodChoices(reply.State),
	}
	if reply.Err != nil {
		resp.Code = string(conversationCode(reply.Err))
	}
	if reply.Document != nil {
		active.SetLastReceipt(reply.Document)
		resp.ReceiptURL = receiptPath
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) setSessionCookie(c *gin.Context, resp *models.AuthResponse) {
	maxAge := 0
	if !resp.ExpiresAt.IsZero() {
		maxAge = int(time.Until(resp.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, resp.Token, maxAge, "/", "", h.secureCookie, true)
}

func mustSession(c *gin.Context) *service.ActiveSession {
	active, ok := middleware.IdentityFrom[*service.ActiveSession](c)
	if !ok {
		panic("session handler mounted without RequireSession")
	}
	return active
}

func methodChoices(state transfer.State) []string {
	if state.Name() != transfer.StateAwaitingMethod {
		return nil
	}
	labels := make([]string, 0, len(transfermodels.Offered))
	for _, m := range transfermodels.Offered {
		labels = append(labels, m.Label)
	}
	return labels
}

func conversationCode(err error) apperrors.ErrorCode {
	switch {
	case errors.Is(err, transfer.ErrUnrecognizedCommand):
		return apperrors.ErrCodeUnrecognizedCommand
	case errors.Is(err, transfer.ErrTransferPending):
		return apperrors.ErrCodeTransferPending
	case errors.Is(err, transfer.ErrNoPendingTransfer), errors.Is(err, transfer.ErrNoPendingReceipt):
		return apperrors.ErrCodeNoPendingTransfer
	case errors.Is(err, transfer.ErrRecipientNotFound):
		return apperrors.ErrCodeRecipientNotFound
	case errors.Is(err, transfer.ErrInvalidRecipientID):
		return apperrors.ErrCodeInvalidRecipientID
	case errors.Is(err, transfer.ErrInvalidAmount):
		return apperrors.ErrCodeValidation
	case errors.Is(err, transfer.ErrMethodNotSpecified):
		return apperrors.ErrCodeMethodNotSpecified
	case errors.Is(err, transfer.ErrMethodNotRecognized):
		return apperrors.ErrCodeMethodNotRecognized
	case errors.Is(err, transfer.ErrMethodUnavailable):
		return apperrors.ErrCodeMethodUnavailable
	case errors.Is(err, transfer.ErrPaymentFailed):
		return apperrors.ErrCodePaymentFailed
	case errors.Is(err, transfer.ErrReceiptFailed):
		return apperrors.ErrCodeReceiptFailed
	default:
		return apperrors.ErrCodeInternal
	}
}
