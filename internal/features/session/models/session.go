package models

import (
	"time"

	ledgermodels "payments-chat-backend/internal/features/ledger/models"
	transfermodels "payments-chat-backend/internal/features/transfer/models"
)

// Record is the session partition stored under session:<token>.
type Record struct {
	UserID    int64     `json:"user_id"`
	Handle    string    `json:"handle,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"maria"`
	Password   string `json:"password" binding:"required" example:"2955"`
}

type RegisterRequest struct {
	Handle string `json:"handle" binding:"required" example:"clarawalk"`
}

type AuthResponse struct {
	Token     string    `json:"token" example:"5f0c2a2e-7d0b-4a53-9c43-1f4f1d1f0c11"`
	UserID    int64     `json:"user_id" example:"2955"`
	Handle    string    `json:"handle,omitempty" example:"maria"`
	ExpiresAt time.Time `json:"expires_at"`
}

// View is what the dashboard shows: the mirrored balance and history.
type View struct {
	UserID    int64                 `json:"user_id" example:"2955"`
	Balance   int64                 `json:"balance" example:"10000"`
	History   []ledgermodels.Record `json:"history"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type DashboardResponse struct {
	View
	BalanceDisplay string                   `json:"balance_display" example:"R$ 100,00"`
	Messages       []transfermodels.Message `json:"messages"`
	State          string                   `json:"state" example:"idle"`
	Methods        []string                 `json:"methods,omitempty"`
}

type ChatRequest struct {
	Text string `json:"text" binding:"required" example:"transfira R$50 para 2955"`
}

type MethodRequest struct {
	Method string `json:"method" example:"PIX"`
}

type ShareRequest struct {
	Accept *bool `json:"accept" binding:"required" example:"true"`
}

type ChatResponse struct {
	Messages   []transfermodels.Message `json:"messages"`
	State      string                   `json:"state" example:"awaiting_method"`
	Code       string                   `json:"code,omitempty" example:"RECIPIENT_NOT_FOUND"`
	Methods    []string                 `json:"methods,omitempty"`
	ReceiptURL string                   `json:"receipt_url,omitempty" example:"/api/v1/chat/receipt"`
}
