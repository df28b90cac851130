package paymentsapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// User is the payments API view of an account. Balance is in major units.
type User struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"user_id,omitempty"`
	Handle  string          `json:"handle"`
	Balance decimal.Decimal `json:"balance"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BalanceMinor converts the balance of record to minor units, rounding half away from zero.
func (u *User) BalanceMinor() int64 {
	return u.Balance.Shift(2).Round(0).IntPart()
}

type NewUserRequest struct {
	Handle string `json:"handle"`
}

type SetBalanceRequest struct {
	UserID  int64       `json:"user_id"`
	Balance json.Number `json:"balance"`
}

// Payment amounts below are minor units.

type PixTransferRequest struct {
	FromUserID int64 `json:"from_user_id"`
	ToUserID   int64 `json:"to_user_id"`
	Amount     int64 `json:"amount"`
}

type POSTransferRequest struct {
	ToUserID      int64  `json:"to_user_id"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

type LinkPaymentRequest struct {
	FromUserID int64 `json:"from_user_id"`
	ToUserID   int64 `json:"to_user_id"`
	Amount     int64 `json:"amount"`
}

type CardPaymentRequest struct {
	UserID    int64  `json:"user_id"`
	Amount    int64  `json:"amount"`
	StoreName string `json:"store_name"`
}

type ReceivableRequest struct {
	UserID  int64 `json:"user_id"`
	Amount  int64 `json:"amount"`
	Premint bool  `json:"premint"`
}
