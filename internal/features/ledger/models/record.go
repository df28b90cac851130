package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// DateLayout is the day-precision format records carry.
const DateLayout = "2006-01-02"

// Record is one entry of a user's mirrored transaction history. Amount is in
// major units: negative for money sent, positive for money received.
type Record struct {
	ID        int64           `json:"id" example:"3"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"number" example:"-50"`
	Status    Status          `json:"status" example:"success" enums:"success,failed"`
	Date      string          `json:"date" example:"2025-05-20"`
	Recipient string          `json:"recipient" example:"2955"`
}

// MarshalJSON writes Amount as a JSON number so stored partitions hold
// numbers. Unmarshalling accepts both numbers and quoted strings.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(r), json.Number(r.Amount.String())})
}

// Outgoing reports whether the record debits its owner.
func (r Record) Outgoing() bool {
	return r.Amount.IsNegative()
}

// ChangeEvent announces that a partition of UserID was rewritten by someone
// other than that user's own session.
type ChangeEvent struct {
	UserID    int64     `json:"user_id"`
	Key       string    `json:"key"`
	ChangedAt time.Time `json:"changed_at"`
}
