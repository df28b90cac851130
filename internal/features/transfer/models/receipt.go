package models

import "time"

// Receipt summarizes a completed transfer for the share prompt.
type Receipt struct {
	Amount      int64     `json:"amount" example:"5000"`
	RecipientID int64     `json:"recipient_id" example:"2955"`
	Recipient   string    `json:"recipient" example:"2955"`
	Method      Method    `json:"method" example:"PIX"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ReceiptDocument is a rendered, downloadable receipt.
type ReceiptDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}
