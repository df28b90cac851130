package models

// TransferIntent is a parsed "transfer <amount> to <identifier>" command.
// Amount is in minor units; RecipientID is filled in once resolved.
type TransferIntent struct {
	Amount      int64  `json:"amount" example:"5000"`
	Identifier  string `json:"identifier" example:"2955"`
	RecipientID int64  `json:"recipient_id,omitempty" example:"2955"`
}

// BalanceSync asks the background worker to push both mirrored balances
// (minor units) to the balance of record.
type BalanceSync struct {
	PayerID          int64 `json:"payer_id"`
	PayerBalance     int64 `json:"payer_balance"`
	RecipientID      int64 `json:"recipient_id"`
	RecipientBalance int64 `json:"recipient_balance"`
}
