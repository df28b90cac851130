package service

import "errors"

var (
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrTransferPending     = errors.New("a transfer is already pending")
	ErrNoPendingTransfer   = errors.New("no pending transfer")
	ErrNoPendingReceipt    = errors.New("no receipt awaiting confirmation")

	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrInvalidRecipientID = errors.New("invalid recipient id")
	ErrInvalidAmount      = errors.New("invalid amount")

	ErrMethodNotSpecified  = errors.New("method not specified")
	ErrMethodNotRecognized = errors.New("method not recognized")
	ErrMethodUnavailable   = errors.New("method not yet available")

	ErrPaymentFailed = errors.New("payment failed")
	ErrReceiptFailed = errors.New("receipt generation failed")
)

// IsMethodInputError reports errors that leave the pending transfer in place
// so the user can pick another method.
func IsMethodInputError(err error) bool {
	return errors.Is(err, ErrMethodNotSpecified) ||
		errors.Is(err, ErrMethodNotRecognized) ||
		errors.Is(err, ErrMethodUnavailable)
}
