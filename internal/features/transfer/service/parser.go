package service

import (
	"math"
	"regexp"
	"strconv"

	"payments-chat-backend/internal/features/transfer/models"
)

// transferCommand matches anywhere in the text, case-insensitively:
// a verb, an optional "R$", whole currency units, "para" and a token.
var transferCommand = regexp.MustCompile(`(?i)(transfira|transferir|pague)\s*R?\$?(\d+)\s*para\s*(\S+)`)

// ParseCommand turns free text into a TransferIntent. Only whole amounts are
// recognized; "R$50,75 para x" does not match and is an unrecognized command.
func ParseCommand(text string) (models.TransferIntent, error) {
	m := transferCommand.FindStringSubmatch(text)
	if m == nil {
		return models.TransferIntent{}, ErrUnrecognizedCommand
	}

	units, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || units <= 0 || units > math.MaxInt64/100 {
		return models.TransferIntent{}, ErrUnrecognizedCommand
	}

	return models.TransferIntent{
		Amount:     units * 100,
		Identifier: m[3],
	}, nil
}
