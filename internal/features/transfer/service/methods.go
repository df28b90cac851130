package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"payments-chat-backend/internal/features/transfer/models"
)

// ParseMethod recognizes a payment method name regardless of case and
// diacritics, so "cartão", "Cartao" and "CARD" all select MethodCard.
// MPOS is recognized but returned together with ErrMethodUnavailable.
func ParseMethod(raw string) (models.Method, error) {
	switch foldMethod(raw) {
	case "":
		return "", ErrMethodNotSpecified
	case "PIX":
		return models.MethodPIX, nil
	case "POS":
		return models.MethodPOS, nil
	case "LINK":
		return models.MethodLink, nil
	case "CARD", "CARTAO":
		return models.MethodCard, nil
	case "MPOS":
		return models.MethodMPOS, ErrMethodUnavailable
	default:
		return "", ErrMethodNotRecognized
	}
}

func foldMethod(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		folded = strings.TrimSpace(raw)
	}
	return strings.ToUpper(folded)
}
