package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxHandleLength      = 32
	MinHandleLength      = 1
	MaxChatMessageLength = 500
	MaxMethodLength      = 16
)

var (
	handleRegex  = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
	numericRegex = regexp.MustCompile(`^\d+$`)
)

// ValidateHandle checks a new account handle. An all-digit handle would read
// as a user id, so it is refused.
func ValidateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("handle cannot be empty")
	}

	handle = strings.TrimSpace(handle)
	if len(handle) < MinHandleLength {
		return fmt.Errorf("handle must be at least %d characters long", MinHandleLength)
	}

	if len(handle) > MaxHandleLength {
		return fmt.Errorf("handle cannot exceed %d characters", MaxHandleLength)
	}

	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("handle may contain only letters, numbers, dots, dashes and underscores")
	}

	if numericRegex.MatchString(handle) {
		return fmt.Errorf("handle cannot be only digits")
	}

	return nil
}

// ValidateChatMessage checks a line typed into the chat.
func ValidateChatMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	if utf8.RuneCountInString(text) > MaxChatMessageLength {
		return fmt.Errorf("message cannot exceed %d characters", MaxChatMessageLength)
	}

	return nil
}

// ValidateMethodName only bounds the length; recognition happens later.
func ValidateMethodName(method string) error {
	if utf8.RuneCountInString(method) > MaxMethodLength {
		return fmt.Errorf("method cannot exceed %d characters", MaxMethodLength)
	}
	return nil
}

// ValidatePositiveInt checks that a number is positive
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
