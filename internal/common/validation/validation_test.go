package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandle(t *testing.T) {
	for _, ok := range []string{"clarawalk", "maria_1", "j.doe", "a"} {
		assert.NoError(t, ValidateHandle(ok), ok)
	}
	for _, bad := range []string{"", "   ", "with space", "2955", strings.Repeat("x", 33), "ção"} {
		assert.Error(t, ValidateHandle(bad), bad)
	}
}

func TestValidateChatMessage(t *testing.T) {
	assert.NoError(t, ValidateChatMessage("transfira R$50 para 2955"))
	assert.Error(t, ValidateChatMessage("  "))
	assert.Error(t, ValidateChatMessage(strings.Repeat("a", MaxChatMessageLength+1)))
}

func TestValidateMethodName(t *testing.T) {
	assert.NoError(t, ValidateMethodName(""))
	assert.NoError(t, ValidateMethodName("CARTÃO"))
	assert.Error(t, ValidateMethodName(strings.Repeat("X", MaxMethodLength+1)))
}
