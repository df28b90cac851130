package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payments-chat-backend/internal/features/transfer/models"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		raw    string
		method models.Method
		err    error
	}{
		{"PIX", models.MethodPIX, nil},
		{" pix ", models.MethodPIX, nil},
		{"Pos", models.MethodPOS, nil},
		{"link", models.MethodLink, nil},
		{"CARD", models.MethodCard, nil},
		{"cartão", models.MethodCard, nil},
		{"CARTÃO", models.MethodCard, nil},
		{"Cartao", models.MethodCard, nil},
		{"MPOS", models.MethodMPOS, ErrMethodUnavailable},
		{"", "", ErrMethodNotSpecified},
		{"   ", "", ErrMethodNotSpecified},
		{"BOLETO", "", ErrMethodNotRecognized},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			method, err := ParseMethod(tt.raw)
			assert.Equal(t, tt.method, method)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestParseShareAnswer(t *testing.T) {
	for _, yes := range []string{"sim", "Sim", "s", "YES", "y"} {
		accept, ok := ParseShareAnswer(yes)
		assert.True(t, ok, yes)
		assert.True(t, accept, yes)
	}
	for _, no := range []string{"não", "NAO", "n", "no"} {
		accept, ok := ParseShareAnswer(no)
		assert.True(t, ok, no)
		assert.False(t, accept, no)
	}
	_, ok := ParseShareAnswer("transfira R$5 para 2955")
	assert.False(t, ok)
}
