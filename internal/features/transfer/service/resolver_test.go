package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dirmodels "payments-chat-backend/internal/features/directory/models"
	"payments-chat-backend/internal/features/directory/repository"
	"payments-chat-backend/internal/platform/paymentsapi"
)

func testDirectory() repository.Directory {
	return repository.New([]dirmodels.Entry{
		{ID: "2955", Handle: "maria", Email: "maria@example.com", Phone: "+55 11 99999-0000", CPF: "123.456.789-00"},
		{ID: "3101", Handle: "joao", Pix: "joao-pix"},
		{ID: "abc", Handle: "broken"},
	})
}

func TestResolve_LocalDirectory(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserSearcher)
	r := NewResolver(testDirectory(), users, zerolog.Nop())

	tests := map[string]int64{
		"maria":             2955,
		"MARIA":             2955,
		"3101":              3101,
		"maria@example.com": 2955,
		"12345678900":       2955,
		"joao-pix":          3101,
	}
	for identifier, want := range tests {
		got, err := r.Resolve(ctx, identifier)
		require.NoError(t, err, identifier)
		assert.Equal(t, want, got, identifier)
	}
	users.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything)
}

func TestResolve_NumericFallsBackToLiteralID(t *testing.T) {
	users := new(MockUserSearcher)
	r := NewResolver(testDirectory(), users, zerolog.Nop())

	got, err := r.Resolve(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, int64(777), got)

	_, err = r.Resolve(context.Background(), "0")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
	users.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything)
}

func TestResolve_RemoteSearch(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserSearcher)
	users.On("SearchUsers", ctx, "ana").Return(&paymentsapi.User{ID: 42, Handle: "ana"}, nil)
	users.On("SearchUsers", ctx, "ghost").Return(&paymentsapi.User{}, nil)
	users.On("SearchUsers", ctx, "down").Return(nil, errors.New("connection refused"))
	r := NewResolver(testDirectory(), users, zerolog.Nop())

	got, err := r.Resolve(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	_, err = r.Resolve(ctx, "ghost")
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = r.Resolve(ctx, "down")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestResolve_NonNumericDirectoryIDIsNotFound(t *testing.T) {
	r := NewResolver(testDirectory(), new(MockUserSearcher), zerolog.Nop())

	_, err := r.Resolve(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}
