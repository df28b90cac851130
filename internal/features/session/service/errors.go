package service

import (
	apperrors "payments-chat-backend/internal/common/errors"
)

const handleTakenMarker = "handle has already been taken"

func errUserNotFound() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnauthorized, "Usuário não encontrado")
}

func errWrongPassword() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnauthorized, "Senha incorreta")
}

func errSessionExpired() *apperrors.AppError {
	return apperrors.NewUnauthorizedError("session expired or unknown")
}

func errHandleTaken(handle string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeConflict, "Este nome de usuário já está em uso. Por favor, escolha outro.").
		WithDetail("handle", handle)
}
