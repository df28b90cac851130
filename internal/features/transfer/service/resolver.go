package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"payments-chat-backend/internal/features/directory/repository"
)

var numericIdentifier = regexp.MustCompile(`^\d+$`)

// Resolver maps a user-typed identifier to a numeric user id. The local
// directory is consulted first, then a bare number is taken as the id, and
// finally the remote user search is asked.
type Resolver struct {
	directory repository.Directory
	users     UserSearcher
	logger    zerolog.Logger
}

func NewResolver(directory repository.Directory, users UserSearcher, logger zerolog.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		users:     users,
		logger:    logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, identifier string) (int64, error) {
	if entry, ok := r.directory.FindByHandle(identifier); ok {
		return entryID(entry.ID)
	}
	if entry, ok := r.directory.FindByID(identifier); ok {
		return entryID(entry.ID)
	}
	if entry, ok := r.directory.FindByContact(identifier); ok {
		return entryID(entry.ID)
	}

	if numericIdentifier.MatchString(identifier) {
		return entryID(identifier)
	}

	user, err := r.users.SearchUsers(ctx, identifier)
	if err != nil {
		r.logger.Warn().Err(err).Str("identifier", identifier).Msg("remote user search failed")
		return 0, fmt.Errorf("%w: %w", ErrRecipientNotFound, err)
	}
	if user == nil || user.ID <= 0 {
		return 0, ErrRecipientNotFound
	}
	return user.ID, nil
}

func entryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrRecipientNotFound
	}
	return id, nil
}
