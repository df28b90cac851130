package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"payments-chat-backend/internal/common/errors"
)

const (
	SessionCookie   = "session"
	ContextToken    = "session_token"
	ContextUserID   = "user_id"
	ContextIdentity = "identity"
)

// Identity is what RequireSession stores on the request.
type Identity interface {
	SessionUserID() int64
}

// Authenticator resolves a session token.
type Authenticator[T Identity] interface {
	Authenticate(ctx context.Context, token string) (T, error)
}

// RequireSession accepts "Authorization: Bearer <token>" or the session
// cookie and aborts with 401 when neither resolves.
func RequireSession[T Identity](auth Authenticator[T], logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			sendErrorResponse(c, errors.NewUnauthorizedError("session token required"), logger)
			c.Abort()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Wrap(err, errors.ErrCodeInternal, "Authentication failed")
			}
			sendErrorResponse(c, appErr, logger)
			c.Abort()
			return
		}

		c.Set(ContextToken, token)
		c.Set(ContextUserID, identity.SessionUserID())
		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// SessionToken returns the token RequireSession accepted.
func SessionToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}

// IdentityFrom returns the identity RequireSession stored.
func IdentityFrom[T Identity](c *gin.Context) (T, bool) {
	var zero T
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return zero, false
	}
	identity, ok := v.(T)
	return identity, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
