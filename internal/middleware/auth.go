package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/auth"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token"
	msgInactive     = "Invalid token or inactive account"
	msgAuthRequired = "Authentication required"
	msgForbidden    = "Access denied. Insufficient permissions."
)

type ctxKey int

const userKey ctxKey = iota

// UserLoader loads the account a token refers to.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Authenticator struct {
	tokens *auth.TokenManager
	users  UserLoader
	log    *logrus.Logger
}

func NewAuthenticator(tokens *auth.TokenManager, users UserLoader, log *logrus.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// authenticate resolves the request's token to an active user. The returned
// status is 0 on success.
func (a *Authenticator) authenticate(r *http.Request) (*models.User, int, string) {
	token := bearerToken(r)
	if token == "" {
		return nil, http.StatusUnauthorized, msgNoToken
	}
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, http.StatusUnauthorized, msgInvalidToken
	}
	user, err := a.users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		a.log.WithError(err).Error("auth: load user")
		return nil, http.StatusInternalServerError, "Server error"
	}
	if user == nil || !user.IsActive {
		return nil, http.StatusUnauthorized, msgInactive
	}
	return user, 0, ""
}

// Required rejects requests without a valid token for an active account.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, status, msg := a.authenticate(r)
		if status != 0 {
			writeError(w, status, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, status, _ := a.authenticate(r); status == 0 {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole must run after Required.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}
			if !user.Role.In(roles...) {
				writeError(w, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
