package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/auth"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
)

const (
	adminID    = "00000000-0000-0000-0000-00000000000a"
	authorID   = "00000000-0000-0000-0000-00000000000b"
	inactiveID = "00000000-0000-0000-0000-00000000000c"
	missingID  = "00000000-0000-0000-0000-00000000000d"
	editorID   = "00000000-0000-0000-0000-00000000000e"
	brokenID   = "00000000-0000-0000-0000-0000000000ff"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if id == brokenID {
		return nil, errors.New("db down")
	}
	return f[id], nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	msg, _ := body["message"].(string)
	return msg
}

func newAuthFixture(t *testing.T) (*Authenticator, *auth.TokenManager, fakeUsers) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := fakeUsers{
		adminID:    {ID: adminID, Name: "Admin", Role: models.RoleAdmin, IsActive: true},
		authorID:   {ID: authorID, Name: "Author", Role: models.RoleAuthor, IsActive: true},
		inactiveID: {ID: inactiveID, Name: "Gone", Role: models.RoleAdmin, IsActive: false},
	}
	return NewAuthenticator(tokens, users, quietLogger()), tokens, users
}

func tokenFor(t *testing.T, tokens *auth.TokenManager, u *models.User) string {
	t.Helper()
	tok, err := tokens.Issue(u)
	require.NoError(t, err)
	return tok
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := UserFromContext(r.Context()); u != nil {
			_, _ = w.Write([]byte(u.ID))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})
}

func TestRequired(t *testing.T) {
	a, tokens, users := newAuthFixture(t)
	expired := auth.NewTokenManager("test-secret", -time.Minute)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, msgNoToken},
		{"not bearer", "Basic abc", http.StatusUnauthorized, msgNoToken},
		{"garbage", "Bearer nope", http.StatusUnauthorized, msgInvalidToken},
		{"expired", "Bearer " + tokenFor(t, expired, users[adminID]), http.StatusUnauthorized, msgInvalidToken},
		{"inactive", "Bearer " + tokenFor(t, tokens, users[inactiveID]), http.StatusUnauthorized, msgInactive},
		{"subject not an id", "Bearer " + tokenFor(t, tokens, &models.User{ID: "u-admin", Role: models.RoleAdmin}), http.StatusUnauthorized, msgInvalidToken},
		{"unknown user", "Bearer " + tokenFor(t, tokens, &models.User{ID: missingID, Role: models.RoleAdmin}), http.StatusUnauthorized, msgInactive},
		{"store failure", "Bearer " + tokenFor(t, tokens, &models.User{ID: brokenID, Role: models.RoleAdmin}), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			a.Required(whoAmI()).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.body, decodeMessage(t, rec))
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+tokenFor(t, tokens, users[adminID]))
		rec := httptest.NewRecorder()
		a.Required(whoAmI()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, adminID, rec.Body.String())
	})
}

func TestOptional(t *testing.T) {
	a, tokens, users := newAuthFixture(t)

	cases := []struct {
		header string
		want   string
	}{
		{"", "anonymous"},
		{"Bearer garbage", "anonymous"},
		{"Bearer " + tokenFor(t, tokens, users[inactiveID]), "anonymous"},
		{"Bearer " + tokenFor(t, tokens, users[authorID]), authorID},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		a.Optional(whoAmI()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tc.want, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	gate := RequireRole(models.RoleAdmin, models.RoleEditor)(whoAmI())

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgAuthRequired, decodeMessage(t, rec))

	author := &models.User{ID: authorID, Role: models.RoleAuthor, IsActive: true}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), author))
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgForbidden, decodeMessage(t, rec))

	editor := &models.User{ID: editorID, Role: models.RoleEditor, IsActive: true}
	req = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithUser(context.Background(), editor))
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, editorID, rec.Body.String())
}
