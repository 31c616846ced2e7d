package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var (
	adminUser  = &models.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	editorUser = &models.User{ID: "22222222-2222-2222-2222-222222222222", Name: "Editor", Email: "editor@example.com", Role: models.RoleEditor, IsActive: true}
	authorUser = &models.User{ID: "33333333-3333-3333-3333-333333333333", Name: "Author", Email: "author@example.com", Role: models.RoleAuthor, IsActive: true}
	viewerUser = &models.User{ID: "44444444-4444-4444-4444-444444444444", Name: "Viewer", Email: "viewer@example.com", Role: models.RoleViewer, IsActive: true}
)

// call routes a single request through a chi router registered at pattern
// so that URL parameters resolve, with user attached when non-nil.
func call(t *testing.T, method, pattern, target string, h http.HandlerFunc, user *models.User, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) response {
	t.Helper()
	resp := decode(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, dst))
	return resp
}

type listResponse[T any] struct {
	Items      []T `json:"items"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	} `json:"pagination"`
	Stats map[string]map[string]int `json:"stats"`
}

// paginate returns the slice of items selected by offset and limit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func ptr[T any](v T) *T { return &v }
