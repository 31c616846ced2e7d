package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/validation"
)

const msgServerError = "Server error"

type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// ListData is the data of every list response.
type ListData[T any] struct {
	Items      []T              `json:"items"`
	Pagination query.Pagination `json:"pagination"`
	Stats      query.Stats      `json:"stats"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data any, message string) {
	respondJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Message: message})
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// respondInvalid writes a 400 listing the field errors when err came from the
// validator, or with err's text otherwise.
func respondInvalid(w http.ResponseWriter, err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		respondJSON(w, http.StatusBadRequest, envelope{Message: fields.Error(), Errors: fields})
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

// serverError logs err and hides it from the client.
func serverError(w http.ResponseWriter, log *logrus.Logger, err error, msg string) {
	log.WithError(err).Error(msg)
	respondError(w, http.StatusInternalServerError, msgServerError)
}

func respondList[T any](w http.ResponseWriter, items []T, p query.Params, total int, stats query.Stats) {
	if items == nil {
		items = []T{}
	}
	respondData(w, http.StatusOK, ListData[T]{
		Items:      items,
		Pagination: query.NewPagination(p, total),
		Stats:      stats,
	}, "")
}

// decodeBody decodes a JSON body into dst and answers 400 on failure. Fields
// absent from the body keep the values dst already holds, which is how
// partial updates work.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusBadRequest, "Request body too large")
	case errors.Is(err, io.EOF):
		respondError(w, http.StatusBadRequest, "Request body is required")
	default:
		respondError(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// pathID returns the {id} route parameter when it is a well formed id.
func pathID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// isID reports whether s looks like a record id rather than a slug.
func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// hasRole reports whether the request carries a user with one of roles.
func hasRole(r *http.Request, roles ...models.Role) bool {
	user := middleware.UserFromContext(r.Context())
	return user != nil && user.Role.In(roles...)
}

type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// valid runs the validator on v and answers 400 when it fails.
func valid(w http.ResponseWriter, v any) bool {
	if err := validation.Struct(v); err != nil {
		respondInvalid(w, err)
		return false
	}
	return true
}
