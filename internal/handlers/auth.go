package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/auth"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailTaken         = "User with this email already exists"
	msgUserNotFound       = "User not found"
)

type UserStore interface {
	ListUsers(ctx context.Context, f db.UserFilter) ([]models.User, int, error)
	UserStats(ctx context.Context) (query.Stats, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, hash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) (bool, error)
}

type AuthHandler struct {
	store  UserStore
	tokens *auth.TokenManager
	log    *logrus.Logger
	now    clock
}

func NewAuthHandler(store UserStore, tokens *auth.TokenManager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log, now: systemClock}
}

type authData struct {
	Token string `json:"token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64        `json:"expiresIn"`
	User      *models.User `json:"user"`
}

// Login exchanges email and password for a token. Unknown emails, wrong
// passwords and deactivated accounts all get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	user, err := h.store.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		serverError(w, h.log, err, "login lookup")
		return
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(in.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	now := h.now()
	if err := h.store.TouchLastLogin(r.Context(), user.ID, now); err != nil {
		h.log.WithError(err).WithField("user", user.ID).Warn("update last login")
	} else {
		user.LastLogin = &now
	}
	h.respondToken(w, http.StatusOK, user, "Login successful")
}

// Register creates an account. Only admins reach this handler.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		serverError(w, h.log, err, "hash password")
		return
	}
	now := h.now()
	created, err := h.store.CreateUser(r.Context(), models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgEmailTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "create user")
		return
	}
	h.respondToken(w, http.StatusCreated, created, "User registered successfully")
}

func (h *AuthHandler) respondToken(w http.ResponseWriter, status int, user *models.User, message string) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		serverError(w, h.log, err, "issue token")
		return
	}
	respondData(w, status, authData{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		User:      user,
	}, message)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, middleware.UserFromContext(r.Context()), "")
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := *middleware.UserFromContext(r.Context())
	in := models.ProfileInput{Name: user.Name, Avatar: user.Avatar, Bio: user.Bio}
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Avatar = in.Avatar
	user.Bio = in.Bio
	user.UpdatedAt = h.now()

	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		serverError(w, h.log, err, "update profile")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Profile updated successfully")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	var in models.PasswordInput
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if !auth.CheckPassword(in.CurrentPassword, user.PasswordHash) {
		respondError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		serverError(w, h.log, err, "hash password")
		return
	}
	if err := h.store.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		serverError(w, h.log, err, "update password")
		return
	}
	respondData(w, http.StatusOK, nil, "Password updated successfully")
}
