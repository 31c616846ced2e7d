package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

// UsersHandler is the admin user management API.
type UsersHandler struct {
	store UserStore
	log   *logrus.Logger
	now   clock
}

func NewUsersHandler(store UserStore, log *logrus.Logger) *UsersHandler {
	return &UsersHandler{store: store, log: log, now: systemClock}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.UserFilter{
		Params: query.ParseParams(q),
		Role:   q.Get("role"),
		Active: query.ParseBool(q.Get("isActive")),
	}
	users, total, err := h.store.ListUsers(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list users")
		return
	}
	stats, err := h.store.UserStats(r.Context())
	if err != nil {
		serverError(w, h.log, err, "user stats")
		return
	}
	respondList(w, users, f.Params, total, stats)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, user, "")
}

// Update lets an admin change another account. Admins cannot demote or
// deactivate themselves.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	in := user.Update()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	self := middleware.UserFromContext(r.Context())
	if user.ID == self.ID && (!in.IsActive || in.Role != models.RoleAdmin) {
		respondError(w, http.StatusBadRequest, "You cannot deactivate or demote your own account")
		return
	}

	in.Apply(user)
	user.UpdatedAt = h.now()
	updated, err := h.store.UpdateUser(r.Context(), *user)
	if err != nil {
		serverError(w, h.log, err, "update user")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "User updated successfully")
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if self := middleware.UserFromContext(r.Context()); self.ID == id {
		respondError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	deleted, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete user")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "User deleted successfully")
}

func (h *UsersHandler) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return nil, false
	}
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get user")
		return nil, false
	}
	if user == nil {
		respondError(w, http.StatusNotFound, msgUserNotFound)
		return nil, false
	}
	return user, true
}
