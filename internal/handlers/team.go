package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const (
	msgTeamMemberNotFound = "Team member not found"
	msgTeamMemberTaken    = "A team member with this name already exists"
)

type TeamStore interface {
	ListTeamMembers(ctx context.Context, f db.TeamFilter) ([]models.TeamMember, int, error)
	TeamStats(ctx context.Context, f db.TeamFilter) (query.Stats, error)
	GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error)
	GetTeamMemberBySlug(ctx context.Context, slug string) (*models.TeamMember, error)
	CreateTeamMember(ctx context.Context, m models.TeamMember) (*models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, m models.TeamMember) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) (bool, error)
}

var teamReaders = []models.Role{models.RoleAdmin, models.RoleEditor}

type TeamHandler struct {
	store TeamStore
	log   *logrus.Logger
	now   clock
}

func NewTeamHandler(store TeamStore, log *logrus.Logger) *TeamHandler {
	return &TeamHandler{store: store, log: log, now: systemClock}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active := q.Get("isActive")
	if active == "" {
		active = q.Get("active")
	}
	f := db.TeamFilter{
		Params:     query.ParseParams(q),
		PublicOnly: !hasRole(r, teamReaders...),
		Department: q.Get("department"),
		Active:     query.ParseBool(active),
	}
	items, total, err := h.store.ListTeamMembers(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list team members")
		return
	}
	stats, err := h.store.TeamStats(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "team stats")
		return
	}
	respondList(w, items, f.Params, total, stats)
}

// Get hides members that are private or inactive from the public.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")
	var item *models.TeamMember
	var err error
	if isID(key) {
		item, err = h.store.GetTeamMemberByID(r.Context(), key)
	} else {
		item, err = h.store.GetTeamMemberBySlug(r.Context(), key)
	}
	if err != nil {
		serverError(w, h.log, err, "get team member")
		return
	}
	if item == nil || (!item.Visible() && !hasRole(r, teamReaders...)) {
		respondError(w, http.StatusNotFound, msgTeamMemberNotFound)
		return
	}
	respondData(w, http.StatusOK, item, "")
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := models.NewTeamMemberInput()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}

	var item models.TeamMember
	in.Apply(&item)
	item.BeforeSave(nil, h.now())

	created, err := h.store.CreateTeamMember(r.Context(), item)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgTeamMemberTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "create team member")
		return
	}
	respondData(w, http.StatusCreated, created, "Team member created successfully")
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid team member id")
		return
	}
	item, err := h.store.GetTeamMemberByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get team member")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgTeamMemberNotFound)
		return
	}

	prev := *item
	in := item.Input()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	in.Apply(item)
	item.BeforeSave(&prev, h.now())

	updated, err := h.store.UpdateTeamMember(r.Context(), *item)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgTeamMemberTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "update team member")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgTeamMemberNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Team member updated successfully")
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid team member id")
		return
	}
	deleted, err := h.store.DeleteTeamMember(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete team member")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgTeamMemberNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Team member deleted successfully")
}
