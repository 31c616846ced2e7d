package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const (
	msgCaseStudyNotFound   = "Case study not found"
	msgCaseStudyTitleTaken = "A case study with this title already exists"
)

type CaseStudyStore interface {
	ListCaseStudies(ctx context.Context, f db.CaseStudyFilter) ([]models.CaseStudy, int, error)
	CaseStudyStats(ctx context.Context, f db.CaseStudyFilter) (query.Stats, error)
	GetCaseStudyByID(ctx context.Context, id string) (*models.CaseStudy, error)
	GetCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error)
	CaseStudyTitleExists(ctx context.Context, title, excludeID string) (bool, error)
	CreateCaseStudy(ctx context.Context, c models.CaseStudy) (*models.CaseStudy, error)
	UpdateCaseStudy(ctx context.Context, c models.CaseStudy) (*models.CaseStudy, error)
	DeleteCaseStudy(ctx context.Context, id string) (bool, error)
	IncrementCaseStudyViews(ctx context.Context, id string) error
}

var caseStudyReaders = []models.Role{models.RoleAdmin, models.RoleEditor}

type CaseStudiesHandler struct {
	store CaseStudyStore
	log   *logrus.Logger
	now   clock
}

func NewCaseStudiesHandler(store CaseStudyStore, log *logrus.Logger) *CaseStudiesHandler {
	return &CaseStudiesHandler{store: store, log: log, now: systemClock}
}

func (h *CaseStudiesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.CaseStudyFilter{
		Params:     query.ParseParams(q),
		PublicOnly: !hasRole(r, caseStudyReaders...),
		Status:     q.Get("status"),
		Industry:   q.Get("industry"),
		Technology: q.Get("technology"),
		Featured:   query.ParseBool(q.Get("featured")),
	}
	items, total, err := h.store.ListCaseStudies(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list case studies")
		return
	}
	stats, err := h.store.CaseStudyStats(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "case study stats")
		return
	}
	respondList(w, items, f.Params, total, stats)
}

func (h *CaseStudiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")
	var item *models.CaseStudy
	var err error
	if isID(key) {
		item, err = h.store.GetCaseStudyByID(r.Context(), key)
	} else {
		item, err = h.store.GetCaseStudyBySlug(r.Context(), key)
	}
	if err != nil {
		serverError(w, h.log, err, "get case study")
		return
	}
	if item == nil || (item.Status != models.StatusPublished && !hasRole(r, caseStudyReaders...)) {
		respondError(w, http.StatusNotFound, msgCaseStudyNotFound)
		return
	}
	if item.Status == models.StatusPublished {
		if err := h.store.IncrementCaseStudyViews(r.Context(), item.ID); err != nil {
			h.log.WithError(err).WithField("case_study", item.ID).Warn("increment case study views")
		} else {
			item.Views++
		}
	}
	respondData(w, http.StatusOK, item, "")
}

func (h *CaseStudiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	in := models.NewCaseStudyInput()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if h.titleTaken(w, r, in.Title, "") {
		return
	}

	var item models.CaseStudy
	in.Apply(&item)
	item.AuthorID = user.ID
	item.BeforeSave(nil, h.now())

	created, err := h.store.CreateCaseStudy(r.Context(), item)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgCaseStudyTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "create case study")
		return
	}
	respondData(w, http.StatusCreated, created, "Case study created successfully")
}

func (h *CaseStudiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid case study id")
		return
	}
	item, err := h.store.GetCaseStudyByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get case study")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgCaseStudyNotFound)
		return
	}

	prev := *item
	in := item.Input()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if !strings.EqualFold(in.Title, prev.Title) && h.titleTaken(w, r, in.Title, id) {
		return
	}
	in.Apply(item)
	item.BeforeSave(&prev, h.now())

	updated, err := h.store.UpdateCaseStudy(r.Context(), *item)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgCaseStudyTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "update case study")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgCaseStudyNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Case study updated successfully")
}

func (h *CaseStudiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid case study id")
		return
	}
	deleted, err := h.store.DeleteCaseStudy(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete case study")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgCaseStudyNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Case study deleted successfully")
}

func (h *CaseStudiesHandler) titleTaken(w http.ResponseWriter, r *http.Request, title, excludeID string) bool {
	exists, err := h.store.CaseStudyTitleExists(r.Context(), title, excludeID)
	if err != nil {
		serverError(w, h.log, err, "check case study title")
		return true
	}
	if exists {
		respondError(w, http.StatusBadRequest, msgCaseStudyTitleTaken)
		return true
	}
	return false
}
