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
	msgPageNotFound   = "Page not found"
	msgPageTitleTaken = "A page with this title already exists"
)

type PageStore interface {
	ListPages(ctx context.Context, f db.PageFilter) ([]models.Page, int, error)
	PageStats(ctx context.Context, f db.PageFilter) (query.Stats, error)
	GetPageByID(ctx context.Context, id string) (*models.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*models.Page, error)
	GetHomePage(ctx context.Context) (*models.Page, error)
	PageTitleExists(ctx context.Context, title, excludeID string) (bool, error)
	CreatePage(ctx context.Context, page models.Page) (*models.Page, error)
	UpdatePage(ctx context.Context, page models.Page) (*models.Page, error)
	DeletePage(ctx context.Context, id string) (bool, error)
	IncrementPageViews(ctx context.Context, id string) error
}

var pageReaders = []models.Role{models.RoleAdmin, models.RoleEditor}

type PagesHandler struct {
	store PageStore
	log   *logrus.Logger
	now   clock
}

func NewPagesHandler(store PageStore, log *logrus.Logger) *PagesHandler {
	return &PagesHandler{store: store, log: log, now: systemClock}
}

func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.PageFilter{
		Params:     query.ParseParams(q),
		PublicOnly: !hasRole(r, pageReaders...),
		Status:     q.Get("status"),
		Template:   q.Get("template"),
		ShowInMenu: query.ParseBool(q.Get("showInMenu")),
	}
	pages, total, err := h.store.ListPages(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list pages")
		return
	}
	stats, err := h.store.PageStats(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "page stats")
		return
	}
	respondList(w, pages, f.Params, total, stats)
}

// Home returns the page the site settings point at.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.GetHomePage(r.Context())
	if err != nil {
		serverError(w, h.log, err, "get home page")
		return
	}
	h.respondPage(w, r, page, "Home page not found")
}

func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")
	var page *models.Page
	var err error
	if isID(key) {
		page, err = h.store.GetPageByID(r.Context(), key)
	} else {
		page, err = h.store.GetPageBySlug(r.Context(), key)
	}
	if err != nil {
		serverError(w, h.log, err, "get page")
		return
	}
	h.respondPage(w, r, page, msgPageNotFound)
}

func (h *PagesHandler) respondPage(w http.ResponseWriter, r *http.Request, page *models.Page, notFound string) {
	if page == nil || (page.Status != models.StatusPublished && !hasRole(r, pageReaders...)) {
		respondError(w, http.StatusNotFound, notFound)
		return
	}
	if page.Status == models.StatusPublished {
		if err := h.store.IncrementPageViews(r.Context(), page.ID); err != nil {
			h.log.WithError(err).WithField("page", page.ID).Warn("increment page views")
		} else {
			page.Views++
		}
	}
	respondData(w, http.StatusOK, page, "")
}

func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	in := models.NewPageInput()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if h.titleTaken(w, r, in.Title, "") {
		return
	}

	var page models.Page
	in.Apply(&page)
	page.AuthorID = user.ID
	page.BeforeSave(nil, h.now())

	created, err := h.store.CreatePage(r.Context(), page)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgPageTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "create page")
		return
	}
	respondData(w, http.StatusCreated, created, "Page created successfully")
}

func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid page id")
		return
	}
	page, err := h.store.GetPageByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get page")
		return
	}
	if page == nil {
		respondError(w, http.StatusNotFound, msgPageNotFound)
		return
	}

	prev := *page
	in := page.Input()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if !strings.EqualFold(in.Title, prev.Title) && h.titleTaken(w, r, in.Title, id) {
		return
	}
	in.Apply(page)
	page.BeforeSave(&prev, h.now())

	updated, err := h.store.UpdatePage(r.Context(), *page)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgPageTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "update page")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgPageNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Page updated successfully")
}

func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid page id")
		return
	}
	deleted, err := h.store.DeletePage(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete page")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgPageNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Page deleted successfully")
}

func (h *PagesHandler) titleTaken(w http.ResponseWriter, r *http.Request, title, excludeID string) bool {
	exists, err := h.store.PageTitleExists(r.Context(), title, excludeID)
	if err != nil {
		serverError(w, h.log, err, "check page title")
		return true
	}
	if exists {
		respondError(w, http.StatusBadRequest, msgPageTitleTaken)
		return true
	}
	return false
}
