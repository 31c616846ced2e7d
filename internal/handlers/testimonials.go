package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const msgTestimonialNotFound = "Testimonial not found"

type TestimonialStore interface {
	ListTestimonials(ctx context.Context, f db.TestimonialFilter) ([]models.Testimonial, int, error)
	TestimonialStats(ctx context.Context, f db.TestimonialFilter) (query.Stats, error)
	GetTestimonialByID(ctx context.Context, id string) (*models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t models.Testimonial) (*models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, t models.Testimonial) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) (bool, error)
	GetCaseStudyByID(ctx context.Context, id string) (*models.CaseStudy, error)
}

var testimonialReaders = []models.Role{models.RoleAdmin, models.RoleEditor}

type TestimonialsHandler struct {
	store TestimonialStore
	log   *logrus.Logger
	now   clock
}

func NewTestimonialsHandler(store TestimonialStore, log *logrus.Logger) *TestimonialsHandler {
	return &TestimonialsHandler{store: store, log: log, now: systemClock}
}

func (h *TestimonialsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.TestimonialFilter{
		Params:     query.ParseParams(q),
		PublicOnly: !hasRole(r, testimonialReaders...),
		Status:     q.Get("status"),
		MinRating:  query.ParseInt(q.Get("minRating")),
		Featured:   query.ParseBool(q.Get("featured")),
	}
	items, total, err := h.store.ListTestimonials(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list testimonials")
		return
	}
	stats, err := h.store.TestimonialStats(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "testimonial stats")
		return
	}
	respondList(w, items, f.Params, total, stats)
}

func (h *TestimonialsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid testimonial id")
		return
	}
	item, err := h.store.GetTestimonialByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get testimonial")
		return
	}
	if item == nil || (item.Status != models.StatusPublished && !hasRole(r, testimonialReaders...)) {
		respondError(w, http.StatusNotFound, msgTestimonialNotFound)
		return
	}
	respondData(w, http.StatusOK, item, "")
}

func (h *TestimonialsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	in := models.NewTestimonialInput()
	if !decodeBody(w, r, &in) || !valid(w, in) || !h.caseStudyExists(w, r, in.CaseStudyID) {
		return
	}

	var item models.Testimonial
	in.Apply(&item)
	item.CreatedByID = user.ID
	item.BeforeSave(nil, h.now())

	created, err := h.store.CreateTestimonial(r.Context(), item)
	if err != nil {
		serverError(w, h.log, err, "create testimonial")
		return
	}
	respondData(w, http.StatusCreated, created, "Testimonial created successfully")
}

// Update re-validates the whole document, so the rating bounds hold on
// update as well as on create.
func (h *TestimonialsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid testimonial id")
		return
	}
	item, err := h.store.GetTestimonialByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get testimonial")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgTestimonialNotFound)
		return
	}

	prev := *item
	in := item.Input()
	if !decodeBody(w, r, &in) || !valid(w, in) || !h.caseStudyExists(w, r, in.CaseStudyID) {
		return
	}
	in.Apply(item)
	item.BeforeSave(&prev, h.now())

	updated, err := h.store.UpdateTestimonial(r.Context(), *item)
	if err != nil {
		serverError(w, h.log, err, "update testimonial")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgTestimonialNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Testimonial updated successfully")
}

func (h *TestimonialsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid testimonial id")
		return
	}
	deleted, err := h.store.DeleteTestimonial(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete testimonial")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgTestimonialNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Testimonial deleted successfully")
}

func (h *TestimonialsHandler) caseStudyExists(w http.ResponseWriter, r *http.Request, id *string) bool {
	if id == nil || *id == "" {
		return true
	}
	item, err := h.store.GetCaseStudyByID(r.Context(), *id)
	if err != nil {
		serverError(w, h.log, err, "get case study")
		return false
	}
	if item == nil {
		respondError(w, http.StatusBadRequest, "Referenced case study does not exist")
		return false
	}
	return true
}
