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

const msgContactNotFound = "Contact not found"

type ContactStore interface {
	ListContacts(ctx context.Context, f db.ContactFilter) ([]models.Contact, int, error)
	ContactStats(ctx context.Context) (query.Stats, error)
	GetContactByID(ctx context.Context, id string) (*models.Contact, error)
	CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error)
	UpdateContact(ctx context.Context, c models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, id string) (bool, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type ContactHandler struct {
	store ContactStore
	log   *logrus.Logger
	now   clock
}

func NewContactHandler(store ContactStore, log *logrus.Logger) *ContactHandler {
	return &ContactHandler{store: store, log: log, now: systemClock}
}

// Submit stores an inquiry from the public contact form. The reply only
// echoes back the receipt, never the triage fields.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.Normalize()
	if !valid(w, in) {
		return
	}

	contact := models.NewContact(in, middleware.ClientIP(r), r.UserAgent(), h.now())
	created, err := h.store.CreateContact(r.Context(), contact)
	if err != nil {
		serverError(w, h.log, err, "create contact")
		return
	}
	h.log.WithFields(logrus.Fields{"contact": created.ID, "service": created.Service}).Info("new contact submission")
	respondData(w, http.StatusOK, created.Receipt(), "Thank you for your message. We'll get back to you soon!")
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.ContactFilter{
		Params:     query.ParseParams(q),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		Service:    q.Get("service"),
		AssignedTo: q.Get("assignedTo"),
	}
	if f.AssignedTo != "" && !isID(f.AssignedTo) {
		respondError(w, http.StatusBadRequest, "Invalid assignee id")
		return
	}
	items, total, err := h.store.ListContacts(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list contacts")
		return
	}
	stats, err := h.store.ContactStats(r.Context())
	if err != nil {
		serverError(w, h.log, err, "contact stats")
		return
	}
	respondList(w, items, f.Params, total, stats)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}
	item, err := h.store.GetContactByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get contact")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgContactNotFound)
		return
	}
	respondData(w, http.StatusOK, item, "")
}

// Update changes the triage fields and appends an optional note.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}
	item, err := h.store.GetContactByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get contact")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgContactNotFound)
		return
	}

	in := item.Update()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if in.AssignedTo != nil && *in.AssignedTo != "" {
		assignee, err := h.store.GetUserByID(r.Context(), *in.AssignedTo)
		if err != nil {
			serverError(w, h.log, err, "get assignee")
			return
		}
		if assignee == nil {
			respondError(w, http.StatusBadRequest, "Assigned user not found")
			return
		}
	}

	user := middleware.UserFromContext(r.Context())
	in.Apply(item, user.Ref(), h.now())
	updated, err := h.store.UpdateContact(r.Context(), *item)
	if err != nil {
		serverError(w, h.log, err, "update contact")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgContactNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Contact updated successfully")
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}
	deleted, err := h.store.DeleteContact(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete contact")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgContactNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Contact deleted successfully")
}
