package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/storage"
)

const (
	msgMediaNotFound = "Media not found"

	// multipartMemory is how much of a multipart body is buffered in memory
	// before the rest spills to temporary files.
	multipartMemory = 8 << 20
	// multipartOverhead leaves room for form fields and part headers on top
	// of the file itself.
	multipartOverhead = 1 << 20
)

type MediaStore interface {
	ListMedia(ctx context.Context, f db.MediaFilter) ([]models.Media, int, error)
	MediaStats(ctx context.Context) (query.Stats, error)
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	CreateMedia(ctx context.Context, m models.Media) (*models.Media, error)
	UpdateMedia(ctx context.Context, m models.Media) (*models.Media, error)
	DeleteMedia(ctx context.Context, id string) (bool, error)
}

type MediaHandler struct {
	store   MediaStore
	files   storage.Storage
	maxSize int64
	log     *logrus.Logger
	now     clock
}

func NewMediaHandler(store MediaStore, files storage.Storage, maxSize int64, log *logrus.Logger) *MediaHandler {
	return &MediaHandler{store: store, files: files, maxSize: maxSize, log: log, now: systemClock}
}

// Upload accepts a single multipart "file" field plus optional alt, caption
// and comma separated tags.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondError(w, http.StatusBadRequest, "File too large")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		respondError(w, http.StatusBadRequest, "File too large")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if !models.MediaAllowed(mimeType) {
		respondError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	category := models.MediaCategory(mimeType)
	filename := models.MediaFilename(uuid.NewString(), header.Filename)
	key := models.MediaKey(category, filename)
	url, err := h.files.Save(r.Context(), key, file, header.Size, mimeType)
	if err != nil {
		serverError(w, h.log, err, "store upload")
		return
	}

	now := h.now()
	media := models.Media{
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		Category:     category,
		Path:         key,
		URL:          url,
		Alt:          strings.TrimSpace(r.FormValue("alt")),
		Caption:      strings.TrimSpace(r.FormValue("caption")),
		Tags:         splitTags(r.FormValue("tags")),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		media.UploadedByID = user.ID
	}
	if !valid(w, media.Update()) {
		h.removeFile(r.Context(), key)
		return
	}

	created, err := h.store.CreateMedia(r.Context(), media)
	if err != nil {
		h.removeFile(r.Context(), key)
		serverError(w, h.log, err, "create media")
		return
	}
	respondData(w, http.StatusCreated, created, "File uploaded successfully")
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.MediaFilter{
		Params:     query.ParseParams(q),
		Category:   q.Get("category"),
		UploadedBy: q.Get("uploadedBy"),
		Tag:        q.Get("tag"),
	}
	if f.UploadedBy != "" && !isID(f.UploadedBy) {
		respondError(w, http.StatusBadRequest, "Invalid uploader id")
		return
	}
	items, total, err := h.store.ListMedia(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list media")
		return
	}
	stats, err := h.store.MediaStats(r.Context())
	if err != nil {
		serverError(w, h.log, err, "media stats")
		return
	}
	respondList(w, items, f.Params, total, stats)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid media id")
		return
	}
	item, err := h.store.GetMediaByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get media")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgMediaNotFound)
		return
	}
	respondData(w, http.StatusOK, item, "")
}

// Update edits the descriptive fields only; the file itself is immutable.
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid media id")
		return
	}
	item, err := h.store.GetMediaByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get media")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgMediaNotFound)
		return
	}

	in := item.Update()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	in.Apply(item, h.now())
	updated, err := h.store.UpdateMedia(r.Context(), *item)
	if err != nil {
		serverError(w, h.log, err, "update media")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgMediaNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Media updated successfully")
}

// Delete removes the record and then the stored file. A failure to remove
// the file is logged and does not fail the request.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid media id")
		return
	}
	item, err := h.store.GetMediaByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get media")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, msgMediaNotFound)
		return
	}
	deleted, err := h.store.DeleteMedia(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete media")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgMediaNotFound)
		return
	}
	h.removeFile(r.Context(), item.Path)
	respondData(w, http.StatusOK, nil, "Media deleted successfully")
}

func (h *MediaHandler) removeFile(ctx context.Context, key string) {
	if err := h.files.Delete(ctx, key); err != nil {
		h.log.WithError(err).WithField("path", key).Warn("remove media file")
	}
}

func splitTags(value string) []string {
	tags := []string{}
	for _, part := range strings.Split(value, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
