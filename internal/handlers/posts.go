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
	msgPostNotFound   = "Post not found"
	msgPostTitleTaken = "A post with this title already exists"
)

type PostStore interface {
	ListPosts(ctx context.Context, f db.PostFilter) ([]models.Post, int, error)
	PostStats(ctx context.Context, f db.PostFilter) (query.Stats, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	PostTitleExists(ctx context.Context, title, excludeID string) (bool, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	IncrementPostViews(ctx context.Context, id string) error
	LikePost(ctx context.Context, id string) (int, bool, error)
}

// postReaders may see posts in any status.
var postReaders = []models.Role{models.RoleAdmin, models.RoleEditor, models.RoleAuthor}

type PostsHandler struct {
	store PostStore
	log   *logrus.Logger
	now   clock
}

func NewPostsHandler(store PostStore, log *logrus.Logger) *PostsHandler {
	return &PostsHandler{store: store, log: log, now: systemClock}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.PostFilter{
		Params:     query.ParseParams(q),
		PublicOnly: !hasRole(r, postReaders...),
		Status:     q.Get("status"),
		Category:   q.Get("category"),
		Tag:        q.Get("tag"),
		AuthorID:   q.Get("author"),
		Featured:   query.ParseBool(q.Get("featured")),
	}
	if f.AuthorID != "" && !isID(f.AuthorID) {
		respondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	posts, total, err := h.store.ListPosts(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "list posts")
		return
	}
	stats, err := h.store.PostStats(r.Context(), f)
	if err != nil {
		serverError(w, h.log, err, "post stats")
		return
	}
	respondList(w, posts, f.Params, total, stats)
}

// Get looks a post up by id or slug. Unpublished posts are hidden from the
// public and published ones count a view.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")
	var post *models.Post
	var err error
	if isID(key) {
		post, err = h.store.GetPostByID(r.Context(), key)
	} else {
		post, err = h.store.GetPostBySlug(r.Context(), key)
	}
	if err != nil {
		serverError(w, h.log, err, "get post")
		return
	}
	if post == nil || (post.Status != models.StatusPublished && !hasRole(r, postReaders...)) {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	if post.Status == models.StatusPublished {
		if err := h.store.IncrementPostViews(r.Context(), post.ID); err != nil {
			h.log.WithError(err).WithField("post", post.ID).Warn("increment post views")
		} else {
			post.Views++
		}
	}
	respondData(w, http.StatusOK, post, "")
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	in := models.NewPostInput()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if h.titleTaken(w, r, in.Title, "") {
		return
	}

	var post models.Post
	in.Apply(&post)
	post.AuthorID = user.ID
	post.BeforeSave(nil, h.now())

	created, err := h.store.CreatePost(r.Context(), post)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgPostTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "create post")
		return
	}
	respondData(w, http.StatusCreated, created, "Post created successfully")
}

// Update applies a partial update. Authors may only edit their own posts.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	post, err := h.store.GetPostByID(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "get post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	user := middleware.UserFromContext(r.Context())
	if user.Role == models.RoleAuthor && post.AuthorID != user.ID {
		respondError(w, http.StatusForbidden, "Not authorized to update this post")
		return
	}

	prev := *post
	in := post.Input()
	if !decodeBody(w, r, &in) || !valid(w, in) {
		return
	}
	if !strings.EqualFold(in.Title, prev.Title) && h.titleTaken(w, r, in.Title, id) {
		return
	}
	in.Apply(post)
	post.BeforeSave(&prev, h.now())

	updated, err := h.store.UpdatePost(r.Context(), *post)
	if errors.Is(err, db.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, msgPostTitleTaken)
		return
	}
	if err != nil {
		serverError(w, h.log, err, "update post")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	respondData(w, http.StatusOK, updated, "Post updated successfully")
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	deleted, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "delete post")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	respondData(w, http.StatusOK, nil, "Post deleted successfully")
}

// Like bumps the like counter of a published post.
func (h *PostsHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	likes, found, err := h.store.LikePost(r.Context(), id)
	if err != nil {
		serverError(w, h.log, err, "like post")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"likes": likes}, "")
}

func (h *PostsHandler) titleTaken(w http.ResponseWriter, r *http.Request, title, excludeID string) bool {
	exists, err := h.store.PostTitleExists(r.Context(), title, excludeID)
	if err != nil {
		serverError(w, h.log, err, "check post title")
		return true
	}
	if exists {
		respondError(w, http.StatusBadRequest, msgPostTitleTaken)
		return true
	}
	return false
}
