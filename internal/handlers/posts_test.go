package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

type fakePostStore struct {
	posts   []*models.Post
	filters []db.PostFilter
	failAll bool
	nextID  int
}

func (f *fakePostStore) add(p models.Post) *models.Post {
	f.nextID++
	if p.ID == "" {
		p.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
	}
	f.posts = append(f.posts, &p)
	return &p
}

func (f *fakePostStore) match(flt db.PostFilter, p *models.Post) bool {
	if flt.PublicOnly && p.Status != models.StatusPublished {
		return false
	}
	if !flt.PublicOnly && flt.Status != "" && string(p.Status) != flt.Status {
		return false
	}
	if flt.Category != "" && p.Category != flt.Category {
		return false
	}
	return flt.Search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(flt.Search))
}

func (f *fakePostStore) ListPosts(_ context.Context, flt db.PostFilter) ([]models.Post, int, error) {
	if f.failAll {
		return nil, 0, errors.New("db down")
	}
	f.filters = append(f.filters, flt)
	var out []models.Post
	for _, p := range f.posts {
		if f.match(flt, p) {
			out = append(out, *p)
		}
	}
	return paginate(out, flt.Offset(), flt.Limit), len(out), nil
}

func (f *fakePostStore) PostStats(_ context.Context, flt db.PostFilter) (query.Stats, error) {
	st := query.Stats{"byStatus": {}, "byCategory": {}}
	for _, p := range f.posts {
		if flt.PublicOnly && p.Status != models.StatusPublished {
			continue
		}
		st["byStatus"][string(p.Status)]++
		st["byCategory"][p.Category]++
	}
	return st, nil
}

func (f *fakePostStore) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) GetPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) PostTitleExists(_ context.Context, title, excludeID string) (bool, error) {
	for _, p := range f.posts {
		if strings.EqualFold(p.Title, title) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostStore) CreatePost(_ context.Context, p models.Post) (*models.Post, error) {
	return f.add(p), nil
}

func (f *fakePostStore) UpdatePost(_ context.Context, p models.Post) (*models.Post, error) {
	for i, existing := range f.posts {
		if existing.ID == p.ID {
			f.posts[i] = &p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) DeletePost(_ context.Context, id string) (bool, error) {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostStore) IncrementPostViews(_ context.Context, id string) error {
	for _, p := range f.posts {
		if p.ID == id {
			p.Views++
		}
	}
	return nil
}

func (f *fakePostStore) LikePost(_ context.Context, id string) (int, bool, error) {
	for _, p := range f.posts {
		if p.ID == id && p.Status == models.StatusPublished {
			p.Likes++
			return p.Likes, true, nil
		}
	}
	return 0, false, nil
}

func seedPosts(f *fakePostStore) {
	categories := []string{"technology", "design", "technology"}
	for i := 0; i < 14; i++ {
		status := models.StatusPublished
		if i%4 == 0 {
			status = models.StatusDraft
		}
		title := fmt.Sprintf("Post number %d", i)
		f.add(models.Post{
			Title:    title,
			Slug:     models.Slugify(title),
			Category: categories[i%3],
			Status:   status,
			AuthorID: authorUser.ID,
		})
	}
}

func newPostsHandler(store *fakePostStore) *PostsHandler {
	h := NewPostsHandler(store, quietLogger())
	h.now = fixedClock
	return h
}

func TestPostsListPublicByCategory(t *testing.T) {
	store := &fakePostStore{}
	seedPosts(store)
	h := newPostsHandler(store)

	rec := call(t, http.MethodGet, "/api/posts", "/api/posts?category=technology&page=2&limit=5&status=draft", h.List, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data listResponse[models.Post]
	resp := decodeData(t, rec, &data)
	assert.True(t, resp.Success)
	assert.LessOrEqual(t, len(data.Items), 5)
	for _, p := range data.Items {
		assert.Equal(t, "technology", p.Category)
		assert.Equal(t, models.StatusPublished, p.Status)
	}
	assert.Equal(t, 2, data.Pagination.Page)
	assert.Equal(t, 5, data.Pagination.Limit)
	assert.Equal(t, 6, data.Pagination.Total)
	assert.Equal(t, 2, data.Pagination.Pages)
	assert.Len(t, data.Items, 1)
	assert.Zero(t, data.Stats["byStatus"]["draft"])

	require.Len(t, store.filters, 1)
	assert.True(t, store.filters[0].PublicOnly)
}

func TestPostsListPrivilegedSeesDrafts(t *testing.T) {
	store := &fakePostStore{}
	seedPosts(store)
	h := newPostsHandler(store)

	rec := call(t, http.MethodGet, "/api/posts", "/api/posts?status=draft&limit=50", h.List, authorUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data listResponse[models.Post]
	decodeData(t, rec, &data)
	assert.Equal(t, 4, data.Pagination.Total)
	assert.Equal(t, 4, data.Stats["byStatus"]["draft"])

	rec = call(t, http.MethodGet, "/api/posts", "/api/posts?status=draft", h.List, viewerUser, nil)
	decodeData(t, rec, &data)
	assert.Equal(t, 10, data.Pagination.Total, "viewers only see published posts")
}

func TestPostsListFailure(t *testing.T) {
	h := newPostsHandler(&fakePostStore{failAll: true})
	rec := call(t, http.MethodGet, "/api/posts", "/api/posts", h.List, nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, msgServerError, resp.Message)
}

func TestPostsGet(t *testing.T) {
	store := &fakePostStore{}
	published := store.add(models.Post{Title: "Hello", Slug: "hello", Status: models.StatusPublished})
	draft := store.add(models.Post{Title: "Secret", Slug: "secret", Status: models.StatusDraft})
	h := newPostsHandler(store)

	rec := call(t, http.MethodGet, "/api/posts/{idOrSlug}", "/api/posts/hello", h.Get, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Post
	decodeData(t, rec, &got)
	assert.Equal(t, 1, got.Views)

	rec = call(t, http.MethodGet, "/api/posts/{idOrSlug}", "/api/posts/"+published.ID, h.Get, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &got)
	assert.Equal(t, 2, got.Views)

	rec = call(t, http.MethodGet, "/api/posts/{idOrSlug}", "/api/posts/secret", h.Get, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgPostNotFound, decode(t, rec).Message)

	rec = call(t, http.MethodGet, "/api/posts/{idOrSlug}", "/api/posts/"+draft.ID, h.Get, editorUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &got)
	assert.Zero(t, got.Views, "drafts do not count views")
}

func TestPostsCreate(t *testing.T) {
	store := &fakePostStore{}
	h := newPostsHandler(store)

	rec := call(t, http.MethodPost, "/api/posts", "/api/posts", h.Create, authorUser, map[string]any{
		"title":   "Going Fast With Go",
		"content": strings.Repeat("word ", 450),
		"status":  "published",
		"tags":    []string{"go"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Post
	resp := decodeData(t, rec, &created)
	assert.Equal(t, "Post created successfully", resp.Message)
	assert.Equal(t, "going-fast-with-go", created.Slug)
	assert.Equal(t, "technology", created.Category)
	assert.Equal(t, 3, created.ReadTime)
	require.NotNil(t, created.PublishedAt)
	assert.True(t, created.PublishedAt.Equal(fixedNow))
	assert.Equal(t, authorUser.ID, store.posts[0].AuthorID)

	rec = call(t, http.MethodPost, "/api/posts", "/api/posts", h.Create, authorUser, map[string]any{
		"title":   "going fast with GO",
		"content": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgPostTitleTaken, decode(t, rec).Message)

	rec = call(t, http.MethodPost, "/api/posts", "/api/posts", h.Create, authorUser, map[string]any{
		"title":    "No",
		"category": "gossip",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = decode(t, rec)
	fields := map[string]string{}
	for _, fe := range resp.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "category")

	rec = call(t, http.MethodPost, "/api/posts", "/api/posts", h.Create, authorUser, map[string]any{
		"title":   "?!?! ... !!!",
		"content": "body",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = decode(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "title", resp.Errors[0].Field)
	assert.Equal(t, "title must contain at least one letter or number", resp.Errors[0].Message)

	rec = call(t, http.MethodPost, "/api/posts", "/api/posts", h.Create, authorUser, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec).Message)
	assert.Len(t, store.posts, 1)
}

func TestPostsUpdate(t *testing.T) {
	store := &fakePostStore{}
	first := fixedNow.AddDate(0, -1, 0)
	own := store.add(models.Post{
		Title: "Original Title", Slug: "original-title", Content: "body", Category: "design",
		Status: models.StatusPublished, PublishedAt: &first, AuthorID: authorUser.ID, Tags: []string{"a"},
	})
	other := store.add(models.Post{
		Title: "Someone Else", Slug: "someone-else", Content: "body", Category: "design",
		Status: models.StatusDraft, AuthorID: editorUser.ID,
	})
	h := newPostsHandler(store)
	const pattern = "/api/posts/{id}"

	rec := call(t, http.MethodPut, pattern, "/api/posts/"+other.ID, h.Update, authorUser, map[string]any{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, http.MethodPut, pattern, "/api/posts/"+own.ID, h.Update, authorUser, map[string]any{"excerpt": "short"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Post
	decodeData(t, rec, &updated)
	assert.Equal(t, "short", updated.Excerpt)
	assert.Equal(t, "Original Title", updated.Title, "absent fields are kept")
	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, []string{"a"}, updated.Tags)
	assert.True(t, updated.PublishedAt.Equal(first), "publish time is stamped once")

	rec = call(t, http.MethodPut, pattern, "/api/posts/"+own.ID, h.Update, editorUser, map[string]any{"title": "Brand New Title"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &updated)
	assert.Equal(t, "brand-new-title", updated.Slug)

	rec = call(t, http.MethodPut, pattern, "/api/posts/"+own.ID, h.Update, editorUser, map[string]any{"title": "someone else"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodPut, pattern, "/api/posts/"+own.ID, h.Update, editorUser, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodPut, pattern, "/api/posts/not-an-id", h.Update, editorUser, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodPut, pattern, "/api/posts/99999999-9999-9999-9999-999999999999", h.Update, editorUser, map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostsDeleteAndLike(t *testing.T) {
	store := &fakePostStore{}
	p := store.add(models.Post{Title: "Like me", Status: models.StatusPublished})
	draft := store.add(models.Post{Title: "Not yet", Status: models.StatusDraft})
	h := newPostsHandler(store)

	rec := call(t, http.MethodPost, "/api/posts/{id}/like", "/api/posts/"+p.ID+"/like", h.Like, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes map[string]int
	decodeData(t, rec, &likes)
	assert.Equal(t, 1, likes["likes"])

	rec = call(t, http.MethodPost, "/api/posts/{id}/like", "/api/posts/"+draft.ID+"/like", h.Like, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, http.MethodDelete, "/api/posts/{id}", "/api/posts/"+p.ID, h.Delete, adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted successfully", decode(t, rec).Message)

	rec = call(t, http.MethodDelete, "/api/posts/{id}", "/api/posts/"+p.ID, h.Delete, adminUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
