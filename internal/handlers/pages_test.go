package handlers

import (
	"context"
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

// fakePageStore keeps the home page reference separately from the pages, the
// way the settings row does.
type fakePageStore struct {
	pages  map[string]*models.Page
	homeID string
	seq    int
}

func newFakePageStore() *fakePageStore {
	return &fakePageStore{pages: map[string]*models.Page{}}
}

func (f *fakePageStore) view(p *models.Page) *models.Page {
	cp := *p
	cp.IsHomePage = f.homeID != "" && f.homeID == p.ID
	return &cp
}

func (f *fakePageStore) save(p models.Page) *models.Page {
	if p.IsHomePage {
		f.homeID = p.ID
	} else if f.homeID == p.ID {
		f.homeID = ""
	}
	f.pages[p.ID] = &p
	return f.view(&p)
}

func (f *fakePageStore) ListPages(_ context.Context, flt db.PageFilter) ([]models.Page, int, error) {
	var out []models.Page
	for _, p := range f.pages {
		if flt.PublicOnly && p.Status != models.StatusPublished {
			continue
		}
		out = append(out, *f.view(p))
	}
	return out, len(out), nil
}

func (f *fakePageStore) PageStats(context.Context, db.PageFilter) (query.Stats, error) {
	return query.Stats{"byStatus": {}}, nil
}

func (f *fakePageStore) GetPageByID(_ context.Context, id string) (*models.Page, error) {
	if p, ok := f.pages[id]; ok {
		return f.view(p), nil
	}
	return nil, nil
}

func (f *fakePageStore) GetPageBySlug(_ context.Context, slug string) (*models.Page, error) {
	for _, p := range f.pages {
		if p.Slug == slug {
			return f.view(p), nil
		}
	}
	return nil, nil
}

func (f *fakePageStore) GetHomePage(ctx context.Context) (*models.Page, error) {
	if f.homeID == "" {
		return nil, nil
	}
	return f.GetPageByID(ctx, f.homeID)
}

func (f *fakePageStore) PageTitleExists(_ context.Context, title, excludeID string) (bool, error) {
	for _, p := range f.pages {
		if strings.EqualFold(p.Title, title) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePageStore) CreatePage(_ context.Context, p models.Page) (*models.Page, error) {
	f.seq++
	p.ID = fmt.Sprintf("aaaaaaaa-0000-0000-0000-%012d", f.seq)
	return f.save(p), nil
}

func (f *fakePageStore) UpdatePage(_ context.Context, p models.Page) (*models.Page, error) {
	if _, ok := f.pages[p.ID]; !ok {
		return nil, nil
	}
	return f.save(p), nil
}

func (f *fakePageStore) DeletePage(_ context.Context, id string) (bool, error) {
	_, ok := f.pages[id]
	delete(f.pages, id)
	if f.homeID == id {
		f.homeID = ""
	}
	return ok, nil
}

func (f *fakePageStore) IncrementPageViews(_ context.Context, id string) error {
	f.pages[id].Views++
	return nil
}

func TestPagesHomeSingleton(t *testing.T) {
	store := newFakePageStore()
	h := NewPagesHandler(store, quietLogger())
	h.now = fixedClock

	rec := call(t, http.MethodGet, "/api/pages/home", "/api/pages/home", h.Home, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	create := func(title string, home bool, status string) models.Page {
		rec := call(t, http.MethodPost, "/api/pages", "/api/pages", h.Create, editorUser, map[string]any{
			"title": title, "isHomePage": home, "status": status,
			"sections": []map[string]any{{"type": "hero", "title": "Hi"}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var p models.Page
		decodeData(t, rec, &p)
		return p
	}
	first := create("Welcome", true, "published")
	assert.True(t, first.IsHomePage)
	second := create("Draft Landing", true, "draft")

	reloaded, _ := store.GetPageByID(context.Background(), first.ID)
	assert.False(t, reloaded.IsHomePage, "only one page is the home page")

	rec = call(t, http.MethodGet, "/api/pages/home", "/api/pages/home", h.Home, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "draft home page is hidden from the public")

	rec = call(t, http.MethodGet, "/api/pages/home", "/api/pages/home", h.Home, editorUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var home models.Page
	decodeData(t, rec, &home)
	assert.Equal(t, second.ID, home.ID)

	rec = call(t, http.MethodPut, "/api/pages/{id}", "/api/pages/"+first.ID, h.Update, editorUser, map[string]any{"isHomePage": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, http.MethodGet, "/api/pages/home", "/api/pages/home", h.Home, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &home)
	assert.Equal(t, first.ID, home.ID)
	assert.Equal(t, "welcome", home.Slug)
	assert.Equal(t, 1, home.Views)
}

func TestPagesValidation(t *testing.T) {
	h := NewPagesHandler(newFakePageStore(), quietLogger())

	rec := call(t, http.MethodPost, "/api/pages", "/api/pages", h.Create, editorUser, map[string]any{
		"title":    "About us",
		"template": "blog",
		"sections": []map[string]any{{"type": "carousel"}},
		"seo":      map[string]any{"metaTitle": strings.Repeat("x", 61)},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := map[string]bool{}
	for _, fe := range decode(t, rec).Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["template"])
	assert.True(t, fields["sections[0].type"])
	assert.True(t, fields["seo.metaTitle"])
}
