package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const pageColumns = `
	p.id::text,
	p.title,
	p.slug,
	p.content,
	p.excerpt,
	p.template,
	p.status,
	COALESCE(ss.home_page_id = p.id, false),
	p.show_in_menu,
	p.menu_order,
	p.featured_image,
	p.sections,
	p.seo,
	p.views,
	COALESCE(p.author_id::text, ''),
	p.published_at,
	p.created_at,
	p.updated_at,
	` + userRefColumns

const pageFrom = `pages p
	LEFT JOIN users u ON u.id = p.author_id
	LEFT JOIN site_settings ss ON ss.id`

var pageSort = map[string]string{
	"menuOrder":   "p.menu_order",
	"title":       "p.title",
	"createdAt":   "p.created_at",
	"updatedAt":   "p.updated_at",
	"publishedAt": "p.published_at",
	"views":       "p.views",
}

type PageFilter struct {
	query.Params
	PublicOnly bool
	Status     string
	Template   string
	ShowInMenu *bool
}

func (f PageFilter) scope() *query.Builder {
	b := &query.Builder{}
	if f.PublicOnly {
		b.Eq("p.status", string(models.StatusPublished))
	}
	return b
}

func (f PageFilter) where() *query.Builder {
	b := f.scope()
	if !f.PublicOnly {
		b.Eq("p.status", f.Status)
	}
	b.Eq("p.template", f.Template).
		Bool("p.show_in_menu", f.ShowInMenu).
		Search(f.Search, "p.title", "p.content", "p.excerpt")
	return b
}

func scanPage(row pgx.Row) (models.Page, error) {
	var p models.Page
	var author userRef
	dest := []any{
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Excerpt,
		&p.Template,
		&p.Status,
		&p.IsHomePage,
		&p.ShowInMenu,
		&p.MenuOrder,
		&p.FeaturedImage,
		&p.Sections,
		&p.SEO,
		&p.Views,
		&p.AuthorID,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, author.dest()...)...); err != nil {
		return p, err
	}
	p.Author = author.ref()
	return p, nil
}

func (s *Store) ListPages(ctx context.Context, f PageFilter) ([]models.Page, int, error) {
	order := query.OrderBy(f.Params, pageSort, query.Order{Column: "p.menu_order"}, "p.id")
	pages, total, err := list(ctx, s.pool, pageColumns, pageFrom, f.where(), order, f.Params, scanPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list pages: %w", err)
	}
	return pages, total, nil
}

func (s *Store) PageStats(ctx context.Context, f PageFilter) (query.Stats, error) {
	return stats(ctx, s.pool, "pages p", f.scope(), map[string]string{
		"byStatus":   "p.status",
		"byTemplate": "p.template",
	})
}

func (s *Store) GetPageByID(ctx context.Context, id string) (*models.Page, error) {
	page, err := getOne(ctx, s.pool, "SELECT "+pageColumns+" FROM "+pageFrom+" WHERE p.id = $1", scanPage, id)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := getOne(ctx, s.pool, "SELECT "+pageColumns+" FROM "+pageFrom+" WHERE p.slug = $1", scanPage, slug)
	if err != nil {
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return page, nil
}

// GetHomePage returns the page referenced by the site settings, if any.
func (s *Store) GetHomePage(ctx context.Context) (*models.Page, error) {
	page, err := getOne(ctx, s.pool, "SELECT "+pageColumns+" FROM "+pageFrom+" WHERE p.id = ss.home_page_id", scanPage)
	if err != nil {
		return nil, fmt.Errorf("get home page: %w", err)
	}
	return page, nil
}

func (s *Store) PageTitleExists(ctx context.Context, title, excludeID string) (bool, error) {
	return valueExists(ctx, s.pool, "pages", "title", title, excludeID)
}

// CreatePage inserts the page and, when it is flagged as the home page,
// points the settings singleton at it in the same transaction.
func (s *Store) CreatePage(ctx context.Context, page models.Page) (*models.Page, error) {
	sections, err := toJSON(page.Sections)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	seo, err := toJSON(page.SEO)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	const query = `
		INSERT INTO pages (
			title, slug, content, excerpt, template, status, show_in_menu, menu_order,
			featured_image, sections, seo, author_id, published_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::uuid, $13, $14, $15)
		RETURNING id::text
	`
	var id string
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			page.Title,
			page.Slug,
			page.Content,
			page.Excerpt,
			page.Template,
			string(page.Status),
			page.ShowInMenu,
			page.MenuOrder,
			page.FeaturedImage,
			sections,
			seo,
			page.AuthorID,
			page.PublishedAt,
			page.CreatedAt,
			page.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return err
		}
		if page.IsHomePage {
			return setHomePage(ctx, tx, id, true)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("create page", err)
	}
	return s.GetPageByID(ctx, id)
}

func (s *Store) UpdatePage(ctx context.Context, page models.Page) (*models.Page, error) {
	sections, err := toJSON(page.Sections)
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	seo, err := toJSON(page.SEO)
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}

	const query = `
		UPDATE pages SET
			title = $2, slug = $3, content = $4, excerpt = $5, template = $6, status = $7,
			show_in_menu = $8, menu_order = $9, featured_image = $10, sections = $11,
			seo = $12, published_at = $13, updated_at = $14
		WHERE id = $1
	`
	found := false
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			page.ID,
			page.Title,
			page.Slug,
			page.Content,
			page.Excerpt,
			page.Template,
			string(page.Status),
			page.ShowInMenu,
			page.MenuOrder,
			page.FeaturedImage,
			sections,
			seo,
			page.PublishedAt,
			page.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		found = true
		return setHomePage(ctx, tx, page.ID, page.IsHomePage)
	})
	if err != nil {
		return nil, wrapErr("update page", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetPageByID(ctx, page.ID)
}

// setHomePage points the singleton at id, or clears it if id is currently
// the home page and isHome is false.
func setHomePage(ctx context.Context, q querier, id string, isHome bool) error {
	if isHome {
		_, err := q.Exec(ctx, `
			INSERT INTO site_settings (id, home_page_id, updated_at) VALUES (true, $1, now())
			ON CONFLICT (id) DO UPDATE SET home_page_id = EXCLUDED.home_page_id, updated_at = now()
		`, id)
		return err
	}
	_, err := q.Exec(ctx, "UPDATE site_settings SET home_page_id = NULL, updated_at = now() WHERE home_page_id = $1", id)
	return err
}

func (s *Store) DeletePage(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "pages", id)
}

func (s *Store) IncrementPageViews(ctx context.Context, id string) error {
	return incrementViews(ctx, s.pool, "pages", id)
}

func (s *Store) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.pool.QueryRow(ctx, "SELECT home_page_id::text, updated_at FROM site_settings WHERE id").Scan(&settings.HomePageID, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.SiteSettings{}, nil
		}
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	return &settings, nil
}
