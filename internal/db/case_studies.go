package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const caseStudyColumns = `
	c.id::text,
	c.title,
	c.slug,
	c.client,
	c.industry,
	c.summary,
	c.challenge,
	c.solution,
	c.results,
	c.technologies,
	c.images,
	c.featured_image,
	c.project_url,
	c.duration,
	c.testimonial,
	c.status,
	c.is_featured,
	c.views,
	c.seo,
	COALESCE(c.author_id::text, ''),
	c.published_at,
	c.created_at,
	c.updated_at,
	` + userRefColumns

const caseStudyFrom = `case_studies c LEFT JOIN users u ON u.id = c.author_id`

var caseStudySort = map[string]string{
	"createdAt":   "c.created_at",
	"updatedAt":   "c.updated_at",
	"publishedAt": "c.published_at",
	"title":       "c.title",
	"client":      "c.client",
	"views":       "c.views",
}

type CaseStudyFilter struct {
	query.Params
	PublicOnly bool
	Status     string
	Industry   string
	Technology string
	Featured   *bool
}

func (f CaseStudyFilter) scope() *query.Builder {
	b := &query.Builder{}
	if f.PublicOnly {
		b.Eq("c.status", string(models.StatusPublished))
	}
	return b
}

func (f CaseStudyFilter) where() *query.Builder {
	b := f.scope()
	if !f.PublicOnly {
		b.Eq("c.status", f.Status)
	}
	b.Eq("c.industry", f.Industry).
		ArrayContains("c.technologies", f.Technology).
		Bool("c.is_featured", f.Featured).
		Search(f.Search, "c.title", "c.client", "c.summary")
	return b
}

func scanCaseStudy(row pgx.Row) (models.CaseStudy, error) {
	var c models.CaseStudy
	var author userRef
	dest := []any{
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.Client,
		&c.Industry,
		&c.Summary,
		&c.Challenge,
		&c.Solution,
		&c.Results,
		&c.Technologies,
		&c.Images,
		&c.FeaturedImage,
		&c.ProjectURL,
		&c.Duration,
		&c.Testimonial,
		&c.Status,
		&c.IsFeatured,
		&c.Views,
		&c.SEO,
		&c.AuthorID,
		&c.PublishedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if err := row.Scan(append(dest, author.dest()...)...); err != nil {
		return c, err
	}
	c.Author = author.ref()
	return c, nil
}

func (s *Store) ListCaseStudies(ctx context.Context, f CaseStudyFilter) ([]models.CaseStudy, int, error) {
	order := query.OrderBy(f.Params, caseStudySort, query.Order{Column: "c.created_at", Desc: true}, "c.id")
	items, total, err := list(ctx, s.pool, caseStudyColumns, caseStudyFrom, f.where(), order, f.Params, scanCaseStudy)
	if err != nil {
		return nil, 0, fmt.Errorf("list case studies: %w", err)
	}
	return items, total, nil
}

func (s *Store) CaseStudyStats(ctx context.Context, f CaseStudyFilter) (query.Stats, error) {
	return stats(ctx, s.pool, "case_studies c", f.scope(), map[string]string{
		"byStatus":   "c.status",
		"byIndustry": "c.industry",
	})
}

func (s *Store) GetCaseStudyByID(ctx context.Context, id string) (*models.CaseStudy, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+caseStudyColumns+" FROM "+caseStudyFrom+" WHERE c.id = $1", scanCaseStudy, id)
	if err != nil {
		return nil, fmt.Errorf("get case study: %w", err)
	}
	return item, nil
}

func (s *Store) GetCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+caseStudyColumns+" FROM "+caseStudyFrom+" WHERE c.slug = $1", scanCaseStudy, slug)
	if err != nil {
		return nil, fmt.Errorf("get case study by slug: %w", err)
	}
	return item, nil
}

func (s *Store) CaseStudyTitleExists(ctx context.Context, title, excludeID string) (bool, error) {
	return valueExists(ctx, s.pool, "case_studies", "title", title, excludeID)
}

func caseStudyDocs(c models.CaseStudy) (results, testimonial, seo json.RawMessage, err error) {
	if results, err = toJSON(c.Results); err != nil {
		return
	}
	if testimonial, err = toJSON(c.Testimonial); err != nil {
		return
	}
	seo, err = toJSON(c.SEO)
	return
}

func (s *Store) CreateCaseStudy(ctx context.Context, c models.CaseStudy) (*models.CaseStudy, error) {
	results, testimonial, seo, err := caseStudyDocs(c)
	if err != nil {
		return nil, fmt.Errorf("create case study: %w", err)
	}

	const query = `
		INSERT INTO case_studies (
			title, slug, client, industry, summary, challenge, solution, results,
			technologies, images, featured_image, project_url, duration, testimonial,
			status, is_featured, seo, author_id, published_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			NULLIF($18, '')::uuid, $19, $20, $21)
		RETURNING id::text
	`
	var id string
	err = s.pool.QueryRow(ctx, query,
		c.Title,
		c.Slug,
		c.Client,
		c.Industry,
		c.Summary,
		c.Challenge,
		c.Solution,
		results,
		nonNil(c.Technologies),
		nonNil(c.Images),
		c.FeaturedImage,
		c.ProjectURL,
		c.Duration,
		testimonial,
		string(c.Status),
		c.IsFeatured,
		seo,
		c.AuthorID,
		c.PublishedAt,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create case study", err)
	}
	return s.GetCaseStudyByID(ctx, id)
}

func (s *Store) UpdateCaseStudy(ctx context.Context, c models.CaseStudy) (*models.CaseStudy, error) {
	results, testimonial, seo, err := caseStudyDocs(c)
	if err != nil {
		return nil, fmt.Errorf("update case study: %w", err)
	}

	const query = `
		UPDATE case_studies SET
			title = $2, slug = $3, client = $4, industry = $5, summary = $6, challenge = $7,
			solution = $8, results = $9, technologies = $10, images = $11, featured_image = $12,
			project_url = $13, duration = $14, testimonial = $15, status = $16, is_featured = $17,
			seo = $18, published_at = $19, updated_at = $20
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.Slug,
		c.Client,
		c.Industry,
		c.Summary,
		c.Challenge,
		c.Solution,
		results,
		nonNil(c.Technologies),
		nonNil(c.Images),
		c.FeaturedImage,
		c.ProjectURL,
		c.Duration,
		testimonial,
		string(c.Status),
		c.IsFeatured,
		seo,
		c.PublishedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("update case study", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetCaseStudyByID(ctx, c.ID)
}

func (s *Store) DeleteCaseStudy(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "case_studies", id)
}

func (s *Store) IncrementCaseStudyViews(ctx context.Context, id string) error {
	return incrementViews(ctx, s.pool, "case_studies", id)
}
