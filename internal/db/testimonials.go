package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const testimonialColumns = `
	t.id::text,
	t.name,
	t.position,
	t.company,
	t.content,
	t.rating,
	t.avatar,
	t.project_type,
	t.status,
	t.is_featured,
	t.sort_order,
	t.case_study_id::text,
	COALESCE(t.created_by::text, ''),
	t.published_at,
	t.created_at,
	t.updated_at,
	` + userRefColumns

const testimonialFrom = `testimonials t LEFT JOIN users u ON u.id = t.created_by`

var testimonialSort = map[string]string{
	"order":     "t.sort_order",
	"rating":    "t.rating",
	"createdAt": "t.created_at",
	"name":      "t.name",
}

type TestimonialFilter struct {
	query.Params
	PublicOnly bool
	Status     string
	MinRating  *int
	Featured   *bool
}

func (f TestimonialFilter) scope() *query.Builder {
	b := &query.Builder{}
	if f.PublicOnly {
		b.Eq("t.status", string(models.StatusPublished))
	}
	return b
}

func (f TestimonialFilter) where() *query.Builder {
	b := f.scope()
	if !f.PublicOnly {
		b.Eq("t.status", f.Status)
	}
	b.Gte("t.rating", f.MinRating).
		Bool("t.is_featured", f.Featured).
		Search(f.Search, "t.name", "t.company", "t.content")
	return b
}

func scanTestimonial(row pgx.Row) (models.Testimonial, error) {
	var t models.Testimonial
	var creator userRef
	dest := []any{
		&t.ID,
		&t.Name,
		&t.Position,
		&t.Company,
		&t.Content,
		&t.Rating,
		&t.Avatar,
		&t.ProjectType,
		&t.Status,
		&t.IsFeatured,
		&t.Order,
		&t.CaseStudyID,
		&t.CreatedByID,
		&t.PublishedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
	if err := row.Scan(append(dest, creator.dest()...)...); err != nil {
		return t, err
	}
	t.CreatedBy = creator.ref()
	return t, nil
}

// ListTestimonials sorts by display order unless the request asks otherwise.
func (s *Store) ListTestimonials(ctx context.Context, f TestimonialFilter) ([]models.Testimonial, int, error) {
	order := query.OrderBy(f.Params, testimonialSort, query.Order{Column: "t.sort_order"}, "t.id")
	items, total, err := list(ctx, s.pool, testimonialColumns, testimonialFrom, f.where(), order, f.Params, scanTestimonial)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	return items, total, nil
}

func (s *Store) TestimonialStats(ctx context.Context, f TestimonialFilter) (query.Stats, error) {
	return stats(ctx, s.pool, "testimonials t", f.scope(), map[string]string{
		"byStatus": "t.status",
		"byRating": "t.rating",
	})
}

func (s *Store) GetTestimonialByID(ctx context.Context, id string) (*models.Testimonial, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+testimonialColumns+" FROM "+testimonialFrom+" WHERE t.id = $1", scanTestimonial, id)
	if err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return item, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, t models.Testimonial) (*models.Testimonial, error) {
	const query = `
		INSERT INTO testimonials (
			name, position, company, content, rating, avatar, project_type, status,
			is_featured, sort_order, case_study_id, created_by, published_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::uuid, NULLIF($12, '')::uuid, $13, $14, $15)
		RETURNING id::text
	`
	var id string
	err := s.pool.QueryRow(ctx, query,
		t.Name,
		t.Position,
		t.Company,
		t.Content,
		t.Rating,
		t.Avatar,
		t.ProjectType,
		string(t.Status),
		t.IsFeatured,
		t.Order,
		t.CaseStudyID,
		t.CreatedByID,
		t.PublishedAt,
		t.CreatedAt,
		t.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create testimonial", err)
	}
	return s.GetTestimonialByID(ctx, id)
}

func (s *Store) UpdateTestimonial(ctx context.Context, t models.Testimonial) (*models.Testimonial, error) {
	const query = `
		UPDATE testimonials SET
			name = $2, position = $3, company = $4, content = $5, rating = $6, avatar = $7,
			project_type = $8, status = $9, is_featured = $10, sort_order = $11,
			case_study_id = $12::uuid, published_at = $13, updated_at = $14
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		t.ID,
		t.Name,
		t.Position,
		t.Company,
		t.Content,
		t.Rating,
		t.Avatar,
		t.ProjectType,
		string(t.Status),
		t.IsFeatured,
		t.Order,
		t.CaseStudyID,
		t.PublishedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("update testimonial", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetTestimonialByID(ctx, t.ID)
}

func (s *Store) DeleteTestimonial(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "testimonials", id)
}
