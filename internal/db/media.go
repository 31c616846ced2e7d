package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const mediaColumns = `
	md.id::text,
	md.filename,
	md.original_name,
	md.mime_type,
	md.size,
	md.category,
	md.path,
	md.url,
	md.alt,
	md.caption,
	md.tags,
	COALESCE(md.uploaded_by::text, ''),
	md.created_at,
	md.updated_at,
	` + userRefColumns

const mediaFrom = `media md LEFT JOIN users u ON u.id = md.uploaded_by`

var mediaSort = map[string]string{
	"createdAt":    "md.created_at",
	"size":         "md.size",
	"originalName": "md.original_name",
}

type MediaFilter struct {
	query.Params
	Category   string
	UploadedBy string
	Tag        string
}

func (f MediaFilter) where() *query.Builder {
	b := &query.Builder{}
	b.Eq("md.category", f.Category).
		Eq("md.uploaded_by::text", f.UploadedBy).
		ArrayContains("md.tags", f.Tag).
		Search(f.Search, "md.original_name", "md.alt", "md.caption")
	return b
}

func scanMedia(row pgx.Row) (models.Media, error) {
	var m models.Media
	var uploader userRef
	dest := []any{
		&m.ID,
		&m.Filename,
		&m.OriginalName,
		&m.MimeType,
		&m.Size,
		&m.Category,
		&m.Path,
		&m.URL,
		&m.Alt,
		&m.Caption,
		&m.Tags,
		&m.UploadedByID,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
	if err := row.Scan(append(dest, uploader.dest()...)...); err != nil {
		return m, err
	}
	m.UploadedBy = uploader.ref()
	return m, nil
}

func (s *Store) ListMedia(ctx context.Context, f MediaFilter) ([]models.Media, int, error) {
	order := query.OrderBy(f.Params, mediaSort, query.Order{Column: "md.created_at", Desc: true}, "md.id")
	items, total, err := list(ctx, s.pool, mediaColumns, mediaFrom, f.where(), order, f.Params, scanMedia)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	return items, total, nil
}

func (s *Store) MediaStats(ctx context.Context) (query.Stats, error) {
	return stats(ctx, s.pool, "media md", &query.Builder{}, map[string]string{
		"byCategory": "md.category",
	})
}

func (s *Store) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+mediaColumns+" FROM "+mediaFrom+" WHERE md.id = $1", scanMedia, id)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return item, nil
}

func (s *Store) CreateMedia(ctx context.Context, m models.Media) (*models.Media, error) {
	const query = `
		INSERT INTO media (
			filename, original_name, mime_type, size, category, path, url, alt, caption,
			tags, uploaded_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid, $12, $13)
		RETURNING id::text
	`
	var id string
	err := s.pool.QueryRow(ctx, query,
		m.Filename,
		m.OriginalName,
		m.MimeType,
		m.Size,
		m.Category,
		m.Path,
		m.URL,
		m.Alt,
		m.Caption,
		nonNil(m.Tags),
		m.UploadedByID,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create media", err)
	}
	return s.GetMediaByID(ctx, id)
}

func (s *Store) UpdateMedia(ctx context.Context, m models.Media) (*models.Media, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE media SET alt = $2, caption = $3, tags = $4, updated_at = $5 WHERE id = $1",
		m.ID, m.Alt, m.Caption, nonNil(m.Tags), m.UpdatedAt)
	if err != nil {
		return nil, wrapErr("update media", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetMediaByID(ctx, m.ID)
}

func (s *Store) DeleteMedia(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "media", id)
}
