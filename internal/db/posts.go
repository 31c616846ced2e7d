package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const postColumns = `
	p.id::text,
	p.title,
	p.slug,
	p.excerpt,
	p.content,
	p.featured_image,
	p.category,
	p.tags,
	p.status,
	p.is_featured,
	p.read_time,
	p.views,
	p.likes,
	p.seo,
	COALESCE(p.author_id::text, ''),
	p.published_at,
	p.created_at,
	p.updated_at,
	` + userRefColumns

const postFrom = `posts p LEFT JOIN users u ON u.id = p.author_id`

var postSort = map[string]string{
	"createdAt":   "p.created_at",
	"updatedAt":   "p.updated_at",
	"publishedAt": "p.published_at",
	"title":       "p.title",
	"views":       "p.views",
	"likes":       "p.likes",
}

// PostFilter selects posts for a list request. PublicOnly restricts the
// result to published posts regardless of Status.
type PostFilter struct {
	query.Params
	PublicOnly bool
	Status     string
	Category   string
	Tag        string
	AuthorID   string
	Featured   *bool
}

func (f PostFilter) scope() *query.Builder {
	b := &query.Builder{}
	if f.PublicOnly {
		b.Eq("p.status", string(models.StatusPublished))
	}
	return b
}

func (f PostFilter) where() *query.Builder {
	b := f.scope()
	if !f.PublicOnly {
		b.Eq("p.status", f.Status)
	}
	b.Eq("p.category", f.Category).
		ArrayContains("p.tags", f.Tag).
		Eq("p.author_id::text", f.AuthorID).
		Bool("p.is_featured", f.Featured).
		Search(f.Search, "p.title", "p.excerpt", "p.content")
	return b
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	var author userRef
	dest := []any{
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.FeaturedImage,
		&p.Category,
		&p.Tags,
		&p.Status,
		&p.IsFeatured,
		&p.ReadTime,
		&p.Views,
		&p.Likes,
		&p.SEO,
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

func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, int, error) {
	order := query.OrderBy(f.Params, postSort, query.Order{Column: "p.created_at", Desc: true}, "p.id")
	posts, total, err := list(ctx, s.pool, postColumns, postFrom, f.where(), order, f.Params, scanPost)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// PostStats counts posts by status and category within the caller's scope.
func (s *Store) PostStats(ctx context.Context, f PostFilter) (query.Stats, error) {
	return stats(ctx, s.pool, "posts p", f.scope(), map[string]string{
		"byStatus":   "p.status",
		"byCategory": "p.category",
	})
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := getOne(ctx, s.pool, "SELECT "+postColumns+" FROM "+postFrom+" WHERE p.id = $1", scanPost, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := getOne(ctx, s.pool, "SELECT "+postColumns+" FROM "+postFrom+" WHERE p.slug = $1", scanPost, slug)
	if err != nil {
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return post, nil
}

// PostTitleExists reports whether another post already uses title, ignoring case.
func (s *Store) PostTitleExists(ctx context.Context, title, excludeID string) (bool, error) {
	return valueExists(ctx, s.pool, "posts", "title", title, excludeID)
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	seo, err := toJSON(post.SEO)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	const query = `
		INSERT INTO posts (
			title, slug, excerpt, content, featured_image, category, tags, status,
			is_featured, read_time, seo, author_id, published_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::uuid, $13, $14, $15)
		RETURNING id::text
	`
	var id string
	err = s.pool.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.FeaturedImage,
		post.Category,
		nonNil(post.Tags),
		string(post.Status),
		post.IsFeatured,
		post.ReadTime,
		seo,
		post.AuthorID,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create post", err)
	}
	return s.GetPostByID(ctx, id)
}

func (s *Store) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	seo, err := toJSON(post.SEO)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	const query = `
		UPDATE posts SET
			title = $2, slug = $3, excerpt = $4, content = $5, featured_image = $6,
			category = $7, tags = $8, status = $9, is_featured = $10, read_time = $11,
			seo = $12, published_at = $13, updated_at = $14
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.FeaturedImage,
		post.Category,
		nonNil(post.Tags),
		string(post.Status),
		post.IsFeatured,
		post.ReadTime,
		seo,
		post.PublishedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetPostByID(ctx, post.ID)
}

func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "posts", id)
}

func (s *Store) IncrementPostViews(ctx context.Context, id string) error {
	return incrementViews(ctx, s.pool, "posts", id)
}

// LikePost increments the like counter and returns the new value.
func (s *Store) LikePost(ctx context.Context, id string) (int, bool, error) {
	var likes int
	err := s.pool.QueryRow(ctx, "UPDATE posts SET likes = likes + 1 WHERE id = $1 AND status = 'published' RETURNING likes", id).Scan(&likes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("like post: %w", err)
	}
	return likes, true, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
