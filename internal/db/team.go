package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const teamColumns = `
	m.id::text,
	m.name,
	m.slug,
	m.position,
	m.department,
	m.bio,
	m.avatar,
	m.email,
	m.phone,
	m.social_links,
	m.skills,
	m.sort_order,
	m.is_active,
	m.is_public,
	m.joined_at,
	m.created_at,
	m.updated_at`

var teamSort = map[string]string{
	"order":     "m.sort_order",
	"name":      "m.name",
	"createdAt": "m.created_at",
	"joinedAt":  "m.joined_at",
}

// TeamFilter selects team members. PublicOnly limits the result to members
// that are both public and active.
type TeamFilter struct {
	query.Params
	PublicOnly bool
	Department string
	Active     *bool
}

func (f TeamFilter) scope() *query.Builder {
	b := &query.Builder{}
	if f.PublicOnly {
		b.Where("m.is_public AND m.is_active")
	}
	return b
}

func (f TeamFilter) where() *query.Builder {
	b := f.scope()
	if !f.PublicOnly {
		b.Bool("m.is_active", f.Active)
	}
	b.Eq("m.department", f.Department).
		Search(f.Search, "m.name", "m.position", "m.bio")
	return b
}

func scanTeamMember(row pgx.Row) (models.TeamMember, error) {
	var m models.TeamMember
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.Position,
		&m.Department,
		&m.Bio,
		&m.Avatar,
		&m.Email,
		&m.Phone,
		&m.SocialLinks,
		&m.Skills,
		&m.Order,
		&m.IsActive,
		&m.IsPublic,
		&m.JoinedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (s *Store) ListTeamMembers(ctx context.Context, f TeamFilter) ([]models.TeamMember, int, error) {
	order := query.OrderBy(f.Params, teamSort, query.Order{Column: "m.sort_order"}, "m.id")
	items, total, err := list(ctx, s.pool, teamColumns, "team_members m", f.where(), order, f.Params, scanTeamMember)
	if err != nil {
		return nil, 0, fmt.Errorf("list team members: %w", err)
	}
	return items, total, nil
}

func (s *Store) TeamStats(ctx context.Context, f TeamFilter) (query.Stats, error) {
	return stats(ctx, s.pool, "team_members m", f.scope(), map[string]string{
		"byDepartment": "m.department",
	})
}

func (s *Store) GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+teamColumns+" FROM team_members m WHERE m.id = $1", scanTeamMember, id)
	if err != nil {
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return item, nil
}

func (s *Store) GetTeamMemberBySlug(ctx context.Context, slug string) (*models.TeamMember, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+teamColumns+" FROM team_members m WHERE m.slug = $1", scanTeamMember, slug)
	if err != nil {
		return nil, fmt.Errorf("get team member by slug: %w", err)
	}
	return item, nil
}

func (s *Store) CreateTeamMember(ctx context.Context, m models.TeamMember) (*models.TeamMember, error) {
	links, err := toJSON(m.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("create team member: %w", err)
	}

	const query = `
		INSERT INTO team_members (
			name, slug, position, department, bio, avatar, email, phone, social_links,
			skills, sort_order, is_active, is_public, joined_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id::text
	`
	var id string
	err = s.pool.QueryRow(ctx, query,
		m.Name,
		m.Slug,
		m.Position,
		m.Department,
		m.Bio,
		m.Avatar,
		m.Email,
		m.Phone,
		links,
		nonNil(m.Skills),
		m.Order,
		m.IsActive,
		m.IsPublic,
		m.JoinedAt,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create team member", err)
	}
	return s.GetTeamMemberByID(ctx, id)
}

func (s *Store) UpdateTeamMember(ctx context.Context, m models.TeamMember) (*models.TeamMember, error) {
	links, err := toJSON(m.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("update team member: %w", err)
	}

	const query = `
		UPDATE team_members SET
			name = $2, slug = $3, position = $4, department = $5, bio = $6, avatar = $7,
			email = $8, phone = $9, social_links = $10, skills = $11, sort_order = $12,
			is_active = $13, is_public = $14, joined_at = $15, updated_at = $16
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Slug,
		m.Position,
		m.Department,
		m.Bio,
		m.Avatar,
		m.Email,
		m.Phone,
		links,
		nonNil(m.Skills),
		m.Order,
		m.IsActive,
		m.IsPublic,
		m.JoinedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("update team member", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetTeamMemberByID(ctx, m.ID)
}

func (s *Store) DeleteTeamMember(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "team_members", id)
}
