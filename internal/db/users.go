package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const userColumns = `id::text, name, email, password_hash, role, avatar, bio, is_active, last_login, created_at, updated_at`

var userSort = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
	"lastLogin": "last_login",
}

type UserFilter struct {
	query.Params
	Role   string
	Active *bool
}

func (f UserFilter) where() *query.Builder {
	b := &query.Builder{}
	b.Eq("role", f.Role).
		Bool("is_active", f.Active).
		Search(f.Search, "name", "email")
	return b
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Avatar,
		&u.Bio,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int, error) {
	users, total, err := list(ctx, s.pool, userColumns, "users", f.where(), query.OrderBy(f.Params, userSort, query.Order{Column: "created_at", Desc: true}, "id"), f.Params, scanUser)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *Store) UserStats(ctx context.Context) (query.Stats, error) {
	return stats(ctx, s.pool, "users", &query.Builder{}, map[string]string{"byRole": "role"})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := getOne(ctx, s.pool, "SELECT "+userColumns+" FROM users WHERE id = $1", scanUser, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := getOne(ctx, s.pool, "SELECT "+userColumns+" FROM users WHERE email = $1", scanUser, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash, role, avatar, bio, is_active)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'viewer'), $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(s.pool.QueryRow(ctx, query,
		user.Name,
		normalizeEmail(user.Email),
		user.PasswordHash,
		string(user.Role),
		user.Avatar,
		user.Bio,
		user.IsActive,
	))
	if err != nil {
		return nil, wrapErr("create user", err)
	}
	return &created, nil
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		UPDATE users
		SET name = $2, role = $3, avatar = $4, bio = $5, is_active = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := getOne(ctx, s.pool, query, scanUser,
		user.ID,
		user.Name,
		string(user.Role),
		user.Avatar,
		user.Bio,
		user.IsActive,
	)
	if err != nil {
		return nil, wrapErr("update user", err)
	}
	return updated, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, hash string) error {
	if _, err := s.pool.Exec(ctx, "UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1", id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := s.pool.Exec(ctx, "UPDATE users SET last_login = $2 WHERE id = $1", id, at); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "users", id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
