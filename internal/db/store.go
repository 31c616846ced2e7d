package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate value")

type Store struct {
	pool *pgxpool.Pool
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("db not initialized")
	}
	return s.pool.Ping(ctx)
}

func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w: %s", op, ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// toJSON encodes a sub-document for a JSONB column. Nil slices are stored as
// empty arrays.
func toJSON(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return json.RawMessage("[]"), nil
	}
	return b, nil
}

// userRef scans the populated user columns of a LEFT JOIN.
type userRef struct {
	id     *string
	name   string
	email  string
	avatar string
}

func (u *userRef) dest() []any {
	return []any{&u.id, &u.name, &u.email, &u.avatar}
}

func (u *userRef) ref() *models.UserRef {
	if u.id == nil {
		return nil
	}
	return &models.UserRef{ID: *u.id, Name: u.name, Email: u.email, Avatar: u.avatar}
}

const userRefColumns = `u.id::text, COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.avatar, '')`

// list runs a filtered, sorted, paginated select together with its count.
func list[T any](ctx context.Context, q querier, columns, from string, b *query.Builder, order string, p query.Params, scan func(pgx.Row) (T, error)) ([]T, int, error) {
	limit, args := b.Limit(p)
	rows, err := q.Query(ctx, "SELECT "+columns+" FROM "+from+b.Clause()+order+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]T, 0, p.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+b.Clause(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	return items, total, nil
}

// getOne runs a single-row select and returns (nil, nil) when nothing matches.
func getOne[T any](ctx context.Context, q querier, sql string, scan func(pgx.Row) (T, error), args ...any) (*T, error) {
	item, err := scan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// groupCounts counts rows of from matching b grouped by column.
func groupCounts(ctx context.Context, q querier, from, column string, b *query.Builder) (map[string]int, error) {
	rows, err := q.Query(ctx, "SELECT COALESCE("+column+"::text, ''), COUNT(*) FROM "+from+b.Clause()+" GROUP BY 1", b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// stats runs groupCounts for each named dimension.
func stats(ctx context.Context, q querier, from string, b *query.Builder, dims map[string]string) (query.Stats, error) {
	out := query.Stats{}
	for name, column := range dims {
		counts, err := groupCounts(ctx, q, from, column, b)
		if err != nil {
			return nil, fmt.Errorf("%s stats: %w", name, err)
		}
		out[name] = counts
	}
	return out, nil
}

// valueExists reports whether a row other than excludeID has column equal to
// value, ignoring case.
func valueExists(ctx context.Context, q querier, table, column, value, excludeID string) (bool, error) {
	var exists bool
	sql := "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE lower(" + column + ") = lower($1) AND ($2 = '' OR id::text <> $2))"
	if err := q.QueryRow(ctx, sql, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s.%s: %w", table, column, err)
	}
	return exists, nil
}

func deleteByID(ctx context.Context, q querier, table, id string) (bool, error) {
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return tag.RowsAffected() > 0, nil
}

// incrementViews bumps the view counter of a document.
func incrementViews(ctx context.Context, q querier, table, id string) error {
	if _, err := q.Exec(ctx, "UPDATE "+table+" SET views = views + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment %s views: %w", table, err)
	}
	return nil
}
