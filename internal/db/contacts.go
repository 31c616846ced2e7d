package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/query"
)

const contactColumns = `
	c.id::text,
	c.name,
	c.email,
	c.phone,
	c.company,
	c.subject,
	c.message,
	c.service,
	c.budget,
	c.status,
	c.priority,
	c.assigned_to::text,
	c.notes,
	c.ip_address,
	c.user_agent,
	c.source,
	c.responded_at,
	c.created_at,
	c.updated_at,
	` + userRefColumns

const contactFrom = `contacts c LEFT JOIN users u ON u.id = c.assigned_to`

var contactSort = map[string]string{
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
	"name":      "c.name",
	"status":    "c.status",
	"priority":  "c.priority",
}

type ContactFilter struct {
	query.Params
	Status     string
	Priority   string
	Service    string
	AssignedTo string
}

func (f ContactFilter) where() *query.Builder {
	b := &query.Builder{}
	b.Eq("c.status", f.Status).
		Eq("c.priority", f.Priority).
		Eq("c.service", f.Service).
		Eq("c.assigned_to::text", f.AssignedTo).
		Search(f.Search, "c.name", "c.email", "c.company", "c.subject", "c.message")
	return b
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var c models.Contact
	var assignee userRef
	dest := []any{
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Subject,
		&c.Message,
		&c.Service,
		&c.Budget,
		&c.Status,
		&c.Priority,
		&c.AssignedToID,
		&c.Notes,
		&c.IPAddress,
		&c.UserAgent,
		&c.Source,
		&c.RespondedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if err := row.Scan(append(dest, assignee.dest()...)...); err != nil {
		return c, err
	}
	c.AssignedTo = assignee.ref()
	if c.Notes == nil {
		c.Notes = []models.Note{}
	}
	return c, nil
}

func (s *Store) ListContacts(ctx context.Context, f ContactFilter) ([]models.Contact, int, error) {
	order := query.OrderBy(f.Params, contactSort, query.Order{Column: "c.created_at", Desc: true}, "c.id")
	items, total, err := list(ctx, s.pool, contactColumns, contactFrom, f.where(), order, f.Params, scanContact)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return items, total, nil
}

// ContactStats counts every inquiry by status and priority.
func (s *Store) ContactStats(ctx context.Context) (query.Stats, error) {
	return stats(ctx, s.pool, "contacts c", &query.Builder{}, map[string]string{
		"byStatus":   "c.status",
		"byPriority": "c.priority",
	})
}

func (s *Store) GetContactByID(ctx context.Context, id string) (*models.Contact, error) {
	item, err := getOne(ctx, s.pool, "SELECT "+contactColumns+" FROM "+contactFrom+" WHERE c.id = $1", scanContact, id)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return item, nil
}

func (s *Store) CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	notes, err := toJSON(c.Notes)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	const query = `
		INSERT INTO contacts (
			name, email, phone, company, subject, message, service, budget, status,
			priority, notes, ip_address, user_agent, source, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id::text
	`
	err = s.pool.QueryRow(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Subject,
		c.Message,
		c.Service,
		c.Budget,
		c.Status,
		c.Priority,
		notes,
		c.IPAddress,
		c.UserAgent,
		c.Source,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, wrapErr("create contact", err)
	}
	return &c, nil
}

// UpdateContact persists the triage fields and the note log.
func (s *Store) UpdateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	notes, err := toJSON(c.Notes)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	const query = `
		UPDATE contacts SET
			status = $2, priority = $3, assigned_to = $4::uuid, notes = $5,
			responded_at = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		c.ID,
		c.Status,
		c.Priority,
		c.AssignedToID,
		notes,
		c.RespondedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("update contact", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetContactByID(ctx, c.ID)
}

func (s *Store) DeleteContact(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.pool, "contacts", id)
}
