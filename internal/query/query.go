// Package query turns list request parameters into SQL filter, sort and
// pagination clauses.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params are the list parameters shared by every resource.
type Params struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	// Desc is nil when the request asked for no direction, leaving the
	// resource's default order in place.
	Desc *bool
}

// Order is a resource's default sort column and direction.
type Order struct {
	Column string
	Desc   bool
}

// ParseParams reads page, limit, search, sort and order from q. sort accepts
// "field" or "-field"; order=asc|desc overrides the direction.
func ParseParams(q url.Values) Params {
	p := Params{
		Page:   parsePositiveInt(q.Get("page"), 1),
		Limit:  parsePositiveInt(q.Get("limit"), DefaultLimit),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if p.Search == "" {
		p.Search = strings.TrimSpace(q.Get("q"))
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	// Keep the offset within int32 so it never overflows.
	if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}

	if sort := strings.TrimSpace(q.Get("sort")); sort != "" {
		desc := strings.HasPrefix(sort, "-")
		p.Desc = &desc
		p.Sort = strings.TrimPrefix(sort, "-")
	}
	switch strings.ToLower(q.Get("order")) {
	case "asc":
		p.Desc = new(bool)
	case "desc":
		desc := true
		p.Desc = &desc
	}
	return p
}

// Offset is the number of rows skipped before the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// ParseBool returns a pointer to the parsed flag, or nil when the parameter is
// absent or not a boolean.
func ParseBool(value string) *bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &b
}

// ParseInt returns a pointer to the parsed integer, or nil.
func ParseInt(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// Pagination is the page metadata returned with every list.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(p Params, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Stats are aggregate counts grouped by a named dimension, e.g.
// stats["byStatus"]["published"].
type Stats map[string]map[string]int

// Builder accumulates WHERE conditions with numbered placeholders.
type Builder struct {
	conds []string
	args  []any
}

func (b *Builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Where adds a raw condition. Use ? for each argument; they are renumbered.
func (b *Builder) Where(cond string, args ...any) *Builder {
	for _, a := range args {
		cond = strings.Replace(cond, "?", b.arg(a), 1)
	}
	b.conds = append(b.conds, cond)
	return b
}

// Eq adds column = value unless value is empty.
func (b *Builder) Eq(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.Where(column+" = ?", value)
}

// Bool adds column = value when value is set.
func (b *Builder) Bool(column string, value *bool) *Builder {
	if value == nil {
		return b
	}
	return b.Where(column+" = ?", *value)
}

// Gte adds column >= value when value is set.
func (b *Builder) Gte(column string, value *int) *Builder {
	if value == nil {
		return b
	}
	return b.Where(column+" >= ?", *value)
}

// ArrayContains matches rows whose text[] column holds value, ignoring case.
func (b *Builder) ArrayContains(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.Where("EXISTS (SELECT 1 FROM unnest("+column+") v WHERE lower(v) = lower(?))", value)
}

// Search matches term as a case-insensitive substring of any of columns.
func (b *Builder) Search(term string, columns ...string) *Builder {
	if term == "" || len(columns) == 0 {
		return b
	}
	ph := b.arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + ph
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// Clause returns the WHERE clause, or an empty string without conditions.
func (b *Builder) Clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the collected arguments.
func (b *Builder) Args() []any {
	return b.args
}

// Limit appends LIMIT and OFFSET placeholders for p and returns the fragment
// together with the full argument list.
func (b *Builder) Limit(p Params) (string, []any) {
	args := append(append([]any{}, b.args...), p.Limit, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// OrderBy maps a client sort field onto a column using allowed. An empty or
// unknown field sorts by fallback, in fallback's direction unless the client
// asked for one without naming a field. idColumn breaks ties so pages are
// stable.
func OrderBy(p Params, allowed map[string]string, fallback Order, idColumn string) string {
	column, ok := allowed[p.Sort]
	desc := p.Desc != nil && *p.Desc
	switch {
	case !ok && p.Sort != "":
		column, desc = fallback.Column, fallback.Desc
	case !ok:
		column = fallback.Column
		if p.Desc == nil {
			desc = fallback.Desc
		}
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", " + idColumn + " " + dir
}
