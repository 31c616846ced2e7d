package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    name TEXT NOT NULL,
	    email TEXT NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    role TEXT NOT NULL DEFAULT 'viewer',
	    avatar TEXT NOT NULL DEFAULT '',
	    bio TEXT NOT NULL DEFAULT '',
	    is_active BOOLEAN NOT NULL DEFAULT true,
	    last_login TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pages (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    title TEXT NOT NULL,
	    slug TEXT NOT NULL UNIQUE,
	    content TEXT NOT NULL DEFAULT '',
	    excerpt TEXT NOT NULL DEFAULT '',
	    template TEXT NOT NULL DEFAULT 'default',
	    status TEXT NOT NULL DEFAULT 'draft',
	    show_in_menu BOOLEAN NOT NULL DEFAULT false,
	    menu_order INTEGER NOT NULL DEFAULT 0,
	    featured_image TEXT NOT NULL DEFAULT '',
	    sections JSONB NOT NULL DEFAULT '[]',
	    seo JSONB NOT NULL DEFAULT '{}',
	    views INTEGER NOT NULL DEFAULT 0,
	    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
	    published_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS site_settings (
	    id BOOLEAN PRIMARY KEY DEFAULT true CHECK (id),
	    home_page_id UUID REFERENCES pages(id) ON DELETE SET NULL,
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`INSERT INTO site_settings (id) VALUES (true) ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS posts (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    title TEXT NOT NULL,
	    slug TEXT NOT NULL UNIQUE,
	    excerpt TEXT NOT NULL DEFAULT '',
	    content TEXT NOT NULL,
	    featured_image TEXT NOT NULL DEFAULT '',
	    category TEXT NOT NULL DEFAULT 'technology',
	    tags TEXT[] NOT NULL DEFAULT '{}',
	    status TEXT NOT NULL DEFAULT 'draft',
	    is_featured BOOLEAN NOT NULL DEFAULT false,
	    read_time INTEGER NOT NULL DEFAULT 1,
	    views INTEGER NOT NULL DEFAULT 0,
	    likes INTEGER NOT NULL DEFAULT 0,
	    seo JSONB NOT NULL DEFAULT '{}',
	    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
	    published_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS case_studies (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    title TEXT NOT NULL,
	    slug TEXT NOT NULL UNIQUE,
	    client TEXT NOT NULL,
	    industry TEXT NOT NULL DEFAULT 'technology',
	    summary TEXT NOT NULL DEFAULT '',
	    challenge TEXT NOT NULL DEFAULT '',
	    solution TEXT NOT NULL DEFAULT '',
	    results JSONB NOT NULL DEFAULT '[]',
	    technologies TEXT[] NOT NULL DEFAULT '{}',
	    images TEXT[] NOT NULL DEFAULT '{}',
	    featured_image TEXT NOT NULL DEFAULT '',
	    project_url TEXT NOT NULL DEFAULT '',
	    duration TEXT NOT NULL DEFAULT '',
	    testimonial JSONB NOT NULL DEFAULT '{}',
	    status TEXT NOT NULL DEFAULT 'draft',
	    is_featured BOOLEAN NOT NULL DEFAULT false,
	    views INTEGER NOT NULL DEFAULT 0,
	    seo JSONB NOT NULL DEFAULT '{}',
	    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
	    published_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS testimonials (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    name TEXT NOT NULL,
	    position TEXT NOT NULL DEFAULT '',
	    company TEXT NOT NULL DEFAULT '',
	    content TEXT NOT NULL,
	    rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	    avatar TEXT NOT NULL DEFAULT '',
	    project_type TEXT NOT NULL DEFAULT '',
	    status TEXT NOT NULL DEFAULT 'pending',
	    is_featured BOOLEAN NOT NULL DEFAULT false,
	    sort_order INTEGER NOT NULL DEFAULT 0,
	    case_study_id UUID REFERENCES case_studies(id) ON DELETE SET NULL,
	    created_by UUID REFERENCES users(id) ON DELETE SET NULL,
	    published_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    name TEXT NOT NULL,
	    slug TEXT NOT NULL UNIQUE,
	    position TEXT NOT NULL,
	    department TEXT NOT NULL,
	    bio TEXT NOT NULL DEFAULT '',
	    avatar TEXT NOT NULL DEFAULT '',
	    email TEXT NOT NULL DEFAULT '',
	    phone TEXT NOT NULL DEFAULT '',
	    social_links JSONB NOT NULL DEFAULT '{}',
	    skills TEXT[] NOT NULL DEFAULT '{}',
	    sort_order INTEGER NOT NULL DEFAULT 0,
	    is_active BOOLEAN NOT NULL DEFAULT true,
	    is_public BOOLEAN NOT NULL DEFAULT true,
	    joined_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    name TEXT NOT NULL,
	    email TEXT NOT NULL,
	    phone TEXT NOT NULL DEFAULT '',
	    company TEXT NOT NULL DEFAULT '',
	    subject TEXT NOT NULL DEFAULT '',
	    message TEXT NOT NULL,
	    service TEXT NOT NULL DEFAULT '',
	    budget TEXT NOT NULL DEFAULT '',
	    status TEXT NOT NULL DEFAULT 'new',
	    priority TEXT NOT NULL DEFAULT 'medium',
	    assigned_to UUID REFERENCES users(id) ON DELETE SET NULL,
	    notes JSONB NOT NULL DEFAULT '[]',
	    ip_address TEXT NOT NULL DEFAULT '',
	    user_agent TEXT NOT NULL DEFAULT '',
	    source TEXT NOT NULL DEFAULT 'website',
	    responded_at TIMESTAMPTZ,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS media (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    filename TEXT NOT NULL UNIQUE,
	    original_name TEXT NOT NULL,
	    mime_type TEXT NOT NULL,
	    size BIGINT NOT NULL,
	    category TEXT NOT NULL,
	    path TEXT NOT NULL,
	    url TEXT NOT NULL,
	    alt TEXT NOT NULL DEFAULT '',
	    caption TEXT NOT NULL DEFAULT '',
	    tags TEXT[] NOT NULL DEFAULT '{}',
	    uploaded_by UUID REFERENCES users(id) ON DELETE SET NULL,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_status_published_idx ON posts (status, published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_category_idx ON posts (category)`,
	`CREATE INDEX IF NOT EXISTS posts_tags_idx ON posts USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS pages_status_idx ON pages (status)`,
	`CREATE INDEX IF NOT EXISTS case_studies_status_idx ON case_studies (status, industry)`,
	`CREATE INDEX IF NOT EXISTS testimonials_status_idx ON testimonials (status, rating)`,
	`CREATE INDEX IF NOT EXISTS team_members_visible_idx ON team_members (is_public, is_active, sort_order)`,
	`CREATE INDEX IF NOT EXISTS contacts_status_idx ON contacts (status, priority, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS media_category_idx ON media (category, created_at DESC)`,
}

// Migrate creates the tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
