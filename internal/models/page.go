package models

import "time"

// Section is one building block of a page body.
type Section struct {
	Type    string         `json:"type" validate:"required,oneof=hero text features gallery cta testimonials team custom"`
	Title   string         `json:"title,omitempty" validate:"max=200"`
	Content string         `json:"content,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type Page struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Template      string     `json:"template"`
	Status        Status     `json:"status"`
	IsHomePage    bool       `json:"isHomePage"`
	ShowInMenu    bool       `json:"showInMenu"`
	MenuOrder     int        `json:"menuOrder"`
	FeaturedImage string     `json:"featuredImage"`
	Sections      []Section  `json:"sections"`
	SEO           SEO        `json:"seo"`
	Views         int        `json:"views"`
	AuthorID      string     `json:"-"`
	Author        *UserRef   `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type PageInput struct {
	Title         string    `json:"title" validate:"required,min=3,max=200,sluggable"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt" validate:"max=500"`
	Template      string    `json:"template" validate:"required,oneof=default landing about services contact"`
	Status        Status    `json:"status" validate:"required,oneof=draft published archived"`
	IsHomePage    bool      `json:"isHomePage"`
	ShowInMenu    bool      `json:"showInMenu"`
	MenuOrder     int       `json:"menuOrder" validate:"min=0"`
	FeaturedImage string    `json:"featuredImage" validate:"max=500"`
	Sections      []Section `json:"sections" validate:"max=50,dive"`
	SEO           SEO       `json:"seo"`
}

func NewPageInput() PageInput {
	return PageInput{Template: "default", Status: StatusDraft}
}

func (p *Page) Input() PageInput {
	sections := make([]Section, len(p.Sections))
	copy(sections, p.Sections)
	return PageInput{
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		Template:      p.Template,
		Status:        p.Status,
		IsHomePage:    p.IsHomePage,
		ShowInMenu:    p.ShowInMenu,
		MenuOrder:     p.MenuOrder,
		FeaturedImage: p.FeaturedImage,
		Sections:      sections,
		SEO:           p.SEO,
	}
}

func (in PageInput) Apply(p *Page) {
	p.Title = in.Title
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.Template = in.Template
	p.Status = in.Status
	p.IsHomePage = in.IsHomePage
	p.ShowInMenu = in.ShowInMenu
	p.MenuOrder = in.MenuOrder
	p.FeaturedImage = in.FeaturedImage
	p.Sections = in.Sections
	if p.Sections == nil {
		p.Sections = []Section{}
	}
	p.SEO = in.SEO
}

func (p *Page) BeforeSave(prev *Page, now time.Time) {
	var prevTitle *string
	if prev != nil {
		prevTitle = &prev.Title
	}
	p.Slug = deriveSlug(p.Slug, p.Title, prevTitle)
	p.PublishedAt = stampPublished(p.Status, p.PublishedAt, now)
	if prev == nil || p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// SiteSettings is the single settings record of the site. It owns the
// reference to the home page so that at most one page can be the home page.
type SiteSettings struct {
	HomePageID *string   `json:"homePageId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
