package models

import "time"

type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        Status     `json:"status"`
	IsFeatured    bool       `json:"isFeatured"`
	ReadTime      int        `json:"readTime"`
	Views         int        `json:"views"`
	Likes         int        `json:"likes"`
	SEO           SEO        `json:"seo"`
	AuthorID      string     `json:"-"`
	Author        *UserRef   `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PostInput holds the client-writable fields of a post.
type PostInput struct {
	Title         string   `json:"title" validate:"required,min=3,max=200,sluggable"`
	Excerpt       string   `json:"excerpt" validate:"max=500"`
	Content       string   `json:"content" validate:"required"`
	FeaturedImage string   `json:"featuredImage" validate:"max=500"`
	Category      string   `json:"category" validate:"required,oneof=technology business design development marketing news tutorial"`
	Tags          []string `json:"tags" validate:"max=20,dive,min=1,max=30"`
	Status        Status   `json:"status" validate:"required,oneof=draft published archived"`
	IsFeatured    bool     `json:"isFeatured"`
	SEO           SEO      `json:"seo"`
}

// NewPostInput returns the defaults applied to a created post.
func NewPostInput() PostInput {
	return PostInput{Category: "technology", Status: StatusDraft}
}

// Input returns the editable fields of p, used as the base of a partial update.
func (p *Post) Input() PostInput {
	return PostInput{
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Category:      p.Category,
		Tags:          cloneStrings(p.Tags),
		Status:        p.Status,
		IsFeatured:    p.IsFeatured,
		SEO:           p.SEO,
	}
}

func (in PostInput) Apply(p *Post) {
	p.Title = in.Title
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.FeaturedImage = in.FeaturedImage
	p.Category = in.Category
	p.Tags = cloneStrings(in.Tags)
	p.Status = in.Status
	p.IsFeatured = in.IsFeatured
	p.SEO = in.SEO
}

// BeforeSave derives the slug and read time and stamps timestamps. prev is
// the stored version of the post, nil when creating.
func (p *Post) BeforeSave(prev *Post, now time.Time) {
	var prevTitle *string
	if prev != nil {
		prevTitle = &prev.Title
	}
	p.Slug = deriveSlug(p.Slug, p.Title, prevTitle)
	p.ReadTime = ReadTime(p.Content)
	p.PublishedAt = stampPublished(p.Status, p.PublishedAt, now)
	if prev == nil || p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
