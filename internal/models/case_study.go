package models

import "time"

type Result struct {
	Metric      string `json:"metric" validate:"required,max=100"`
	Value       string `json:"value" validate:"required,max=50"`
	Description string `json:"description,omitempty" validate:"max=300"`
}

type Quote struct {
	Quote    string `json:"quote,omitempty" validate:"max=1000"`
	Author   string `json:"author,omitempty" validate:"max=100"`
	Position string `json:"position,omitempty" validate:"max=100"`
}

type CaseStudy struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Client        string     `json:"client"`
	Industry      string     `json:"industry"`
	Summary       string     `json:"summary"`
	Challenge     string     `json:"challenge"`
	Solution      string     `json:"solution"`
	Results       []Result   `json:"results"`
	Technologies  []string   `json:"technologies"`
	Images        []string   `json:"images"`
	FeaturedImage string     `json:"featuredImage"`
	ProjectURL    string     `json:"projectUrl"`
	Duration      string     `json:"duration"`
	Testimonial   Quote      `json:"testimonial"`
	Status        Status     `json:"status"`
	IsFeatured    bool       `json:"isFeatured"`
	Views         int        `json:"views"`
	SEO           SEO        `json:"seo"`
	AuthorID      string     `json:"-"`
	Author        *UserRef   `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CaseStudyInput struct {
	Title         string   `json:"title" validate:"required,min=3,max=200,sluggable"`
	Client        string   `json:"client" validate:"required,max=100"`
	Industry      string   `json:"industry" validate:"required,oneof=technology healthcare finance education retail manufacturing other"`
	Summary       string   `json:"summary" validate:"max=500"`
	Challenge     string   `json:"challenge" validate:"required"`
	Solution      string   `json:"solution" validate:"required"`
	Results       []Result `json:"results" validate:"max=20,dive"`
	Technologies  []string `json:"technologies" validate:"max=30,dive,min=1,max=50"`
	Images        []string `json:"images" validate:"max=30,dive,max=500"`
	FeaturedImage string   `json:"featuredImage" validate:"max=500"`
	ProjectURL    string   `json:"projectUrl" validate:"omitempty,url"`
	Duration      string   `json:"duration" validate:"max=50"`
	Testimonial   Quote    `json:"testimonial"`
	Status        Status   `json:"status" validate:"required,oneof=draft published archived"`
	IsFeatured    bool     `json:"isFeatured"`
	SEO           SEO      `json:"seo"`
}

func NewCaseStudyInput() CaseStudyInput {
	return CaseStudyInput{Industry: "technology", Status: StatusDraft}
}

func (c *CaseStudy) Input() CaseStudyInput {
	results := make([]Result, len(c.Results))
	copy(results, c.Results)
	return CaseStudyInput{
		Title:         c.Title,
		Client:        c.Client,
		Industry:      c.Industry,
		Summary:       c.Summary,
		Challenge:     c.Challenge,
		Solution:      c.Solution,
		Results:       results,
		Technologies:  cloneStrings(c.Technologies),
		Images:        cloneStrings(c.Images),
		FeaturedImage: c.FeaturedImage,
		ProjectURL:    c.ProjectURL,
		Duration:      c.Duration,
		Testimonial:   c.Testimonial,
		Status:        c.Status,
		IsFeatured:    c.IsFeatured,
		SEO:           c.SEO,
	}
}

func (in CaseStudyInput) Apply(c *CaseStudy) {
	c.Title = in.Title
	c.Client = in.Client
	c.Industry = in.Industry
	c.Summary = in.Summary
	c.Challenge = in.Challenge
	c.Solution = in.Solution
	c.Results = in.Results
	if c.Results == nil {
		c.Results = []Result{}
	}
	c.Technologies = cloneStrings(in.Technologies)
	c.Images = cloneStrings(in.Images)
	c.FeaturedImage = in.FeaturedImage
	c.ProjectURL = in.ProjectURL
	c.Duration = in.Duration
	c.Testimonial = in.Testimonial
	c.Status = in.Status
	c.IsFeatured = in.IsFeatured
	c.SEO = in.SEO
}

func (c *CaseStudy) BeforeSave(prev *CaseStudy, now time.Time) {
	var prevTitle *string
	if prev != nil {
		prevTitle = &prev.Title
	}
	c.Slug = deriveSlug(c.Slug, c.Title, prevTitle)
	c.PublishedAt = stampPublished(c.Status, c.PublishedAt, now)
	if prev == nil || c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
