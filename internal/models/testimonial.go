package models

import "time"

type Testimonial struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Company     string     `json:"company"`
	Content     string     `json:"content"`
	Rating      int        `json:"rating"`
	Avatar      string     `json:"avatar"`
	ProjectType string     `json:"projectType"`
	Status      Status     `json:"status"`
	IsFeatured  bool       `json:"isFeatured"`
	Order       int        `json:"order"`
	CaseStudyID *string    `json:"caseStudy,omitempty"`
	CreatedByID string     `json:"-"`
	CreatedBy   *UserRef   `json:"createdBy,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TestimonialInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Position    string  `json:"position" validate:"max=100"`
	Company     string  `json:"company" validate:"max=100"`
	Content     string  `json:"content" validate:"required,min=10,max=1000"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Avatar      string  `json:"avatar" validate:"max=500"`
	ProjectType string  `json:"projectType" validate:"max=100"`
	Status      Status  `json:"status" validate:"required,oneof=pending published archived"`
	IsFeatured  bool    `json:"isFeatured"`
	Order       int     `json:"order" validate:"min=0"`
	CaseStudyID *string `json:"caseStudy" validate:"omitempty,uuid"`
}

func NewTestimonialInput() TestimonialInput {
	return TestimonialInput{Status: StatusPending}
}

func (t *Testimonial) Input() TestimonialInput {
	return TestimonialInput{
		Name:        t.Name,
		Position:    t.Position,
		Company:     t.Company,
		Content:     t.Content,
		Rating:      t.Rating,
		Avatar:      t.Avatar,
		ProjectType: t.ProjectType,
		Status:      t.Status,
		IsFeatured:  t.IsFeatured,
		Order:       t.Order,
		CaseStudyID: t.CaseStudyID,
	}
}

func (in TestimonialInput) Apply(t *Testimonial) {
	t.Name = in.Name
	t.Position = in.Position
	t.Company = in.Company
	t.Content = in.Content
	t.Rating = in.Rating
	t.Avatar = in.Avatar
	t.ProjectType = in.ProjectType
	t.Status = in.Status
	t.IsFeatured = in.IsFeatured
	t.Order = in.Order
	t.CaseStudyID = in.CaseStudyID
	if t.CaseStudyID != nil && *t.CaseStudyID == "" {
		t.CaseStudyID = nil
	}
}

func (t *Testimonial) BeforeSave(prev *Testimonial, now time.Time) {
	t.PublishedAt = stampPublished(t.Status, t.PublishedAt, now)
	if prev == nil || t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
