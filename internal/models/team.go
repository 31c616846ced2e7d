package models

import "time"

type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Twitter  string `json:"twitter,omitempty" validate:"omitempty,url"`
	GitHub   string `json:"github,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

// TeamMember is a public profile. A member is visible to the public only
// while both IsPublic and IsActive are set.
type TeamMember struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Position    string      `json:"position"`
	Department  string      `json:"department"`
	Bio         string      `json:"bio"`
	Avatar      string      `json:"avatar"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Skills      []string    `json:"skills"`
	Order       int         `json:"order"`
	IsActive    bool        `json:"isActive"`
	IsPublic    bool        `json:"isPublic"`
	JoinedAt    *time.Time  `json:"joinedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type TeamMemberInput struct {
	Name        string      `json:"name" validate:"required,min=2,max=100,sluggable"`
	Position    string      `json:"position" validate:"required,max=100"`
	Department  string      `json:"department" validate:"required,oneof=leadership engineering design marketing sales operations"`
	Bio         string      `json:"bio" validate:"max=1000"`
	Avatar      string      `json:"avatar" validate:"max=500"`
	Email       string      `json:"email" validate:"omitempty,email"`
	Phone       string      `json:"phone" validate:"max=30"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Skills      []string    `json:"skills" validate:"max=30,dive,min=1,max=50"`
	Order       int         `json:"order" validate:"min=0"`
	IsActive    bool        `json:"isActive"`
	IsPublic    bool        `json:"isPublic"`
	JoinedAt    *time.Time  `json:"joinedAt"`
}

func NewTeamMemberInput() TeamMemberInput {
	return TeamMemberInput{Department: "engineering", IsActive: true, IsPublic: true}
}

func (m *TeamMember) Input() TeamMemberInput {
	return TeamMemberInput{
		Name:        m.Name,
		Position:    m.Position,
		Department:  m.Department,
		Bio:         m.Bio,
		Avatar:      m.Avatar,
		Email:       m.Email,
		Phone:       m.Phone,
		SocialLinks: m.SocialLinks,
		Skills:      cloneStrings(m.Skills),
		Order:       m.Order,
		IsActive:    m.IsActive,
		IsPublic:    m.IsPublic,
		JoinedAt:    m.JoinedAt,
	}
}

func (in TeamMemberInput) Apply(m *TeamMember) {
	m.Name = in.Name
	m.Position = in.Position
	m.Department = in.Department
	m.Bio = in.Bio
	m.Avatar = in.Avatar
	m.Email = in.Email
	m.Phone = in.Phone
	m.SocialLinks = in.SocialLinks
	m.Skills = cloneStrings(in.Skills)
	m.Order = in.Order
	m.IsActive = in.IsActive
	m.IsPublic = in.IsPublic
	m.JoinedAt = in.JoinedAt
}

// Visible reports whether the member may be shown to the public.
func (m *TeamMember) Visible() bool {
	return m.IsPublic && m.IsActive
}

func (m *TeamMember) BeforeSave(prev *TeamMember, now time.Time) {
	var prevName *string
	if prev != nil {
		prevName = &prev.Name
	}
	m.Slug = deriveSlug(m.Slug, m.Name, prevName)
	if prev == nil || m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
