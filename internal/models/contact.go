package models

import (
	"strings"
	"time"
)

const (
	ContactNew        = "new"
	ContactInProgress = "in-progress"
	ContactResolved   = "resolved"
	ContactClosed     = "closed"

	PriorityMedium = "medium"
)

type Note struct {
	Content   string    `json:"content"`
	Author    *UserRef  `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is an inquiry submitted through the public contact form.
type Contact struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Company      string     `json:"company"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Service      string     `json:"service"`
	Budget       string     `json:"budget"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedToID *string    `json:"-"`
	AssignedTo   *UserRef   `json:"assignedTo,omitempty"`
	Notes        []Note     `json:"notes"`
	IPAddress    string     `json:"ipAddress"`
	UserAgent    string     `json:"userAgent"`
	Source       string     `json:"source"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=30"`
	Company string `json:"company" validate:"max=100"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
	Service string `json:"service" validate:"omitempty,oneof=web-development mobile-development ui-ux-design consulting digital-marketing other"`
	Budget  string `json:"budget" validate:"omitempty,oneof=under-5k 5k-10k 10k-25k 25k-50k over-50k not-sure"`
}

// Normalize trims the free-text fields and lowercases the email.
func (in *ContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// NewContact builds a stored inquiry from a submission. Status and priority
// always start at their defaults regardless of what the client sent.
func NewContact(in ContactInput, ip, userAgent string, now time.Time) Contact {
	return Contact{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Subject:   in.Subject,
		Message:   in.Message,
		Service:   in.Service,
		Budget:    in.Budget,
		Status:    ContactNew,
		Priority:  PriorityMedium,
		Notes:     []Note{},
		IPAddress: ip,
		UserAgent: userAgent,
		Source:    "website",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContactReceipt is what the submitter gets back.
type ContactReceipt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Contact) Receipt() ContactReceipt {
	return ContactReceipt{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

// ContactUpdate is the triage form used by admins.
type ContactUpdate struct {
	Status     string  `json:"status" validate:"required,oneof=new in-progress resolved closed"`
	Priority   string  `json:"priority" validate:"required,oneof=low medium high urgent"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,uuid"`
	Note       string  `json:"note" validate:"max=2000"`
}

func (c *Contact) Update() ContactUpdate {
	return ContactUpdate{Status: c.Status, Priority: c.Priority, AssignedTo: c.AssignedToID}
}

// Apply copies the triage fields onto c, appends the note if any and stamps
// RespondedAt the first time the inquiry is resolved.
func (in ContactUpdate) Apply(c *Contact, author *UserRef, now time.Time) {
	c.Status = in.Status
	c.Priority = in.Priority
	c.AssignedToID = in.AssignedTo
	if c.AssignedToID != nil && *c.AssignedToID == "" {
		c.AssignedToID = nil
	}
	if note := strings.TrimSpace(in.Note); note != "" {
		c.Notes = append(c.Notes, Note{Content: note, Author: author, CreatedAt: now})
	}
	if c.Status == ContactResolved && c.RespondedAt == nil {
		t := now
		c.RespondedAt = &t
	}
	c.UpdatedAt = now
}
