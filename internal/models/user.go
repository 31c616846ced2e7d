package models

import "time"

// Role controls which mutating endpoints a user may call.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
	RoleViewer Role = "viewer"
)

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Avatar       string     `json:"avatar"`
	Bio          string     `json:"bio"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Ref returns the populated form of the user.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin editor author viewer"`
}

type ProfileInput struct {
	Name   string `json:"name" validate:"required,min=2,max=50"`
	Avatar string `json:"avatar" validate:"max=500"`
	Bio    string `json:"bio" validate:"max=500"`
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// UserUpdate is the admin view of a user's editable fields.
type UserUpdate struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Role     Role   `json:"role" validate:"required,oneof=admin editor author viewer"`
	IsActive bool   `json:"isActive"`
	Avatar   string `json:"avatar" validate:"max=500"`
	Bio      string `json:"bio" validate:"max=500"`
}

func (u *User) Update() UserUpdate {
	return UserUpdate{Name: u.Name, Role: u.Role, IsActive: u.IsActive, Avatar: u.Avatar, Bio: u.Bio}
}

func (in UserUpdate) Apply(u *User) {
	u.Name = in.Name
	u.Role = in.Role
	u.IsActive = in.IsActive
	u.Avatar = in.Avatar
	u.Bio = in.Bio
}
