package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Name           string     `gorm:"size:64;not null" json:"name"`
	Email          string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash   string     `gorm:"size:100;not null" json:"-"`
	Role           string     `gorm:"size:16;not null;default:user" json:"role"`
	ResetTokenHash string     `gorm:"size:64;index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	JoinedAt       time.Time  `gorm:"not null" json:"joinedAt"`
	UpdatedAt      time.Time  `json:"-"`
}

func (User) TableName() string { return "users" }

// Public is the projection handed to clients and kept in the session.
func (u *User) Public() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// SessionUser never carries credential material.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error
	// ConsumeResetToken stores passwordHash on the user holding tokenHash and
	// clears the token, unless the token expired at or before now. It reports
	// false when no user was updated.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)
	SetRole(ctx context.Context, id, role string) error
}
