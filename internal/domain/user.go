package domain

import (
	"context"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	ProfileImage *string   `gorm:"size:191" json:"profileImage"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

type ProfileUpdate struct {
	Name     string
	Username string
	Image    *string // nil keeps the current image
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// UsernameTaken reports whether username belongs to a user other than excludeID.
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	UpdateProfile(ctx context.Context, id uint, p ProfileUpdate) (*User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error)
}
