package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes platform operators from regular firm users.
type UserType string

const (
	// UserTypePlatformAdmin bypasses firm assignment lookup and may act
	// across all firms.
	UserTypePlatformAdmin UserType = "platform_admin"
	// UserTypeStandard users only act through active firm assignments.
	UserTypeStandard UserType = "standard"
)

// User represents a platform user. Users are deactivated, never deleted.
type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	FullName   string    `json:"full_name"`
	UserType   UserType  `json:"user_type"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Locale     string    `json:"locale"`
	Timezone   string    `json:"timezone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsPlatformAdmin reports whether the user may act across all firms.
func (u *User) IsPlatformAdmin() bool {
	return u.UserType == UserTypePlatformAdmin
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	UserType   UserType  `json:"user_type"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Locale     string    `json:"locale"`
	Timezone   string    `json:"timezone"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		UserType:   u.UserType,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		Locale:     u.Locale,
		Timezone:   u.Timezone,
		CreatedAt:  u.CreatedAt,
	}
}
