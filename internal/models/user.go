// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// DefaultUserImage is stored when a user signs up without a photo.
const DefaultUserImage = "/static/images/default-pic.jpg"

// User represents a registered member of the directory.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null;default:''" json:"last_name"`
	Description    string    `gorm:"not null;default:''" json:"description"`
	ImageURL       string    `gorm:"not null;default:'/static/images/default-pic.jpg'" json:"image_url"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Admin          bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName returns "First Last", without a trailing space when there is no last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
