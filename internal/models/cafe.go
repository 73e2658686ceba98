package models

import (
	"fmt"
	"time"
)

// DefaultCafeImage is stored when a cafe is saved without a photo.
const DefaultCafeImage = "/static/images/default-store.png"

// Cafe is a listing in the directory.
type Cafe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null;default:''" json:"description"`
	URL         string    `gorm:"column:url;not null;default:''" json:"url"`
	Address     string    `gorm:"not null" json:"address"`
	CityCode    string    `gorm:"not null;index" json:"city_code"`
	ImageURL    string    `gorm:"not null;default:'/static/images/default-store.png'" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	City *City `gorm:"foreignKey:CityCode;references:Code" json:"city,omitempty"`
}

// TableName pins the table to "cafes"; GORM's inflector would pick "caves".
func (Cafe) TableName() string {
	return "cafes"
}

// CityState returns "City Name, ST" for display, or the bare code when the
// city was not loaded.
func (c *Cafe) CityState() string {
	if c.City == nil {
		return c.CityCode
	}
	return fmt.Sprintf("%s, %s", c.City.Name, c.City.State)
}

// HasDefaultImage reports whether the cafe still uses the placeholder photo.
func (c *Cafe) HasDefaultImage() bool {
	return c.ImageURL == "" || c.ImageURL == DefaultCafeImage
}
