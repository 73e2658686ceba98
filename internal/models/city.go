package models

// City is reference data; cafes point at it by code.
type City struct {
	Code  string `gorm:"primaryKey;type:text" json:"code" yaml:"code"`
	Name  string `gorm:"not null" json:"name" yaml:"name"`
	State string `gorm:"type:varchar(2);not null" json:"state" yaml:"state"`
}

// TableName returns the database table name for City.
func (City) TableName() string {
	return "cities"
}
