package models

// Like records that a user likes a cafe.
// The composite primary key allows at most one row per pair.
type Like struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CafeID uint `gorm:"primaryKey;autoIncrement:false;index" json:"cafe_id"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Cafe *Cafe `gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string {
	return "likes"
}
