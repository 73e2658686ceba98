package database

import "cafehub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.City{},
		&models.User{},
		&models.Cafe{},
		&models.Like{},
	}
}
