package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Quiz{},
		&Question{},
		&Option{},
	)
}
