package database

import (
	"gorm.io/gorm"

	"nostressia/internal/models"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.StressEntry{},
		&models.ModelRecord{},
		&models.TrainingJob{},
	}
}

func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
