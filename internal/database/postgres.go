package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/models"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for every model the API persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Institute{},
		&models.User{},
		&models.ActivityType{},
		&models.ActivityRecord{},
		&models.ActivityAssignment{},
		&models.Student{},
		&models.Faculty{},
		&models.Program{},
	)
}

// EnsureIndexes creates the partial unique indexes AutoMigrate cannot
// express. Activity type names are unique per scope: one namespace for
// primitives, one per institute.
func EnsureIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_activity_types_primitive_name
			ON activity_types (name) WHERE institute_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_activity_types_institute_name
			ON activity_types (name, institute_id) WHERE institute_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_programs_institute_name
			ON programs (name, institute_id)`,
	}

	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
