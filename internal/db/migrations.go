package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The statements stay within the SQL shared by postgres and sqlite.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS kv_entries (
		"key" VARCHAR(128) PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(320) NOT NULL,
		password_hash TEXT NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		company_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
