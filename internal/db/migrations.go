package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS admin_sessions (
		id UUID PRIMARY KEY,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		user_id BIGINT NOT NULL DEFAULT 0,
		username VARCHAR(150) NOT NULL DEFAULT '',
		role VARCHAR(64) NOT NULL DEFAULT '',
		user_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'admin_sessions' AND column_name = 'role') THEN
			ALTER TABLE admin_sessions ADD COLUMN role VARCHAR(64) NOT NULL DEFAULT '';
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_admin_sessions_expires_at ON admin_sessions (expires_at);`,
	`CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions (user_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
