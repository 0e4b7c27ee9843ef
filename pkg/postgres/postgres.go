package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/modbot/remindersvc/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id VARCHAR(128) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			guild_id VARCHAR(64) DEFAULT '',
			channel_id VARCHAR(64) DEFAULT '',
			text VARCHAR(400) NOT NULL,
			due TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
			recurring VARCHAR(16) DEFAULT '',
			status VARCHAR(16) NOT NULL DEFAULT 'active',
			undelivered BOOLEAN NOT NULL DEFAULT FALSE,
			failed_ticks INTEGER NOT NULL DEFAULT 0,
			note TEXT DEFAULT '',
			completed_at TIMESTAMPTZ,
			last_delivered_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS user_timezones (
			user_id VARCHAR(64) PRIMARY KEY,
			timezone VARCHAR(64) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS guild_configs (
			guild_id VARCHAR(64) PRIMARY KEY,
			target_channel VARCHAR(64) DEFAULT '',
			ping_role VARCHAR(64) DEFAULT '',
			voice_channel VARCHAR(64) DEFAULT '',
			speaker VARCHAR(64) DEFAULT '',
			timezones JSONB NOT NULL DEFAULT '[]',
			channels JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(due)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_status_due ON reminders(status, due)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
