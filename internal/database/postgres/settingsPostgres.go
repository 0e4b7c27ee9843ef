package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modbot/remindersvc/internal/entity"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetUserTimezone(ctx context.Context, userID string) (string, error) {
	var zone string
	query := `SELECT timezone FROM user_timezones WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&zone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get user timezone: %v", err)
	}
	return zone, nil
}

func (r *settingsRepository) SetUserTimezone(ctx context.Context, userID, zone string) error {
	query := `
		INSERT INTO user_timezones (user_id, timezone, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET timezone = $2, updated_at = $3
	`
	if _, err := r.db.ExecContext(ctx, query, userID, zone, time.Now()); err != nil {
		return fmt.Errorf("failed to set user timezone: %v", err)
	}
	return nil
}

func (r *settingsRepository) GetGuildConfig(ctx context.Context, guildID string) (*entity.GuildConfig, error) {
	query := `
		SELECT guild_id, target_channel, ping_role, voice_channel, speaker,
		       timezones, channels, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var cfg entity.GuildConfig
	var timezones, channels []byte
	err := r.db.QueryRowContext(ctx, query, guildID).Scan(
		&cfg.GuildID,
		&cfg.TargetChannel,
		&cfg.PingRole,
		&cfg.VoiceChannel,
		&cfg.Speaker,
		&timezones,
		&channels,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to get guild config: %v", err)
	}

	if err := json.Unmarshal(timezones, &cfg.Timezones); err != nil {
		return nil, fmt.Errorf("failed to decode guild timezones: %v", err)
	}
	if err := json.Unmarshal(channels, &cfg.Channels); err != nil {
		return nil, fmt.Errorf("failed to decode guild channels: %v", err)
	}
	return &cfg, nil
}

func (r *settingsRepository) UpsertGuildConfig(ctx context.Context, cfg *entity.GuildConfig) error {
	timezones, err := json.Marshal(cfg.Timezones)
	if err != nil {
		return fmt.Errorf("failed to encode guild timezones: %v", err)
	}
	channels, err := json.Marshal(cfg.Channels)
	if err != nil {
		return fmt.Errorf("failed to encode guild channels: %v", err)
	}

	query := `
		INSERT INTO guild_configs (
			guild_id, target_channel, ping_role, voice_channel, speaker,
			timezones, channels, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (guild_id) DO UPDATE SET
			target_channel = $2, ping_role = $3, voice_channel = $4,
			speaker = $5, timezones = $6, channels = $7, updated_at = $8
	`
	if _, err := r.db.ExecContext(ctx, query,
		cfg.GuildID,
		cfg.TargetChannel,
		cfg.PingRole,
		cfg.VoiceChannel,
		cfg.Speaker,
		timezones,
		channels,
		time.Now(),
	); err != nil {
		return fmt.Errorf("failed to upsert guild config: %v", err)
	}
	return nil
}
