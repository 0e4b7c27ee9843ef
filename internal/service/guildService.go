package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/modbot/remindersvc/internal/database/postgres"
	"github.com/modbot/remindersvc/internal/entity"
)

// GuildConfigCache is what the redis cache repository provides.
type GuildConfigCache interface {
	GetGuildConfig(ctx context.Context, guildID string) (*entity.GuildConfig, bool)
	SetGuildConfig(ctx context.Context, cfg *entity.GuildConfig)
	InvalidateGuildConfig(ctx context.Context, guildID string)
}

type guildService struct {
	repo  repository.SettingsRepository
	cache GuildConfigCache
}

func NewGuildService(repo repository.SettingsRepository, cache GuildConfigCache) GuildService {
	return &guildService{repo: repo, cache: cache}
}

func (s *guildService) GetConfig(ctx context.Context, guildID string) (*entity.GuildConfig, error) {
	if cfg, ok := s.cache.GetGuildConfig(ctx, guildID); ok {
		return cfg, nil
	}

	cfg, err := s.repo.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	s.cache.SetGuildConfig(ctx, cfg)
	return cfg, nil
}

func (s *guildService) SetConfig(ctx context.Context, cfg *entity.GuildConfig) error {
	if cfg.GuildID == "" {
		return entity.ErrInvalidInput
	}
	cfg.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertGuildConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to store guild config: %w", err)
	}
	// Write-through would leave a stale copy on a racing read; drop instead.
	s.cache.InvalidateGuildConfig(ctx, cfg.GuildID)
	logrus.Infof("Guild config updated for %s", cfg.GuildID)
	return nil
}

func (s *guildService) ResolveChannel(ctx context.Context, guildID, name string) (string, bool) {
	cfg, err := s.GetConfig(ctx, guildID)
	if err != nil {
		return "", false
	}
	id, ok := cfg.Channels[name]
	return id, ok && id != ""
}
