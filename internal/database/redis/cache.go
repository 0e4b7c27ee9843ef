package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/entity"
)

const (
	userTimezoneTTL = 12 * time.Hour
	guildConfigTTL  = time.Hour
)

// CacheRepository is the process-side cache in front of Postgres: user
// timezone preferences, guild configs, and TTL-bound interactive view state.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// --- user timezone cache ---

func (r *CacheRepository) GetUserTimezone(ctx context.Context, userID string) (string, bool) {
	zone, err := r.client.Get(ctx, "tz:"+userID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("timezone cache read failed: %v", err)
		}
		return "", false
	}
	return zone, true
}

func (r *CacheRepository) SetUserTimezone(ctx context.Context, userID, zone string) {
	if err := r.client.Set(ctx, "tz:"+userID, zone, userTimezoneTTL).Err(); err != nil {
		logrus.Warnf("timezone cache write failed: %v", err)
	}
}

func (r *CacheRepository) InvalidateUserTimezone(ctx context.Context, userID string) {
	if err := r.client.Del(ctx, "tz:"+userID).Err(); err != nil {
		logrus.Warnf("timezone cache invalidation failed: %v", err)
	}
}

// --- guild config cache ---

func (r *CacheRepository) GetGuildConfig(ctx context.Context, guildID string) (*entity.GuildConfig, bool) {
	data, err := r.client.Get(ctx, "guild:"+guildID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("guild config cache read failed: %v", err)
		}
		return nil, false
	}

	var cfg entity.GuildConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

func (r *CacheRepository) SetGuildConfig(ctx context.Context, cfg *entity.GuildConfig) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, "guild:"+cfg.GuildID, data, guildConfigTTL).Err(); err != nil {
		logrus.Warnf("guild config cache write failed: %v", err)
	}
}

func (r *CacheRepository) InvalidateGuildConfig(ctx context.Context, guildID string) {
	if err := r.client.Del(ctx, "guild:"+guildID).Err(); err != nil {
		logrus.Warnf("guild config cache invalidation failed: %v", err)
	}
}

// --- interactive view state ---

// SetViewState stores a view's state under its message id with the view's
// interaction timeout as the TTL. Key expiry is the timeout: once the key is
// gone, the view only answers with a disable.
func (r *CacheRepository) SetViewState(ctx context.Context, messageID string, state interface{}, timeout time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "view:"+messageID, data, timeout).Err()
}

// GetViewState loads view state into dest; the bool reports whether the view
// is still live.
func (r *CacheRepository) GetViewState(ctx context.Context, messageID string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, "view:"+messageID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (r *CacheRepository) DeleteViewState(ctx context.Context, messageID string) error {
	return r.client.Del(ctx, "view:"+messageID).Err()
}
