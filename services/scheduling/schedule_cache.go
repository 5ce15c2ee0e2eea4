package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"slotbook/models"
)

const (
	scheduleCacheKey = "schedule:config"
	scheduleCacheTTL = 5 * time.Minute
)

// ScheduleStore is the persistent side a CachedScheduleSource wraps.
type ScheduleStore interface {
	GetConfig(ctx context.Context) (models.ScheduleConfig, error)
	UpdateConfig(ctx context.Context, cfg models.ScheduleConfig) error
}

// CachedScheduleSource serves the schedule config from Redis with a short
// TTL, falling through to the store on a miss. A cache failure is never
// fatal; reads degrade to the store.
type CachedScheduleSource struct {
	Store  ScheduleStore
	Cache  *redis.Client
	Logger *zap.Logger
}

// NewCachedScheduleSource wires the cache over the persistent store.
func NewCachedScheduleSource(store ScheduleStore, cache *redis.Client, logger *zap.Logger) *CachedScheduleSource {
	return &CachedScheduleSource{Store: store, Cache: cache, Logger: logger}
}

// GetConfig returns the current schedule config, cached.
func (s *CachedScheduleSource) GetConfig(ctx context.Context) (models.ScheduleConfig, error) {
	if data, err := s.Cache.Get(ctx, scheduleCacheKey).Result(); err == nil {
		var cfg models.ScheduleConfig
		if err := json.Unmarshal([]byte(data), &cfg); err == nil {
			return cfg, nil
		}
		s.Logger.Warn("cached schedule config is corrupt, refetching")
	}

	cfg, err := s.Store.GetConfig(ctx)
	if err != nil {
		return models.ScheduleConfig{}, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := s.Cache.Set(ctx, scheduleCacheKey, data, scheduleCacheTTL).Err(); err != nil {
			s.Logger.Warn("failed to cache schedule config", zap.Error(err))
		}
	}
	return cfg, nil
}

// UpdateConfig persists a new schedule config and invalidates the cache so
// the next read sees it immediately.
func (s *CachedScheduleSource) UpdateConfig(ctx context.Context, cfg models.ScheduleConfig) error {
	if err := s.Store.UpdateConfig(ctx, cfg); err != nil {
		return err
	}
	if err := s.Cache.Del(ctx, scheduleCacheKey).Err(); err != nil {
		s.Logger.Warn("failed to invalidate schedule config cache", zap.Error(err))
	}
	return nil
}
