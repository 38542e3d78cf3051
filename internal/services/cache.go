package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService wraps redis with JSON marshaling. A nil client disables
// caching; every method becomes a no-op miss so callers never branch on
// whether redis is configured.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewCacheService(client *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
	}
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Get unmarshals the cached value into dest. Returns false on a miss or any
// cache error; cache failures degrade to upstream fetches, never hard errors.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache payload corrupt, treating as miss")
		return false
	}
	return true
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Cache key generators
func EventsCacheKey(league, season, week, cursor string) string {
	return fmt.Sprintf("events:%s:%s:%s:%s", league, season, week, cursor)
}

func AnalyticsCacheKey(playerID, propType string) string {
	return fmt.Sprintf("analytics:%s:%s", playerID, propType)
}

func TopPerformersCacheKey(league, propType, direction string, limit int) string {
	return fmt.Sprintf("top:%s:%s:%s:%d", league, propType, direction, limit)
}
