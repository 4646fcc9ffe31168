package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

const redisKey = "calorie-tracker:settings"

// RedisStore keeps settings in Redis. When a fallback store is given,
// misses are read from it and every save is written to both.
type RedisStore struct {
	client   *redis.Client
	fallback Store
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, fallback Store) *RedisStore {
	return &RedisStore{client: client, fallback: fallback}
}

func (s *RedisStore) Load(ctx context.Context) (Settings, error) {
	raw, err := s.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		if s.fallback == nil {
			return Defaults(), nil
		}
		v, err := s.fallback.Load(ctx)
		if err != nil {
			return Settings{}, err
		}
		if err := s.put(ctx, v); err != nil {
			logger.Warn("Failed to warm settings cache", "error", err)
		}
		return v, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings from Redis: %w", err)
	}

	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out.normalize(), nil
}

func (s *RedisStore) Save(ctx context.Context, v Settings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if s.fallback != nil {
		if err := s.fallback.Save(ctx, v); err != nil {
			return err
		}
	}
	return s.put(ctx, v)
}

func (s *RedisStore) put(ctx context.Context, v Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write settings to Redis: %w", err)
	}
	return nil
}
