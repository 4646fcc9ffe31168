package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

// stateTTL lets abandoned conversations expire.
const stateTTL = 24 * time.Hour

// RedisManager keeps conversation state in Redis so it survives restarts.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("calorie-tracker:chat:%d:state", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("calorie-tracker:chat:%d:temp", userID)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.client.Set(ctx, stateKey(userID), state, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save chat state", "chat_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	state, err := m.client.Get(ctx, stateKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read chat state", "chat_id", userID, "error", err)
		}
		return None
	}
	return state
}

// SetTempData stores one field of the chat's temp hash and refreshes its TTL.
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Failed to save chat data", "chat_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	value, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	m.client.Del(ctx, tempKey(userID))
}
