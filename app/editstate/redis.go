package editstate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

var _ review.EditSessions = (*RedisStore)(nil)

// RedisStore keeps edit sessions in Redis so they survive restarts.
// One key per operator, expiring after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(operatorID int64) string {
	return fmt.Sprintf("editsession:%d", operatorID)
}

func (s *RedisStore) SetAwaiting(ctx context.Context, operatorID, reviewID int64) error {
	err := s.client.Set(ctx, sessionKey(operatorID), reviewID, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set edit session: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, operatorID int64) (int64, bool, error) {
	val, err := s.client.GetDel(ctx, sessionKey(operatorID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to pop edit session: %w", err)
	}

	reviewID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt edit session value %q: %w", val, err)
	}

	return reviewID, true, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
