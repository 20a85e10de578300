package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionTokenKey holds the opaque auth token string.
	SessionTokenKey = "session:token"

	// SessionUserKey holds the serialized user JSON blob.
	SessionUserKey = "session:user"
)

// SessionCache is the durable key-value storage behind the session store:
// two keys, written on login/signup/update, cleared on logout, read once at
// startup. Using an interface enables testing with mocks and potential
// future backends.
type SessionCache interface {
	// SaveSession writes both session keys.
	SaveSession(ctx context.Context, token, userJSON string) error

	// LoadSession reads both session keys. found is false when either key
	// is absent.
	LoadSession(ctx context.Context) (token, userJSON string, found bool, err error)

	// ClearSession removes both session keys. Clearing an already-empty
	// session is not an error.
	ClearSession(ctx context.Context) error
}

// RedisSessionCache implements SessionCache on Redis.
type RedisSessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache backed by Redis.
func NewSessionCache(client *redis.Client) SessionCache {
	return &RedisSessionCache{client: client}
}

// SaveSession writes token and user blob in one pipeline so consumers never
// observe a half-written session.
func (c *RedisSessionCache) SaveSession(ctx context.Context, token, userJSON string) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, SessionTokenKey, token, 0)
	pipe.Set(ctx, SessionUserKey, userJSON, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[SessionCache] SaveSession FAILED: err=%v", err)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) LoadSession(ctx context.Context) (string, string, bool, error) {
	token, err := c.client.Get(ctx, SessionTokenKey).Result()
	if err == redis.Nil {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("load session token: %w", err)
	}

	userJSON, err := c.client.Get(ctx, SessionUserKey).Result()
	if err == redis.Nil {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("load session user: %w", err)
	}

	return token, userJSON, true, nil
}

func (c *RedisSessionCache) ClearSession(ctx context.Context) error {
	if err := c.client.Del(ctx, SessionTokenKey, SessionUserKey).Err(); err != nil {
		log.Printf("[SessionCache] ClearSession FAILED: err=%v", err)
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
