package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"meetly/core/config"
	"meetly/core/constants"
	"meetly/core/logger"
)

// Cache wraps the redis client for the few cross-cutting concerns the app
// needs: OAuth state handshakes, logged-out token blacklisting and the
// meeting-change channel readers subscribe to for cache refresh.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return &Cache{client: client}, nil
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) SetOAuthState(ctx context.Context, state string, userID string) error {
	return c.client.Set(ctx, constants.RedisKeyOAuthState+state, userID, constants.OAuthStateTTL).Err()
}

// ConsumeOAuthState returns the user bound to a state value and deletes it,
// so each state is single-use.
func (c *Cache) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	key := constants.RedisKeyOAuthState + state
	userID, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("ConsumeOAuthState:DelFailed", "error", err)
	}
	return userID, nil
}

func (c *Cache) BlacklistToken(ctx context.Context, token string) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", constants.TokenBlacklistTTL).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PublishMeetingsChanged tells subscribed readers that a host's meeting set
// changed. Best effort: slot correctness never depends on this signal, it
// only lets clients refetch sooner.
func (c *Cache) PublishMeetingsChanged(ctx context.Context, userID string) {
	channel := constants.RedisChannelMeetingsPref + userID
	if err := c.client.Publish(ctx, channel, "changed").Err(); err != nil {
		logger.Warn("PublishMeetingsChanged:Error", "user_id", userID, "error", err)
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}
