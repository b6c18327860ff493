package outbox

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/withu0/pishatto-engine/internal/config"
)

type RankingCacheI interface {
	Invalidate(ctx context.Context, region string) error
	Close() error
}

// RankingCache drops cached leaderboard entries when settlements change cast
// earnings. The ranking reader rebuilds the entry on its next request.
type RankingCache struct {
	client *redis.Client
}

func NewRankingCache(cfg *config.Config) (*RankingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RankingCache{client: client}, nil
}

func (c *RankingCache) Invalidate(ctx context.Context, region string) error {
	return c.client.Del(ctx, "ranking:"+region).Err()
}

func (c *RankingCache) Close() error {
	return c.client.Close()
}
