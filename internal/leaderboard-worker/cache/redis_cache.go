package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
)

// RedisCache guarda o último snapshot recomputado de cada escopo.
// TTL generoso: o worker regrava a cada gatilho e a cada tick de minuto.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// Key gera a chave Redis do snapshot de um escopo
func Key(scope string) string { return "leaderboard:" + scope }

// SetBoard grava o snapshot de um escopo
func (r *RedisCache) SetBoard(ctx context.Context, b leaderboard.Board) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, Key(b.Scope), payload, r.TTL).Err()
}
