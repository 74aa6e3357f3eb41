package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
)

// Cache lê os snapshots gravados pelo leaderboard-worker
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyScope(scope string) string { return "leaderboard:" + scope }

// GetBoard busca o snapshot de um escopo; (false, nil) em cache miss
func (c *Cache) GetBoard(ctx context.Context, scope string) (leaderboard.Board, bool, error) {
	b, err := c.R.Get(ctx, keyScope(scope)).Bytes()
	if err == redis.Nil {
		return leaderboard.Board{}, false, nil
	}
	if err != nil {
		return leaderboard.Board{}, false, err
	}

	var board leaderboard.Board
	if err := json.Unmarshal(b, &board); err != nil {
		return leaderboard.Board{}, false, err
	}
	return board, true, nil
}
