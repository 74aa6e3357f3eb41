package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// do leaderboard-worker e repassa cada snapshot aos clientes do Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para leaderboard.Board
// - Chama hub.Broadcast para o escopo correspondente
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var board leaderboard.Board
				if err := json.Unmarshal([]byte(msg.Payload), &board); err != nil {
					log.Warn("ws subscriber unmarshal", zap.Error(err))
					continue
				}
				hub.Broadcast(board) // envia o snapshot aos inscritos no escopo
			}
		}
	}()
}
