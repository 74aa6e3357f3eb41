package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/leaderboard-worker/cache"
	"github.com/radieske/racing-tips-platform/internal/leaderboard-worker/pubsub"
	"github.com/radieske/racing-tips-platform/internal/leaderboard-worker/recompute"
	"github.com/radieske/racing-tips-platform/internal/leaderboard-worker/repository"
	sharedcache "github.com/radieske/racing-tips-platform/internal/shared/cache"
	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	skafka "github.com/radieske/racing-tips-platform/internal/shared/kafka"
	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

const consumerGroup = "leaderboard-worker"

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	loc, err := time.LoadLocation(cfg.Game.Timezone)
	if err != nil {
		log.Fatal("timezone", zap.Error(err))
	}

	// Cache Redis dos snapshots e broadcaster do Pub/Sub
	ttl := 10 * time.Minute
	rcache := cache.NewRedisCache(redisClient, ttl)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)
	repo := repository.NewPostgresRepo(pg)

	// Métricas Prometheus da recomputação
	triggers := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lb_worker_triggers_total", Help: "gatilhos por origem"}, []string{"source"})
	recomputes := prometheus.NewCounter(prometheus.CounterOpts{Name: "lb_worker_recomputes_total", Help: "recomputações completas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lb_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(triggers, recomputes, errorsBy)

	rc := &recompute.Recomputer{
		Log:    log,
		Loader: repo,
		Clock:  schedule.Clock{Location: loc, DaySwitchHour: cfg.Game.DaySwitchHour},
		Rules: settlement.Settings{
			StakeGBP:        cfg.Game.StakeGBP,
			PlacesPaid:      cfg.Game.PlacesPaid,
			EachWayFraction: cfg.Game.EachWayFraction,
		},
		Cache:     rcache,
		TickEvery: time.Minute,

		OnTrigger:   func(source string) { triggers.WithLabelValues(source).Inc() },
		OnRecompute: func() { recomputes.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após recomputar, envia cada snapshot para o WS via Redis Pub/Sub
		OnAfterRecompute: func(boards []leaderboard.Board) {
			for _, b := range boards {
				payload, _ := json.Marshal(b)

				ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				if err := broadcaster.Publish(ctx, cfg.RedisPubSubChannel, payload); err != nil {
					log.Warn("ws broadcast publish failed", zap.Error(err))
				}
				cancel()
			}
		},
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Cada tópico de domínio vira um gatilho de recomputação. O conteúdo da
	// mensagem não importa: a recomputação relê o estado inteiro do banco.
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	for _, topic := range []string{
		cfg.TopicTipPlaced,
		cfg.TopicResultDeclared,
		cfg.TopicResultsCleared,
		cfg.TopicProfileUpdated,
	} {
		reader := skafka.NewReader(brokers, topic, consumerGroup)
		defer reader.Close()
		go consumeTriggers(ctx, log, reader, topic, rc)
	}

	log.Info("leaderboard-worker started")
	if err := rc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("recomputer stopped with error", zap.Error(err))
	}
	log.Info("leaderboard-worker stopped")
}

// consumeTriggers drena um tópico e converte cada mensagem em gatilho
func consumeTriggers(ctx context.Context, log *zap.Logger, reader *kafka.Reader, topic string, rc *recompute.Recomputer) {
	for {
		if _, err := reader.ReadMessage(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("kafka read", zap.String("topic", topic), zap.Error(err))
			continue
		}
		rc.Trigger(topic)
	}
}
