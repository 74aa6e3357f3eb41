package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	lbcache "github.com/radieske/racing-tips-platform/internal/leaderboard-service/cache"
	lhttp "github.com/radieske/racing-tips-platform/internal/leaderboard-service/http"
	"github.com/radieske/racing-tips-platform/internal/leaderboard-service/repo"
	"github.com/radieske/racing-tips-platform/internal/leaderboard-service/ws"
	sharedcache "github.com/radieske/racing-tips-platform/internal/shared/cache"
	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
	"github.com/radieske/racing-tips-platform/internal/shared/metrics"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	// conecta com cache Redis
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	loc, err := time.LoadLocation(cfg.Game.Timezone)
	if err != nil {
		log.Fatal("timezone", zap.Error(err))
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// WS hub alimentado pelo Pub/Sub do worker
	hub := ws.NewHub(func(r *http.Request) bool { return true }) // POC: origem liberada
	ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisPubSubChannel, hub)

	api := &lhttp.API{
		Log:      log,
		ReadRepo: &repo.ReadRepo{DB: pg},
		Cache:    lbcache.New(redisClient),
		Clock:    schedule.Clock{Location: loc, DaySwitchHour: cfg.Game.DaySwitchHour},
		Rules: settlement.Settings{
			StakeGBP:        cfg.Game.StakeGBP,
			PlacesPaid:      cfg.Game.PlacesPaid,
			EachWayFraction: cfg.Game.EachWayFraction,
		},
	}

	root := chi.NewRouter()
	root.Mount("/", api.Router())
	root.Get("/ws", hub.HandleWS)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: root,
	}

	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Info("leaderboard-service listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
	log.Info("leaderboard-service stopped")
}
