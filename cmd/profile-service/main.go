package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	phttp "github.com/radieske/racing-tips-platform/internal/profile-service/http"
	kpub "github.com/radieske/racing-tips-platform/internal/profile-service/producer"
	"github.com/radieske/racing-tips-platform/internal/profile-service/repo"
	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	skafka "github.com/radieske/racing-tips-platform/internal/shared/kafka"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
	"github.com/radieske/racing-tips-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic profile_updated)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicProfileUpdated)
	defer writer.Close()

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	// HTTP público
	api := phttp.NewServer(log, repo.NewPostgres(pg), kpub.NewKafkaPublisher(writer))
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("profile-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
