package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	skafka "github.com/radieske/racing-tips-platform/internal/shared/kafka"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
	"github.com/radieske/racing-tips-platform/internal/shared/metrics"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
	thttp "github.com/radieske/racing-tips-platform/internal/tip-service/http"
	kpub "github.com/radieske/racing-tips-platform/internal/tip-service/producer"
	"github.com/radieske/racing-tips-platform/internal/tip-service/repo"
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

	// Kafka writer (topic tip_placed)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTipPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer)
	rules := settlement.Settings{
		StakeGBP:        cfg.Game.StakeGBP,
		PlacesPaid:      cfg.Game.PlacesPaid,
		EachWayFraction: cfg.Game.EachWayFraction,
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	// HTTP público
	api := thttp.NewServer(log, repository, rules, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("tip-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
