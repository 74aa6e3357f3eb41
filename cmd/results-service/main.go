package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/results-service/draft"
	rhttp "github.com/radieske/racing-tips-platform/internal/results-service/http"
	kpub "github.com/radieske/racing-tips-platform/internal/results-service/producer"
	"github.com/radieske/racing-tips-platform/internal/results-service/repo"
	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	skafka "github.com/radieske/racing-tips-platform/internal/shared/kafka"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
	"github.com/radieske/racing-tips-platform/internal/shared/metrics"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
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

	// Kafka writers (result_declared / results_cleared)
	declared := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultDeclared)
	defer declared.Close()
	cleared := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultsCleared)
	defer cleared.Close()

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	// HTTP admin
	api := &rhttp.API{
		Log:  log,
		Repo: repo.NewPostgres(pg),
		Validator: draft.Validator{Defaults: settlement.Settings{
			StakeGBP:        cfg.Game.StakeGBP,
			PlacesPaid:      cfg.Game.PlacesPaid,
			EachWayFraction: cfg.Game.EachWayFraction,
		}},
		Publ: kpub.NewKafkaPublisher(declared, cleared),
	}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("results-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
