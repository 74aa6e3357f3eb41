package main

import (
	"context"
	"flag"
	"os"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/radieske/racing-tips-platform/internal/shared/config"
	"github.com/radieske/racing-tips-platform/internal/shared/db"
	"github.com/radieske/racing-tips-platform/internal/shared/logger"
)

// raceCard é o formato YAML do card do festival
type raceCard struct {
	Races []struct {
		ID     string   `yaml:"id"`
		Name   string   `yaml:"name"`
		Date   string   `yaml:"date"`   // "2026-03-10"
		LockAt int64    `yaml:"lockAt"` // epoch ms da largada
		Horses []string `yaml:"horses"`
	} `yaml:"races"`
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS races (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		date     TEXT NOT NULL,
		lock_at  BIGINT NOT NULL DEFAULT 0,
		horses   TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS tips (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		user_email TEXT NOT NULL DEFAULT '',
		race_id    TEXT NOT NULL REFERENCES races(id),
		horse_name TEXT NOT NULL,
		lock_at    BIGINT NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tips_user ON tips(user_id)`,
	`CREATE TABLE IF NOT EXISTS results (
		race_id           TEXT PRIMARY KEY REFERENCES races(id),
		winner_horse      TEXT NOT NULL DEFAULT '',
		places_paid       INT NOT NULL,
		each_way_fraction DOUBLE PRECISION NOT NULL,
		placements        JSONB NOT NULL DEFAULT '[]',
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS result_audit (
		id          UUID PRIMARY KEY,
		race_id     TEXT NOT NULL,
		placements  JSONB NOT NULL DEFAULT '[]',
		declared_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func main() {
	file := flag.String("card", "racecard.yaml", "arquivo YAML do card")
	flag.Parse()

	cfg := config.Load()
	log, _ := logger.New("race-seeder", cfg.Env)
	defer log.Sync()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("read card", zap.Error(err))
	}

	var card raceCard
	if err := yaml.Unmarshal(raw, &card); err != nil {
		log.Fatal("parse card", zap.Error(err))
	}
	if len(card.Races) == 0 {
		log.Fatal("card vazio", zap.String("file", *file))
	}

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()
	for _, stmt := range schema {
		if _, err := pg.ExecContext(ctx, stmt); err != nil {
			log.Fatal("schema", zap.Error(err))
		}
	}

	for _, r := range card.Races {
		_, err := pg.ExecContext(ctx, `
			INSERT INTO races (id, name, date, lock_at, horses)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (id) DO UPDATE SET
			  name    = EXCLUDED.name,
			  date    = EXCLUDED.date,
			  lock_at = EXCLUDED.lock_at,
			  horses  = EXCLUDED.horses`,
			r.ID, r.Name, r.Date, r.LockAt, pq.StringArray(r.Horses),
		)
		if err != nil {
			log.Fatal("upsert race", zap.String("race", r.ID), zap.Error(err))
		}
	}

	log.Info("card seeded", zap.Int("races", len(card.Races)))
}
