package recompute

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

// Loader carrega o estado completo de entrada de uma recomputação
type Loader interface {
	Races(ctx context.Context) ([]racing.Race, error)
	Tips(ctx context.Context) ([]racing.Tip, error)
	Results(ctx context.Context) (map[string]*racing.RaceResult, error)
	Profiles(ctx context.Context) (map[string]racing.Profile, error)
}

// BoardSink recebe cada snapshot recomputado (cache, broadcast)
type BoardSink interface {
	SetBoard(ctx context.Context, b leaderboard.Board) error
}

// Recomputer reage a gatilhos (palpite, resultado, perfil, tick de relógio)
// recomputando os dois escopos do ranking do zero. Gatilhos em rajada
// coalescem num único passe: a recomputação é idempotente, então perder a
// "causa" de um gatilho não perde informação.
type Recomputer struct {
	Log    *zap.Logger
	Loader Loader
	Clock  schedule.Clock
	Rules  settlement.Settings
	Cache  BoardSink

	TickEvery time.Duration // reavaliação periódica da virada de dia

	OnTrigger        func(source string)              // métricas
	OnRecompute      func()                           // métricas
	OnError          func(stage string)               // métricas por fase
	OnAfterRecompute func(boards []leaderboard.Board) // broadcast WS
	Now              func() time.Time                 // injetável em teste

	initOnce sync.Once
	trigger  chan string
}

func (rc *Recomputer) init() {
	rc.initOnce.Do(func() {
		rc.trigger = make(chan string, 1)
	})
}

// Trigger agenda uma recomputação. Non-blocking: se já existe uma pendente,
// o gatilho coalesce nela.
func (rc *Recomputer) Trigger(source string) {
	rc.init()
	if rc.OnTrigger != nil {
		rc.OnTrigger(source)
	}
	select {
	case rc.trigger <- source:
	default:
	}
}

// Run roda o loop de recomputação até o contexto encerrar.
func (rc *Recomputer) Run(ctx context.Context) error {
	rc.init()

	tickEvery := rc.TickEvery
	if tickEvery <= 0 {
		tickEvery = time.Minute
	}
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	// passe inicial pra aquecer o cache
	rc.recomputeOnce(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// o dia ativo depende só do relógio; sem tick ele nunca viraria
			rc.recomputeOnce(ctx, "tick")
		case source := <-rc.trigger:
			rc.recomputeOnce(ctx, source)
		}
	}
}

func (rc *Recomputer) recomputeOnce(ctx context.Context, source string) {
	now := time.Now()
	if rc.Now != nil {
		now = rc.Now()
	}

	races, err := rc.Loader.Races(ctx)
	if err != nil {
		rc.fail("load_races", err)
		return
	}
	tips, err := rc.Loader.Tips(ctx)
	if err != nil {
		rc.fail("load_tips", err)
		return
	}
	results, err := rc.Loader.Results(ctx)
	if err != nil {
		rc.fail("load_results", err)
		return
	}
	profiles, err := rc.Loader.Profiles(ctx)
	if err != nil {
		rc.fail("load_profiles", err)
		return
	}

	racesByID := make(map[string]racing.Race, len(races))
	for _, r := range races {
		racesByID[r.ID] = r
	}

	activeDay := rc.Clock.ActiveDay(races, now)

	boards := []leaderboard.Board{
		{
			Scope:    leaderboard.ScopeNameAll,
			Rows:     leaderboard.Aggregate(tips, results, racesByID, profiles, leaderboard.ScopeAll(), rc.Rules),
			TsUnixMs: now.UnixMilli(),
		},
		{
			Scope:     leaderboard.ScopeNameDay,
			ActiveDay: activeDay,
			Rows:      leaderboard.Aggregate(tips, results, racesByID, profiles, leaderboard.ScopeDay(activeDay), rc.Rules),
			TsUnixMs:  now.UnixMilli(),
		},
	}

	for _, b := range boards {
		if err := rc.Cache.SetBoard(ctx, b); err != nil {
			rc.fail("cache", err)
			return
		}
	}

	if rc.OnRecompute != nil {
		rc.OnRecompute()
	}
	if rc.OnAfterRecompute != nil {
		rc.OnAfterRecompute(boards)
	}

	rc.Log.Debug("leaderboard recomputed",
		zap.String("source", source),
		zap.String("activeDay", activeDay),
		zap.Int("tips", len(tips)),
		zap.Int("results", len(results)),
	)
}

func (rc *Recomputer) fail(stage string, err error) {
	rc.Log.Warn("recompute failed", zap.String("stage", stage), zap.Error(err))
	if rc.OnError != nil {
		rc.OnError(stage)
	}
}
