package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

// Reader é o recorte de leitura do banco que a API precisa
type Reader interface {
	ListRaces(ctx context.Context) ([]racing.Race, error)
	ListTips(ctx context.Context) ([]racing.Tip, error)
	ResultsByRace(ctx context.Context) (map[string]*racing.RaceResult, error)
	ProfilesByUser(ctx context.Context) (map[string]racing.Profile, error)
}

// BoardCache entrega o último snapshot gravado pelo leaderboard-worker
type BoardCache interface {
	GetBoard(ctx context.Context, scope string) (leaderboard.Board, bool, error)
}

// API expõe os endpoints REST de leitura do jogo
// Preferência pelo cache (snapshot do worker); fallback recomputa do banco
type API struct {
	Log      *zap.Logger
	ReadRepo Reader
	Cache    BoardCache
	Clock    schedule.Clock
	Rules    settlement.Settings
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/leaderboard", a.getLeaderboard) // ?scope=day|all
	r.Get("/v1/races", a.listRaces)            // card completo
	r.Get("/v1/activeday", a.getActiveDay)     // dia ao vivo do card
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// getLeaderboard retorna o ranking de um escopo, preferencialmente do cache
func (a *API) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = leaderboard.ScopeNameAll
	}
	if scope != leaderboard.ScopeNameAll && scope != leaderboard.ScopeNameDay {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scope must be day or all"})
		return
	}

	board, ok, err := a.Cache.GetBoard(r.Context(), scope)
	if err != nil {
		// cache fora do ar degrada tudo pra recomputação no banco
		a.Log.Warn("leaderboard cache read", zap.String("scope", scope), zap.Error(err))
	}
	if ok {
		writeJSON(w, http.StatusOK, board)
		return
	}

	// cache frio (worker ainda não rodou): recomputa direto do banco;
	// o worker regrava o cache no próximo gatilho ou tick
	board, err = a.recompute(r, scope)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (a *API) recompute(r *http.Request, scope string) (leaderboard.Board, error) {
	ctx := r.Context()

	races, err := a.ReadRepo.ListRaces(ctx)
	if err != nil {
		return leaderboard.Board{}, err
	}
	tips, err := a.ReadRepo.ListTips(ctx)
	if err != nil {
		return leaderboard.Board{}, err
	}
	results, err := a.ReadRepo.ResultsByRace(ctx)
	if err != nil {
		return leaderboard.Board{}, err
	}
	profiles, err := a.ReadRepo.ProfilesByUser(ctx)
	if err != nil {
		return leaderboard.Board{}, err
	}

	racesByID := make(map[string]racing.Race, len(races))
	for _, race := range races {
		racesByID[race.ID] = race
	}

	now := time.Now()
	board := leaderboard.Board{Scope: scope, TsUnixMs: now.UnixMilli()}
	if scope == leaderboard.ScopeNameDay {
		board.ActiveDay = a.Clock.ActiveDay(races, now)
		board.Rows = leaderboard.Aggregate(tips, results, racesByID, profiles,
			leaderboard.ScopeDay(board.ActiveDay), a.Rules)
	} else {
		board.Rows = leaderboard.Aggregate(tips, results, racesByID, profiles,
			leaderboard.ScopeAll(), a.Rules)
	}
	return board, nil
}

// listRaces retorna o card completo com os horários de trava
func (a *API) listRaces(w http.ResponseWriter, r *http.Request) {
	races, err := a.ReadRepo.ListRaces(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	now := time.Now()
	type raceView struct {
		racing.Race
		Locked bool `json:"locked"`
	}
	out := make([]raceView, 0, len(races))
	for _, race := range races {
		out = append(out, raceView{Race: race, Locked: schedule.Locked(race, now)})
	}
	writeJSON(w, http.StatusOK, out)
}

// getActiveDay resolve o dia ao vivo do card no instante da chamada
func (a *API) getActiveDay(w http.ResponseWriter, r *http.Request) {
	races, err := a.ReadRepo.ListRaces(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	day := a.Clock.ActiveDay(races, time.Now())
	writeJSON(w, http.StatusOK, map[string]string{"activeDay": day})
}
