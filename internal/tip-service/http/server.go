package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
	"github.com/radieske/racing-tips-platform/internal/tip-service/dto"
	"github.com/radieske/racing-tips-platform/internal/tip-service/repo"
	"github.com/radieske/racing-tips-platform/pkg/contracts/events"
)

// Store é o recorte de persistência que o servidor precisa
type Store interface {
	RaceByID(ctx context.Context, raceID string) (racing.Race, error)
	UpsertTip(ctx context.Context, t racing.Tip) error
	TipsByUser(ctx context.Context, userID string) ([]repo.UserTip, error)
	ResultsByRace(ctx context.Context, raceIDs []string) (map[string]*racing.RaceResult, error)
}

type Server struct {
	log   *zap.Logger
	store Store
	rules settlement.Settings
	publ  interface {
		PublishTipPlaced(context.Context, events.TipPlaced) error
	}
}

func NewServer(log *zap.Logger, s Store, rules settlement.Settings, p interface {
	PublishTipPlaced(context.Context, events.TipPlaced) error
}) *Server {
	return &Server{log: log, store: s, rules: rules, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tips", s.tips) // POST (upsert) | GET ?userId=
	return mux
}

func (s *Server) tips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeTip(w, r)
	case http.MethodGet:
		s.myTips(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) placeTip(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.RaceID == "" || req.HorseName == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	race, err := s.store.RaceByID(r.Context(), req.RaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "race not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !contains(race.Horses, req.HorseName) {
		http.Error(w, "horse not in race", http.StatusBadRequest)
		return
	}

	// Revalida a trava no instante do write: o relógio pode ter passado do
	// lockAt depois que a UI habilitou o botão.
	now := time.Now()
	if schedule.Locked(race, now) {
		http.Error(w, "tips closed: race is locked", http.StatusConflict)
		return
	}

	tip := racing.Tip{
		ID:        racing.TipID(req.UserID, race.ID),
		UserID:    req.UserID,
		UserEmail: req.UserEmail,
		RaceID:    race.ID,
		HorseName: req.HorseName,
		LockAt:    race.LockAt,
		CreatedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}
	if err := s.store.UpsertTip(r.Context(), tip); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = s.publ.PublishTipPlaced(r.Context(), events.TipPlaced{
		TipID:     tip.ID,
		UserID:    tip.UserID,
		UserEmail: tip.UserEmail,
		RaceID:    tip.RaceID,
		HorseName: tip.HorseName,
	})

	writeJSON(w, dto.PlaceTipResponse{TipID: tip.ID, Status: "SAVED"})
}

func (s *Server) myTips(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}

	tips, err := s.store.TipsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	raceIDs := make([]string, 0, len(tips))
	for _, t := range tips {
		raceIDs = append(raceIDs, t.RaceID)
	}
	results, err := s.store.ResultsByRace(r.Context(), raceIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]dto.MyTip, 0, len(tips))
	for _, t := range tips {
		res := results[t.RaceID]
		outcome, profit := s.rules.Classify(t.Tip, res)
		out = append(out, dto.MyTip{
			TipID:       t.ID,
			RaceID:      t.RaceID,
			RaceName:    t.RaceName,
			Date:        t.RaceDate,
			HorseName:   t.HorseName,
			Outcome:     outcome.String(),
			ProfitGBP:   profit,
			WinnerHorse: settlement.WinnerOf(res),
		})
	}

	writeJSON(w, out)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
