package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/results-service/draft"
	"github.com/radieske/racing-tips-platform/internal/results-service/repo"
	"github.com/radieske/racing-tips-platform/pkg/contracts/events"
)

// API expõe os endpoints administrativos de apuração.
// Identidade/admin ficam num colaborador externo (gateway); aqui só as regras.
type API struct {
	Log       *zap.Logger
	Repo      *repo.Postgres
	Validator draft.Validator
	Publ      interface {
		PublishResultDeclared(context.Context, events.ResultDeclared) error
		PublishResultsCleared(context.Context) error
	}
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/races/{id}/result", a.declareResult) // valida rascunho e grava
	r.Get("/v1/results", a.listResults)              // estado de apuração por páreo
	r.Delete("/v1/results", a.clearResults)          // zera tudo (teste)
	return r
}

// declarePayload é o rascunho como vem da tela do admin
type declarePayload struct {
	PlacesPaid      string `json:"placesPaid"`
	EachWayFraction string `json:"eachWayFraction"`
	Placements      []struct {
		Position  int    `json:"position"`
		HorseName string `json:"horseName"`
		Odds      string `json:"odds"`
	} `json:"placements"`
}

func (a *API) declareResult(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "id")

	var payload declarePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	d := draft.Draft{
		PlacesPaid:      payload.PlacesPaid,
		EachWayFraction: payload.EachWayFraction,
		Placements:      make(map[int]draft.Placement),
	}
	for _, p := range payload.Placements {
		if p.Position < 1 || p.Position > draft.MaxPositions {
			continue
		}
		d.Placements[p.Position] = draft.Placement{HorseName: p.HorseName, OddsInput: p.Odds}
	}

	res, err := a.Validator.Validate(raceID, d)
	if err != nil {
		// rejeição limpa: nenhum resultado parcial é persistido
		switch {
		case errors.Is(err, draft.ErrMissingWinner),
			errors.Is(err, draft.ErrMissingOdds),
			errors.Is(err, draft.ErrDuplicateHorse):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	if err := a.Repo.UpsertResult(r.Context(), res); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := a.Repo.InsertAudit(r.Context(), res); err != nil {
		a.Log.Warn("result audit insert", zap.Error(err))
	}

	_ = a.Publ.PublishResultDeclared(r.Context(), events.ResultDeclared{
		RaceID:          res.RaceID,
		WinnerHorse:     res.WinnerHorse,
		Placements:      len(res.Placements),
		PlacesPaid:      res.PlacesPaid,
		EachWayFraction: res.EachWayFraction,
	})

	writeJSON(w, http.StatusOK, res)
}

func (a *API) listResults(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Repo.ListByRace(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) clearResults(w http.ResponseWriter, r *http.Request) {
	n, err := a.Repo.ClearAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Publ.PublishResultsCleared(r.Context())

	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
