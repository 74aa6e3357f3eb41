package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
	"github.com/radieske/racing-tips-platform/internal/tip-service/dto"
	"github.com/radieske/racing-tips-platform/internal/tip-service/repo"
	"github.com/radieske/racing-tips-platform/pkg/contracts/events"
)

type fakeStore struct {
	races   map[string]racing.Race
	results map[string]*racing.RaceResult
	saved   []racing.Tip
}

func (f *fakeStore) RaceByID(_ context.Context, raceID string) (racing.Race, error) {
	r, ok := f.races[raceID]
	if !ok {
		return racing.Race{}, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeStore) UpsertTip(_ context.Context, t racing.Tip) error {
	f.saved = append(f.saved, t)
	return nil
}

func (f *fakeStore) TipsByUser(_ context.Context, userID string) ([]repo.UserTip, error) {
	var out []repo.UserTip
	for _, t := range f.saved {
		if t.UserID == userID {
			race := f.races[t.RaceID]
			out = append(out, repo.UserTip{Tip: t, RaceName: race.Name, RaceDate: race.Date})
		}
	}
	return out, nil
}

func (f *fakeStore) ResultsByRace(_ context.Context, raceIDs []string) (map[string]*racing.RaceResult, error) {
	out := make(map[string]*racing.RaceResult)
	for _, id := range raceIDs {
		if r, ok := f.results[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fakePublisher struct{ published []events.TipPlaced }

func (f *fakePublisher) PublishTipPlaced(_ context.Context, e events.TipPlaced) error {
	f.published = append(f.published, e)
	return nil
}

var rules = settlement.Settings{StakeGBP: 1, PlacesPaid: 3, EachWayFraction: 0.25}

func openRace(id string) racing.Race {
	return racing.Race{
		ID:     id,
		Name:   "Kempton 14:30",
		Date:   "2026-01-13",
		LockAt: time.Now().Add(time.Hour).UnixMilli(),
		Horses: []string{"Red Comet", "Blue Derby"},
	}
}

func postTip(t *testing.T, srv *Server, req dto.PlaceTipRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/tips", bytes.NewReader(body)))
	return rec
}

func TestPlaceTip(t *testing.T) {
	store := &fakeStore{races: map[string]racing.Race{"race-1": openRace("race-1")}}
	publ := &fakePublisher{}
	srv := NewServer(zap.NewNop(), store, rules, publ)

	rec := postTip(t, srv, dto.PlaceTipRequest{
		UserID: "u1", UserEmail: "u1@mail.com", RaceID: "race-1", HorseName: "Red Comet",
	})

	assert.Equal(t, 200, rec.Code)

	var resp dto.PlaceTipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1_race-1", resp.TipID)
	assert.Equal(t, "SAVED", resp.Status)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "u1_race-1", store.saved[0].ID)
	require.Len(t, publ.published, 1)
	assert.Equal(t, "Red Comet", publ.published[0].HorseName)
}

func TestPlaceTipRejectedAfterLock(t *testing.T) {
	race := openRace("race-1")
	race.LockAt = time.Now().Add(-time.Minute).UnixMilli() // já travou
	store := &fakeStore{races: map[string]racing.Race{"race-1": race}}
	srv := NewServer(zap.NewNop(), store, rules, &fakePublisher{})

	rec := postTip(t, srv, dto.PlaceTipRequest{UserID: "u1", RaceID: "race-1", HorseName: "Red Comet"})

	assert.Equal(t, 409, rec.Code)
	assert.Empty(t, store.saved) // a trava é checada no write, nada persiste
}

func TestPlaceTipUnknownRace(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeStore{races: map[string]racing.Race{}}, rules, &fakePublisher{})
	rec := postTip(t, srv, dto.PlaceTipRequest{UserID: "u1", RaceID: "nope", HorseName: "Red Comet"})
	assert.Equal(t, 404, rec.Code)
}

func TestPlaceTipHorseNotInRace(t *testing.T) {
	store := &fakeStore{races: map[string]racing.Race{"race-1": openRace("race-1")}}
	srv := NewServer(zap.NewNop(), store, rules, &fakePublisher{})
	rec := postTip(t, srv, dto.PlaceTipRequest{UserID: "u1", RaceID: "race-1", HorseName: "Silver Arrow"})
	assert.Equal(t, 400, rec.Code)
}

func TestMyTipsWithOutcomes(t *testing.T) {
	store := &fakeStore{
		races: map[string]racing.Race{"race-1": openRace("race-1")},
		results: map[string]*racing.RaceResult{
			"race-1": {
				RaceID: "race-1", PlacesPaid: 3, EachWayFraction: 0.25,
				Placements: []racing.Placement{{Position: 1, HorseName: "Red Comet", OddsDecimal: 6.0}},
			},
		},
	}
	srv := NewServer(zap.NewNop(), store, rules, &fakePublisher{})

	rec := postTip(t, srv, dto.PlaceTipRequest{UserID: "u1", RaceID: "race-1", HorseName: "Red Comet"})
	require.Equal(t, 200, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/tips?userId=u1", nil))
	require.Equal(t, 200, rec.Code)

	var out []dto.MyTip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "WIN", out[0].Outcome)
	assert.InDelta(t, 5.0, out[0].ProfitGBP, 1e-12)
	assert.Equal(t, "Red Comet", out[0].WinnerHorse)
}
