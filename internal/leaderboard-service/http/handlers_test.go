package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/schedule"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

type fakeCache struct {
	board leaderboard.Board
	ok    bool
	err   error
}

func (f *fakeCache) GetBoard(ctx context.Context, scope string) (leaderboard.Board, bool, error) {
	return f.board, f.ok, f.err
}

type fakeReader struct {
	races    []racing.Race
	tips     []racing.Tip
	results  map[string]*racing.RaceResult
	profiles map[string]racing.Profile
}

func (f *fakeReader) ListRaces(ctx context.Context) ([]racing.Race, error) { return f.races, nil }
func (f *fakeReader) ListTips(ctx context.Context) ([]racing.Tip, error)  { return f.tips, nil }
func (f *fakeReader) ResultsByRace(ctx context.Context) (map[string]*racing.RaceResult, error) {
	return f.results, nil
}
func (f *fakeReader) ProfilesByUser(ctx context.Context) (map[string]racing.Profile, error) {
	return f.profiles, nil
}

var testRules = settlement.Settings{StakeGBP: 1, PlacesPaid: 3, EachWayFraction: 0.25}

func settledReader() *fakeReader {
	return &fakeReader{
		races: []racing.Race{{ID: "r1", Name: "Opener", Date: "2026-03-10", Horses: []string{"Red Comet"}}},
		tips:  []racing.Tip{{ID: "u1_r1", UserID: "u1", RaceID: "r1", HorseName: "Red Comet"}},
		results: map[string]*racing.RaceResult{
			"r1": {RaceID: "r1", Placements: []racing.Placement{
				{Position: 1, HorseName: "Red Comet", OddsDecimal: 6.0, OddsDisplay: "5/1"},
			}, PlacesPaid: 3, EachWayFraction: 0.25},
		},
		profiles: map[string]racing.Profile{"u1": {UserID: "u1", DisplayName: "Alice"}},
	}
}

func TestGetLeaderboardCacheHit(t *testing.T) {
	cached := leaderboard.Board{
		Scope:    "all",
		Rows:     []leaderboard.Row{{UserID: "u1", DisplayName: "Alice", GBP: 5.0, Tips: 1}},
		TsUnixMs: time.Now().UnixMilli(),
	}
	api := &API{
		Log:      zap.NewNop(),
		ReadRepo: &fakeReader{}, // não pode ser consultado num hit
		Cache:    &fakeCache{board: cached, ok: true},
		Clock:    schedule.Clock{Location: time.UTC, DaySwitchHour: 18},
		Rules:    testRules,
	}

	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/leaderboard?scope=all", nil))

	require.Equal(t, 200, rec.Code)
	var got leaderboard.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, cached.Rows, got.Rows)
}

func TestGetLeaderboardBadScope(t *testing.T) {
	api := &API{Log: zap.NewNop(), ReadRepo: &fakeReader{}, Cache: &fakeCache{}}

	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/leaderboard?scope=week", nil))

	assert.Equal(t, 400, rec.Code)
}

// Redis fora do ar: a falha vira warn no log e a resposta sai do banco
func TestGetLeaderboardCacheErrorFallsBackToDB(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	api := &API{
		Log:      zap.New(core),
		ReadRepo: settledReader(),
		Cache:    &fakeCache{err: errors.New("redis: connection refused")},
		Clock:    schedule.Clock{Location: time.UTC, DaySwitchHour: 18},
		Rules:    testRules,
	}

	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/leaderboard?scope=all", nil))

	require.Equal(t, 200, rec.Code)
	var got leaderboard.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Alice", got.Rows[0].DisplayName)
	assert.Equal(t, 5.0, got.Rows[0].GBP)

	require.Equal(t, 1, logs.FilterMessage("leaderboard cache read").Len())
}
