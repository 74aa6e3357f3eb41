package leaderboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

var rules = settlement.Settings{StakeGBP: 1, PlacesPaid: 3, EachWayFraction: 0.25}

func fixture() ([]racing.Tip, map[string]*racing.RaceResult, map[string]racing.Race, map[string]racing.Profile) {
	races := map[string]racing.Race{
		"race-1": {ID: "race-1", Name: "Kempton 14:30", Date: "2026-01-13"},
		"race-2": {ID: "race-2", Name: "Cheltenham 15:05", Date: "2026-01-13"},
		"race-3": {ID: "race-3", Name: "Ascot 14:00", Date: "2026-01-14"},
	}

	results := map[string]*racing.RaceResult{
		"race-1": {
			RaceID: "race-1", PlacesPaid: 3, EachWayFraction: 0.25,
			Placements: []racing.Placement{
				{Position: 1, HorseName: "Red Comet", OddsDecimal: 6.0},
				{Position: 2, HorseName: "Blue Derby", OddsDecimal: 4.0},
			},
		},
		"race-3": {
			RaceID: "race-3", PlacesPaid: 3, EachWayFraction: 0.25,
			Placements: []racing.Placement{
				{Position: 1, HorseName: "Silver Arrow", OddsDecimal: 3.0},
			},
		},
		// race-2 sem resultado: não conta em escopo nenhum
	}

	tips := []racing.Tip{
		{ID: "alice_race-1", UserID: "alice", UserEmail: "alice@mail.com", RaceID: "race-1", HorseName: "Red Comet"},
		{ID: "alice_race-2", UserID: "alice", UserEmail: "alice@mail.com", RaceID: "race-2", HorseName: "River Jet"},
		{ID: "bob_race-1", UserID: "bob", UserEmail: "bob@mail.com", RaceID: "race-1", HorseName: "Blue Derby"},
		{ID: "bob_race-3", UserID: "bob", UserEmail: "bob@mail.com", RaceID: "race-3", HorseName: "Silver Arrow"},
		{ID: "carol_race-1", UserID: "carol", UserEmail: "carol@mail.com", RaceID: "race-1", HorseName: "Night Runner"},
	}

	users := map[string]racing.Profile{
		"alice": {UserID: "alice", DisplayName: "Alice the Great"},
		"bob":   {UserID: "bob", DisplayName: ""}, // sem nome: cai pro email
	}

	return tips, results, races, users
}

func TestAggregateCumulative(t *testing.T) {
	tips, results, races, users := fixture()

	rows := Aggregate(tips, results, races, users, ScopeAll(), rules)

	want := []Row{
		{UserID: "alice", DisplayName: "Alice the Great", GBP: 5.0, Tips: 1},
		{UserID: "bob", DisplayName: "bob@mail.com", GBP: 0.75 + 2.0, Tips: 2},
		{UserID: "carol", DisplayName: "carol@mail.com", GBP: 0, Tips: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	// palpite em páreo sem resultado não entra na contagem
	settled := 0
	for _, tip := range tips {
		if _, ok := results[tip.RaceID]; ok {
			settled++
		}
	}
	total := 0
	for _, r := range rows {
		total += r.Tips
	}
	assert.Equal(t, settled, total)
}

func TestAggregateDayScope(t *testing.T) {
	tips, results, races, users := fixture()

	rows := Aggregate(tips, results, races, users, ScopeDay("2026-01-14"), rules)

	want := []Row{
		{UserID: "bob", DisplayName: "bob@mail.com", GBP: 2.0, Tips: 1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateSortedNonIncreasing(t *testing.T) {
	tips, results, races, users := fixture()
	rows := Aggregate(tips, results, races, users, ScopeAll(), rules)

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].GBP, rows[i].GBP)
	}
}

func TestAggregateTieBreakDeterministic(t *testing.T) {
	races := map[string]racing.Race{"race-1": {ID: "race-1", Date: "2026-01-13"}}
	results := map[string]*racing.RaceResult{
		"race-1": {RaceID: "race-1", PlacesPaid: 3, EachWayFraction: 0.25,
			Placements: []racing.Placement{{Position: 1, HorseName: "Red Comet", OddsDecimal: 2.0}}},
	}
	// zed e ann perdem os dois: empate em 0 GBP, desempata por userId
	tips := []racing.Tip{
		{ID: "zed_race-1", UserID: "zed", RaceID: "race-1", HorseName: "Blue Derby"},
		{ID: "ann_race-1", UserID: "ann", RaceID: "race-1", HorseName: "Night Runner"},
	}

	rows := Aggregate(tips, results, races, nil, ScopeAll(), rules)
	assert.Equal(t, []string{"ann", "zed"}, []string{rows[0].UserID, rows[1].UserID})
}

func TestAggregateIdempotent(t *testing.T) {
	tips, results, races, users := fixture()

	first := Aggregate(tips, results, races, users, ScopeAll(), rules)
	second := Aggregate(tips, results, races, users, ScopeAll(), rules)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompute diverged (-first +second):\n%s", diff)
	}
}

func TestAggregateMissingUserIDGroupsAsUnknown(t *testing.T) {
	races := map[string]racing.Race{"race-1": {ID: "race-1", Date: "2026-01-13"}}
	results := map[string]*racing.RaceResult{
		"race-1": {RaceID: "race-1", WinnerHorse: "Red Comet"},
	}
	tips := []racing.Tip{{ID: "_race-1", RaceID: "race-1", HorseName: "Red Comet"}}

	rows := Aggregate(tips, results, races, nil, ScopeAll(), rules)
	assert.Len(t, rows, 1)
	assert.Equal(t, "unknown", rows[0].UserID)
	assert.Equal(t, "unknown", rows[0].DisplayName)
	assert.InDelta(t, 1.0, rows[0].GBP, 1e-12) // resultado legado paga o stake
}
