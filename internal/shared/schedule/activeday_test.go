package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

func testClock(t *testing.T) Clock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return Clock{Location: loc, DaySwitchHour: 18}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	ts, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	require.NoError(t, err)
	return ts
}

func card(dates ...string) []racing.Race {
	var races []racing.Race
	for i, d := range dates {
		races = append(races, racing.Race{ID: "race-" + d, Name: "Race", Date: d, LockAt: int64(i)})
	}
	return races
}

func TestActiveDayMatchesToday(t *testing.T) {
	c := testClock(t)
	got := c.ActiveDay(card("2026-01-13"), at(t, "2026-01-13T10:00"))
	assert.Equal(t, "2026-01-13", got)
}

func TestActiveDayRollsOverInTheEvening(t *testing.T) {
	c := testClock(t)
	races := card("2026-01-13", "2026-01-14")

	// 17:59 ainda é o dia corrente; 18:00 em diante vira pro próximo card
	assert.Equal(t, "2026-01-13", c.ActiveDay(races, at(t, "2026-01-13T17:59")))
	assert.Equal(t, "2026-01-14", c.ActiveDay(races, at(t, "2026-01-13T18:00")))
	assert.Equal(t, "2026-01-14", c.ActiveDay(races, at(t, "2026-01-13T19:00")))
}

func TestActiveDayNoLaterDayToRollTo(t *testing.T) {
	c := testClock(t)
	// último dia do card: depois das 18h continua nele
	got := c.ActiveDay(card("2026-01-13"), at(t, "2026-01-13T19:00"))
	assert.Equal(t, "2026-01-13", got)
}

func TestActiveDayClampsOutsideRange(t *testing.T) {
	c := testClock(t)
	races := card("2026-01-13", "2026-01-14")

	assert.Equal(t, "2026-01-13", c.ActiveDay(races, at(t, "2026-01-10T12:00")))
	assert.Equal(t, "2026-01-14", c.ActiveDay(races, at(t, "2026-01-20T12:00")))
}

func TestActiveDayGapFallsBackToEarliest(t *testing.T) {
	c := testClock(t)
	races := card("2026-01-13", "2026-01-15")
	// dia 14 não tem card: cai no primeiro dia (comportamento herdado)
	assert.Equal(t, "2026-01-13", c.ActiveDay(races, at(t, "2026-01-14T12:00")))
	assert.Equal(t, "2026-01-13", c.ActiveDay(races, at(t, "2026-01-14T20:00")))
}

func TestActiveDayEmptyCard(t *testing.T) {
	c := testClock(t)
	assert.Equal(t, "", c.ActiveDay(nil, at(t, "2026-01-13T10:00")))
}

func TestRaceDaysDistinctSorted(t *testing.T) {
	races := card("2026-01-14", "2026-01-13", "2026-01-14")
	assert.Equal(t, []string{"2026-01-13", "2026-01-14"}, RaceDays(races))
}
