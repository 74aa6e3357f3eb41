package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

var v = Validator{Defaults: settlement.Settings{StakeGBP: 1, PlacesPaid: 3, EachWayFraction: 0.25}}

func TestValidateFullDraft(t *testing.T) {
	d := Draft{
		PlacesPaid:      "4",
		EachWayFraction: "1/5",
		Placements: map[int]Placement{
			1: {HorseName: "Red Comet", OddsInput: "5/1"},
			2: {HorseName: "Blue Derby", OddsInput: "3.5"},
			3: {HorseName: "Night Runner", OddsInput: "11/4"},
		},
	}

	res, err := v.Validate("race-1", d)
	require.NoError(t, err)

	assert.Equal(t, "race-1", res.RaceID)
	assert.Equal(t, "Red Comet", res.WinnerHorse)
	assert.Equal(t, 4, res.PlacesPaid)
	assert.InDelta(t, 0.2, res.EachWayFraction, 1e-12)

	require.Len(t, res.Placements, 3)
	assert.Equal(t, 1, res.Placements[0].Position)
	assert.InDelta(t, 6.0, res.Placements[0].OddsDecimal, 1e-12)
	assert.Equal(t, "5/1", res.Placements[0].OddsDisplay)
}

func TestValidateMissingWinner(t *testing.T) {
	d := Draft{Placements: map[int]Placement{
		2: {HorseName: "Blue Derby", OddsInput: "3/1"},
	}}

	_, err := v.Validate("race-1", d)
	assert.ErrorIs(t, err, ErrMissingWinner)
}

func TestValidateMissingOdds(t *testing.T) {
	// vencedor nomeado mas nenhuma odd parseia
	d := Draft{Placements: map[int]Placement{
		1: {HorseName: "Red Comet", OddsInput: "abc"},
	}}

	_, err := v.Validate("race-1", d)
	assert.ErrorIs(t, err, ErrMissingOdds)
}

func TestValidateDropsUnparseablePositions(t *testing.T) {
	d := Draft{Placements: map[int]Placement{
		1: {HorseName: "Red Comet", OddsInput: "5/1"},
		2: {HorseName: "Blue Derby", OddsInput: "x"},   // descartada
		3: {HorseName: "Night Runner", OddsInput: "1"}, // odd <= 1, descartada
	}}

	res, err := v.Validate("race-1", d)
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "Red Comet", res.Placements[0].HorseName)
}

func TestValidateDuplicateHorse(t *testing.T) {
	d := Draft{Placements: map[int]Placement{
		1: {HorseName: "Red Comet", OddsInput: "5/1"},
		2: {HorseName: "Red Comet", OddsInput: "3/1"},
	}}

	_, err := v.Validate("race-1", d)
	assert.ErrorIs(t, err, ErrDuplicateHorse)
}

func TestValidateDefaultsFallback(t *testing.T) {
	d := Draft{
		PlacesPaid:      "zero",
		EachWayFraction: "",
		Placements: map[int]Placement{
			1: {HorseName: "Red Comet", OddsInput: "2.0"},
		},
	}

	res, err := v.Validate("race-1", d)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PlacesPaid)
	assert.InDelta(t, 0.25, res.EachWayFraction, 1e-12)
}

func TestAssignEvictsPriorPosition(t *testing.T) {
	var d Draft
	d.Assign(1, "Red Comet")
	d.Assign(2, "Blue Derby")
	d.Assign(2, "Red Comet") // última atribuição vence

	assert.Equal(t, "", d.Placements[1].HorseName)
	assert.Equal(t, "Red Comet", d.Placements[2].HorseName)
}

func TestAssignKeepsOddsInput(t *testing.T) {
	d := Draft{Placements: map[int]Placement{
		1: {HorseName: "", OddsInput: "5/1"},
	}}
	d.Assign(1, "Red Comet")

	assert.Equal(t, Placement{HorseName: "Red Comet", OddsInput: "5/1"}, d.Placements[1])
}
