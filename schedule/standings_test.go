package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultBetween(matchID int, winner, loser string) MatchResult {
	return MatchResult{
		MatchID: matchID,
		Players: []MatchResultPlayer{
			{Name: winner, Placement: 1},
			{Name: loser, Placement: 2},
		},
	}
}

func TestComputeStandingsScoring(t *testing.T) {
	rows := ComputeStandings([]MatchResult{
		resultBetween(1, "A", "B"),
		resultBetween(2, "A", "C"),
		resultBetween(3, "B", "C"),
	})

	require.Len(t, rows, 3)

	assert.Equal(t, "A", rows[0].Name)
	assert.Equal(t, 6, rows[0].Points)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, 0, rows[0].Losses)

	assert.Equal(t, "B", rows[1].Name)
	assert.Equal(t, 3, rows[1].Points)
	assert.Equal(t, 1, rows[1].Wins)
	assert.Equal(t, 1, rows[1].Losses)

	assert.Equal(t, "C", rows[2].Name)
	assert.Equal(t, 0, rows[2].Points)
	assert.Equal(t, 0, rows[2].Wins)
	assert.Equal(t, 2, rows[2].Losses)
}

func TestComputeStandingsTieBreakByName(t *testing.T) {
	rows := ComputeStandings([]MatchResult{
		resultBetween(1, "Zoe", "Mia"),
		resultBetween(2, "Ana", "Mia"),
	})

	require.Len(t, rows, 3)
	// Identical points and wins: name decides, case-insensitively.
	assert.Equal(t, "Ana", rows[0].Name)
	assert.Equal(t, "Zoe", rows[1].Name)
	assert.Equal(t, "Mia", rows[2].Name)
}

func TestComputeStandingsLastFiveTruncation(t *testing.T) {
	matches := make([]MatchResult, 0, 7)
	for i := 0; i < 6; i++ {
		matches = append(matches, resultBetween(i+1, "A", "B"))
	}
	matches = append(matches, resultBetween(7, "B", "A"))

	rows := ComputeStandings(matches)
	require.Len(t, rows, 2)

	var rowA StandingsRow
	for _, row := range rows {
		if row.Name == "A" {
			rowA = row
		}
	}
	assert.Equal(t, 7, rowA.Played)
	assert.Equal(t, []string{"L", "W", "W", "W", "W"}, rowA.Last)
}

func TestComputeStandingsSkipsMalformedMatches(t *testing.T) {
	rows := ComputeStandings([]MatchResult{
		resultBetween(1, "A", "B"),
		{MatchID: 2, Players: []MatchResultPlayer{{Name: "A", Placement: 1}}},
		{MatchID: 3, Players: []MatchResultPlayer{
			{Name: "A", Placement: 1},
			{Name: "B", Placement: 1},
		}},
		{MatchID: 4, Players: []MatchResultPlayer{
			{Name: "A", Placement: 1},
			{Name: "B", Placement: 2},
			{Name: "C", Placement: 3},
		}},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Played)
	assert.Equal(t, 1, rows[1].Played)
}

func TestComputeStandingsIdentityByPlayerID(t *testing.T) {
	id := 7
	matches := []MatchResult{
		{MatchID: 1, Players: []MatchResultPlayer{
			{ID: &id, Name: "Registered", Placement: 1},
			{Name: "Guest", Placement: 2},
		}},
		{MatchID: 2, Players: []MatchResultPlayer{
			{ID: &id, Name: "Registered", Placement: 2},
			{Name: "Guest", Placement: 1},
		}},
	}

	rows := ComputeStandings(matches)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 2, row.Played)
		assert.Equal(t, 1, row.Wins)
		assert.Equal(t, 1, row.Losses)
	}
}

func TestComputeStandingsEmpty(t *testing.T) {
	assert.Empty(t, ComputeStandings(nil))
}
