package schedule

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	pointsPerWin   = 3
	lastResultsMax = 5
)

// MatchResultPlayer is one placement inside a completed match, as returned by
// the match store. ID is nil for ad-hoc participants recorded by name only.
type MatchResultPlayer struct {
	ID              *int   `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor"`
	Placement       int    `json:"placement"`
}

// MatchResult is a completed match with its player placements. For the 1v1
// tournament format exactly two placements are expected, 1 for the winner and
// 2 for the loser.
type MatchResult struct {
	MatchID int                 `json:"matchId"`
	Players []MatchResultPlayer `json:"players"`
}

// StandingsRow is one line of the live leaderboard. Losses are always derived
// from played and wins, never stored.
type StandingsRow struct {
	PlayerID *int     `json:"id"`
	Name     string   `json:"name"`
	Color    string   `json:"backgroundColor"`
	Points   int      `json:"points"`
	Played   int      `json:"played"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	Last     []string `json:"last"` // last results, most recent first, "W"/"L"
}

// ComputeStandings folds the completed matches of a tournament into a ranked
// table: 3 points per win, sorted by points desc, wins desc, then name
// (collated case-insensitively). The projection is pure and recomputed on
// every query; it is reconciled with the schedule by participant identity,
// not by fixture index.
//
// Matches that do not carry exactly one placement 1 and one placement 2 are
// skipped, they cannot be attributed to a winner and a loser.
func ComputeStandings(matches []MatchResult) []StandingsRow {
	index := make(map[string]*StandingsRow)
	order := make([]string, 0, len(matches)*2)

	upsert := func(p MatchResultPlayer) *StandingsRow {
		key := resultKey(p)
		row, ok := index[key]
		if !ok {
			row = &StandingsRow{PlayerID: p.ID, Name: p.Name, Color: p.BackgroundColor}
			index[key] = row
			order = append(order, key)
		}
		return row
	}

	for _, m := range matches {
		winner, loser, ok := splitPlacements(m)
		if !ok {
			continue
		}

		w := upsert(winner)
		w.Played++
		w.Wins++
		w.Points += pointsPerWin
		w.Last = prependResult(w.Last, "W")

		l := upsert(loser)
		l.Played++
		l.Last = prependResult(l.Last, "L")
	}

	rows := make([]StandingsRow, 0, len(order))
	for _, key := range order {
		row := *index[key]
		row.Losses = row.Played - row.Wins
		rows = append(rows, row)
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return coll.CompareString(rows[i].Name, rows[j].Name) < 0
	})
	return rows
}

func splitPlacements(m MatchResult) (winner, loser MatchResultPlayer, ok bool) {
	if len(m.Players) != 2 {
		return winner, loser, false
	}
	a, b := m.Players[0], m.Players[1]
	switch {
	case a.Placement == 1 && b.Placement == 2:
		return a, b, true
	case b.Placement == 1 && a.Placement == 2:
		return b, a, true
	default:
		return winner, loser, false
	}
}

func prependResult(last []string, result string) []string {
	last = append([]string{result}, last...)
	if len(last) > lastResultsMax {
		last = last[:lastResultsMax]
	}
	return last
}

// resultKey is the stable identity a participant keeps across their matches:
// the player id when the roster entry references the catalog, otherwise the
// ad-hoc name.
func resultKey(p MatchResultPlayer) string {
	if p.ID != nil {
		return "id:" + strconv.Itoa(*p.ID)
	}
	return "name:" + p.Name
}
