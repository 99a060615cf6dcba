// Package standings computes league tables and player leaderboards from an
// in-memory snapshot of teams, matches and players.
//
// Every function is pure: it reads its arguments, never mutates them and
// recomputes the result from scratch. Dangling references (a match pointing
// to a deleted team, a scorer pointing to a deleted player) are skipped.
package standings

import (
	"sort"

	"github.com/Dosada05/lamasia-league/models"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// Row is one line of the standings table.
type Row struct {
	Team         models.Team `json:"team"`
	Played       int         `json:"played"`
	Won          int         `json:"won"`
	Drawn        int         `json:"drawn"`
	Lost         int         `json:"lost"`
	GoalsFor     int         `json:"goals_for"`
	GoalsAgainst int         `json:"goals_against"`
	Diff         int         `json:"diff"`
	Points       int         `json:"points"`
}

// record accumulates one match from the point of view of a team.
func (r *Row) record(mine, opponent int) {
	r.Played++
	r.GoalsFor += mine
	r.GoalsAgainst += opponent
	switch {
	case mine > opponent:
		r.Won++
	case mine < opponent:
		r.Lost++
	default:
		r.Drawn++
	}
}

func (r *Row) finish() {
	r.Points = r.Won*pointsForWin + r.Drawn*pointsForDraw
	r.Diff = r.GoalsFor - r.GoalsAgainst
}

// Compute builds the table for one category. Teams are ordered by points,
// then goal difference; remaining ties keep the input order.
func Compute(teams []models.Team, matches []models.Match, category models.Category) []Row {
	rows := make([]Row, 0, len(teams))
	for _, team := range teams {
		if team.Category != category {
			continue
		}
		row := Row{Team: team}
		for i := range matches {
			m := &matches[i]
			if !m.Stats.IsPlayed || m.Category != category || !m.Involves(team.ID) {
				continue
			}
			row.record(m.ScoresFor(team.ID))
		}
		row.finish()
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Diff > rows[j].Diff
	})
	return rows
}
