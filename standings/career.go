package standings

import (
	"sort"

	"github.com/Dosada05/lamasia-league/models"
)

// PlayerGoals is a roster line of the team detail view.
type PlayerGoals struct {
	Player models.Player `json:"player"`
	Goals  int           `json:"goals"`
}

// Career is the all-category record of one team.
type Career struct {
	Team       models.Team   `json:"team"`
	Record     Row           `json:"record"`
	TotalGoals int           `json:"total_goals"`
	Roster     []PlayerGoals `json:"roster"`
}

// TeamCareer accumulates every played match of the team regardless of
// category. Roster goals only count scorer entries from those matches.
func TeamCareer(team models.Team, matches []models.Match, players []models.Player) Career {
	career := Career{Team: team, Record: Row{Team: team}}
	goals := make(map[int]int)

	for i := range matches {
		m := &matches[i]
		if !m.Stats.IsPlayed || !m.Involves(team.ID) {
			continue
		}
		mine, opponent := m.ScoresFor(team.ID)
		career.Record.record(mine, opponent)
		for _, s := range m.Stats.Scorers {
			goals[s.PlayerID] += s.Count
		}
	}
	career.Record.finish()
	career.TotalGoals = career.Record.GoalsFor

	roster := make([]PlayerGoals, 0)
	for _, p := range players {
		if p.TeamID != team.ID {
			continue
		}
		roster = append(roster, PlayerGoals{Player: p, Goals: goals[p.ID]})
	}
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Goals > roster[j].Goals
	})
	career.Roster = roster
	return career
}
