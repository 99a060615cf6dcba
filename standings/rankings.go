package standings

import (
	"sort"

	"github.com/Dosada05/lamasia-league/models"
)

// RankingEntry is one line of a scorer or MVP leaderboard. Team is nil when
// the player's current team no longer exists.
type RankingEntry struct {
	Player models.Player `json:"player"`
	Team   *models.Team  `json:"team,omitempty"`
	Count  int           `json:"count"`
}

// tally keeps per-player totals together with first-seen order so that the
// final stable sort is deterministic.
type tally struct {
	order  []int
	totals map[int]int
}

func newTally() *tally {
	return &tally{totals: make(map[int]int)}
}

func (t *tally) add(playerID, n int) {
	if _, seen := t.totals[playerID]; !seen {
		t.order = append(t.order, playerID)
	}
	t.totals[playerID] += n
}

func qualifying(m *models.Match, category models.Category) bool {
	return m.Stats.IsPlayed && m.Category == category
}

// Scorers ranks players by goals summed over the played matches of a category.
func Scorers(matches []models.Match, players []models.Player, teams []models.Team, category models.Category) []RankingEntry {
	t := newTally()
	for i := range matches {
		m := &matches[i]
		if !qualifying(m, category) {
			continue
		}
		for _, s := range m.Stats.Scorers {
			t.add(s.PlayerID, s.Count)
		}
	}
	return t.rank(players, teams)
}

// MVPs ranks players by the number of played matches in which they were named MVP.
func MVPs(matches []models.Match, players []models.Player, teams []models.Team, category models.Category) []RankingEntry {
	t := newTally()
	for i := range matches {
		m := &matches[i]
		if !qualifying(m, category) || m.Stats.MVPPlayerID == nil {
			continue
		}
		t.add(*m.Stats.MVPPlayerID, 1)
	}
	return t.rank(players, teams)
}

// rank joins the totals to players and their current team, drops zero totals
// and unknown players, and sorts by total descending.
func (t *tally) rank(players []models.Player, teams []models.Team) []RankingEntry {
	playerIdx := indexPlayers(players)
	teamIdx := indexTeams(teams)

	entries := make([]RankingEntry, 0, len(t.order))
	for _, id := range t.order {
		total := t.totals[id]
		if total <= 0 {
			continue
		}
		player, ok := playerIdx[id]
		if !ok {
			continue
		}
		entry := RankingEntry{Player: player, Count: total}
		if team, ok := teamIdx[player.TeamID]; ok {
			entry.Team = &team
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func indexPlayers(players []models.Player) map[int]models.Player {
	idx := make(map[int]models.Player, len(players))
	for _, p := range players {
		idx[p.ID] = p
	}
	return idx
}

func indexTeams(teams []models.Team) map[int]models.Team {
	idx := make(map[int]models.Team, len(teams))
	for _, t := range teams {
		idx[t.ID] = t
	}
	return idx
}
