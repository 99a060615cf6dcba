package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/lamasia-league/models"
)

func team(id int, name string, c models.Category) models.Team {
	return models.Team{ID: id, Name: name, Category: c}
}

func played(id, home, away, hs, as int, c models.Category, scorers ...models.ScorerEntry) models.Match {
	return models.Match{
		ID: id, Category: c, HomeTeamID: home, AwayTeamID: away,
		Stats: models.MatchStats{HomeScore: hs, AwayScore: as, Scorers: scorers, IsPlayed: true},
	}
}

func TestCompute_SingleMatch(t *testing.T) {
	teams := []models.Team{
		team(1, "B", models.CategoryMasculino),
		team(2, "A", models.CategoryMasculino),
	}
	matches := []models.Match{played(1, 2, 1, 2, 1, models.CategoryMasculino)}

	rows := Compute(teams, matches, models.CategoryMasculino)
	require.Len(t, rows, 2)

	a, b := rows[0], rows[1]
	assert.Equal(t, "A", a.Team.Name)
	assert.Equal(t, Row{Team: teams[1], Played: 1, Won: 1, GoalsFor: 2, GoalsAgainst: 1, Diff: 1, Points: 3}, a)
	assert.Equal(t, Row{Team: teams[0], Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 2, Diff: -1, Points: 0}, b)
}

func TestCompute_AllDrawsKeepInputOrder(t *testing.T) {
	c := models.CategoryFemeninoA
	teams := []models.Team{team(3, "C", c), team(1, "A", c), team(2, "B", c)}
	matches := []models.Match{
		played(1, 3, 1, 0, 0, c),
		played(2, 1, 2, 0, 0, c),
		played(3, 2, 3, 0, 0, c),
	}

	rows := Compute(teams, matches, c)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, teams[i].ID, row.Team.ID)
		assert.Equal(t, 2, row.Played)
		assert.Equal(t, 2, row.Points)
		assert.Equal(t, 0, row.Diff)
	}
}

func TestCompute_TieBreakByGoalDifference(t *testing.T) {
	c := models.CategoryMasculino
	teams := []models.Team{team(1, "A", c), team(2, "B", c), team(3, "C", c), team(4, "D", c)}
	matches := []models.Match{
		played(1, 1, 3, 1, 0, c), // A +1
		played(2, 2, 4, 5, 0, c), // B +5
	}

	rows := Compute(teams, matches, c)
	require.Len(t, rows, 4)
	assert.Equal(t, []int{2, 1, 3, 4}, []int{rows[0].Team.ID, rows[1].Team.ID, rows[2].Team.ID, rows[3].Team.ID})
}

func TestCompute_FiltersCategoryAndUnplayed(t *testing.T) {
	teams := []models.Team{
		team(1, "A", models.CategoryMasculino),
		team(2, "B", models.CategoryMasculino),
		team(3, "X", models.CategoryFemeninoB),
	}
	unplayed := played(2, 1, 2, 4, 0, models.CategoryMasculino)
	unplayed.Stats.IsPlayed = false
	matches := []models.Match{
		played(1, 1, 2, 1, 1, models.CategoryFemeninoB), // wrong category on the match
		unplayed,
	}

	rows := Compute(teams, matches, models.CategoryMasculino)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
	}
}

func TestCompute_EmptyCategory(t *testing.T) {
	rows := Compute(nil, nil, models.CategoryFemeninoB)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCompute_Invariants(t *testing.T) {
	c := models.CategoryMasculino
	teams := []models.Team{team(1, "A", c), team(2, "B", c), team(3, "C", c)}
	matches := []models.Match{
		played(1, 1, 2, 3, 2, c),
		played(2, 2, 3, 1, 1, c),
		played(3, 3, 1, 4, 0, c),
		played(4, 1, 99, 2, 0, c), // opponent no longer exists
	}

	first := Compute(teams, matches, c)
	second := Compute(teams, matches, c)
	assert.Equal(t, first, second, "recomputation must be idempotent")

	seen := map[int]int{}
	totalFor, totalAgainst := 0, 0
	for _, row := range first {
		seen[row.Team.ID]++
		assert.Equal(t, 3*row.Won+row.Drawn, row.Points)
		assert.Equal(t, row.GoalsFor-row.GoalsAgainst, row.Diff)
		assert.Equal(t, row.Played, row.Won+row.Drawn+row.Lost)
		totalFor += row.GoalsFor
		totalAgainst += row.GoalsAgainst
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, seen)
	// Match 4 only credits team 1; removing it restores symmetry.
	assert.Equal(t, totalFor-2, totalAgainst)
}
