package services

import (
	"context"
	"testing"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_FiltersByCategoryAndRound(t *testing.T) {
	e := newEnv(t)
	a := e.addTeam("A", models.CategoryMasculino)
	b := e.addTeam("B", models.CategoryMasculino)
	f := e.addTeam("F", models.CategoryFemeninoA)
	g := e.addTeam("G", models.CategoryFemeninoA)
	r1 := e.addRound("Fecha 1")
	r2 := e.addRound("Fecha 2")
	e.addMatch(r1.ID, models.CategoryMasculino, a.ID, b.ID)
	e.addMatch(r2.ID, models.CategoryMasculino, b.ID, a.ID)
	e.addMatch(r1.ID, models.CategoryFemeninoA, f.ID, g.ID)
	ctx := context.Background()

	masc := models.CategoryMasculino
	assert.Len(t, e.queries.Teams(ctx, &masc), 2)
	assert.Len(t, e.queries.Teams(ctx, nil), 4)

	assert.Len(t, e.queries.Matches(ctx, MatchQuery{Category: &masc}), 2)
	assert.Len(t, e.queries.Matches(ctx, MatchQuery{RoundID: &r1.ID}), 2)
	assert.Len(t, e.queries.Matches(ctx, MatchQuery{Category: &masc, RoundID: &r2.ID}), 1)
}

func TestQueryService_CareerAndInvalidCategory(t *testing.T) {
	e := newEnv(t)
	a := e.addTeam("A", models.CategoryMasculino)
	ctx := context.Background()

	career, err := e.queries.TeamCareer(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, career.Team.ID)
	assert.Zero(t, career.Record.Played)

	_, err = e.queries.TeamCareer(ctx, 4242)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = e.queries.Standings(ctx, "MIXTO")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = e.queries.Scorers(ctx, "MIXTO")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = e.queries.MVPs(ctx, "MIXTO")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	rows, err := e.queries.Standings(ctx, models.CategoryFemeninoB)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
