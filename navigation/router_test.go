package navigation

import (
	"testing"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(models.Role, View) bool { return true }

func managersOnlyAdmin(role models.Role, view View) bool {
	return view != ViewAdmin || role.AtLeast(models.RoleManager)
}

func TestRouter_RequiresGuard(t *testing.T) {
	assert.Panics(t, func() { NewRouter(nil) })
}

func TestRouter_DefaultsToHome(t *testing.T) {
	r := NewRouter(openAll)
	assert.Equal(t, State{View: ViewHome}, r.Current(42))
}

func TestRouter_NavigateAndReset(t *testing.T) {
	r := NewRouter(openAll)
	user := &models.User{ID: 1, Role: models.RolePlayer}

	st, err := r.Navigate(user, ViewStandings)
	require.NoError(t, err)
	assert.Equal(t, ViewStandings, st.View)
	assert.Equal(t, ViewStandings, r.Current(1).View)

	r.Reset(1)
	assert.Equal(t, ViewHome, r.Current(1).View)
}

func TestRouter_RejectsUnknownView(t *testing.T) {
	r := NewRouter(openAll)
	_, err := r.Navigate(&models.User{ID: 1, Role: models.RoleOwner}, View("settings"))
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.Equal(t, ViewHome, r.Current(1).View)
}

func TestRouter_GuardDecidesView(t *testing.T) {
	r := NewRouter(managersOnlyAdmin)

	for _, role := range []models.Role{models.RolePlayer, models.RoleCaptain} {
		_, err := r.Navigate(&models.User{ID: 1, Role: role}, ViewAdmin)
		assert.ErrorIs(t, err, ErrViewDenied, "role %s", role)
	}
	for _, role := range []models.Role{models.RoleManager, models.RoleOwner} {
		st, err := r.Navigate(&models.User{ID: 2, Role: role}, ViewAdmin)
		require.NoError(t, err, "role %s", role)
		assert.Equal(t, ViewAdmin, st.View)
	}
}

func TestRouter_SelectTeamOpensDetail(t *testing.T) {
	r := NewRouter(openAll)
	user := &models.User{ID: 3, Role: models.RolePlayer}

	st := r.SelectTeam(user, 9)
	assert.Equal(t, ViewTeamDetail, st.View)
	require.NotNil(t, st.SelectedTeamID)
	assert.Equal(t, 9, *st.SelectedTeamID)

	st, err := r.Navigate(user, ViewMatches)
	require.NoError(t, err)
	assert.Equal(t, ViewMatches, st.View)
	require.NotNil(t, st.SelectedTeamID)
	assert.Equal(t, 9, *st.SelectedTeamID)

	r.Reset(3)
	assert.Nil(t, r.Current(3).SelectedTeamID)
}

func TestRouter_StatesAreIndependentPerUser(t *testing.T) {
	r := NewRouter(openAll)
	_, err := r.Navigate(&models.User{ID: 1, Role: models.RolePlayer}, ViewProfile)
	require.NoError(t, err)

	assert.Equal(t, ViewProfile, r.Current(1).View)
	assert.Equal(t, ViewHome, r.Current(2).View)
}
