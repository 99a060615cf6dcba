package services

import (
	"testing"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/navigation"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize_RoleThresholds(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleOwner}
	manager := &models.User{ID: 2, Role: models.RoleManager}
	captain := &models.User{ID: 3, Role: models.RoleCaptain, TeamID: intPtr(10)}
	player := &models.User{ID: 4, Role: models.RolePlayer, TeamID: intPtr(10)}

	tests := []struct {
		name   string
		actor  *models.User
		action Action
		scope  Scope
		ok     bool
	}{
		{"manager manages teams", manager, ActionManageTeams, Scope{}, true},
		{"owner records results", owner, ActionRecordResult, Scope{}, true},
		{"captain cannot manage teams", captain, ActionManageTeams, Scope{}, false},
		{"player cannot delete rounds", player, ActionManageRounds, Scope{}, false},
		{"manager cannot update roles", manager, ActionUpdateRoles, Scope{}, false},
		{"owner updates roles", owner, ActionUpdateRoles, Scope{}, true},
		{"manager cannot list users", manager, ActionListUsers, Scope{}, false},
		{"captain manages own roster", captain, ActionManagePlayers, Scope{TeamID: intPtr(10)}, true},
		{"captain cannot touch other roster", captain, ActionManagePlayers, Scope{TeamID: intPtr(11)}, false},
		{"manager manages any roster", manager, ActionManagePlayers, Scope{TeamID: intPtr(11)}, true},
		{"player cannot manage roster", player, ActionManagePlayers, Scope{TeamID: intPtr(10)}, false},
		{"manager opens admin", manager, ActionOpenAdmin, Scope{}, true},
		{"captain cannot send notifications", captain, ActionSendNotification, Scope{}, false},
		{"unknown action", owner, Action("launch_rocket"), Scope{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.action, tt.scope)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbiddenOperation)
			}
		})
	}
}

func TestAuthorize_MarkRead(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RolePlayer}

	assert.NoError(t, Authorize(user, ActionMarkRead, Scope{Notification: &models.Notification{UserID: intPtr(7)}}))
	assert.NoError(t, Authorize(user, ActionMarkRead, Scope{Notification: &models.Notification{}}), "broadcast")
	assert.ErrorIs(t, Authorize(user, ActionMarkRead, Scope{Notification: &models.Notification{UserID: intPtr(8)}}), ErrForbiddenOperation)
	assert.ErrorIs(t, Authorize(user, ActionMarkRead, Scope{}), ErrForbiddenOperation)
}

func TestAuthorize_RequiresActor(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, ActionManageTeams, Scope{}), ErrAuthenticationFailed)
	assert.ErrorIs(t, Authorize(&models.User{ID: 1, Role: "guest"}, ActionManageTeams, Scope{}), ErrAuthenticationFailed)
}

func TestViewGuard(t *testing.T) {
	assert.True(t, ViewGuard(models.RolePlayer, navigation.ViewStandings))
	assert.False(t, ViewGuard(models.RoleCaptain, navigation.ViewAdmin))
	assert.True(t, ViewGuard(models.RoleManager, navigation.ViewAdmin))
	assert.True(t, ViewGuard(models.RoleOwner, navigation.ViewAdmin))
}
