package services

import (
	"fmt"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/navigation"
)

// Action is a guarded operation. Every mutation entry point asks Authorize.
type Action string

const (
	ActionManageTeams      Action = "manage_teams"
	ActionManageRounds     Action = "manage_rounds"
	ActionManageMatches    Action = "manage_matches"
	ActionRecordResult     Action = "record_result"
	ActionManagePlayers    Action = "manage_players"
	ActionSendNotification Action = "send_notification"
	ActionMarkRead         Action = "mark_notification_read"
	ActionUpdateRoles      Action = "update_roles"
	ActionListUsers        Action = "list_users"
	ActionPublishStandings Action = "publish_standings"
	ActionOpenAdmin        Action = "open_admin"
)

// Scope carries the resource an action targets, when it matters.
type Scope struct {
	TeamID       *int
	Notification *models.Notification
}

// Authorize is the single access check of the service layer.
func Authorize(actor *models.User, action Action, scope Scope) error {
	if actor == nil || !actor.Role.Valid() {
		return ErrAuthenticationFailed
	}

	switch action {
	case ActionManageTeams, ActionManageRounds, ActionManageMatches, ActionRecordResult,
		ActionSendNotification, ActionPublishStandings, ActionOpenAdmin:
		return requireRole(actor, action, models.RoleManager)

	case ActionUpdateRoles, ActionListUsers:
		return requireRole(actor, action, models.RoleOwner)

	case ActionManagePlayers:
		if actor.Role.AtLeast(models.RoleManager) {
			return nil
		}
		// Капитан управляет только составом своей команды.
		if actor.Role == models.RoleCaptain && actor.TeamID != nil && scope.TeamID != nil && *actor.TeamID == *scope.TeamID {
			return nil
		}
		return fmt.Errorf("%w: %s is limited to managers and the team's captain", ErrForbiddenOperation, action)

	case ActionMarkRead:
		if scope.Notification == nil || !scope.Notification.VisibleTo(actor.ID) {
			return fmt.Errorf("%w: notification is addressed to another user", ErrForbiddenOperation)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown action %q", ErrForbiddenOperation, action)
}

func requireRole(actor *models.User, action Action, min models.Role) error {
	if actor.Role.AtLeast(min) {
		return nil
	}
	return fmt.Errorf("%w: %s requires role %s", ErrForbiddenOperation, action, min)
}

// ViewGuard lets the view router ask the same access check for the admin view.
func ViewGuard(role models.Role, view navigation.View) bool {
	if view != navigation.ViewAdmin {
		return true
	}
	return Authorize(&models.User{Role: role}, ActionOpenAdmin, Scope{}) == nil
}
