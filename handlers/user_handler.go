package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	users, err := h.userService.ListUsers(r.Context(), user)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"users": users})
}

// UpdateRole accepts {"role": …} or {"role": …, "team_id": …}. Sending
// team_id, even as null, also rewrites the team assignment.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var body map[string]json.RawMessage
	if err := readJSON(w, r, &body); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	change, err := decodeRoleChange(body)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.userService.UpdateRole(r.Context(), actor, userID, change)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": updated})
}

func decodeRoleChange(body map[string]json.RawMessage) (services.RoleChange, error) {
	for key := range body {
		if key != "role" && key != "team_id" {
			return nil, fmt.Errorf("body contains unknown key %q", key)
		}
	}
	rawRole, ok := body["role"]
	if !ok {
		return nil, errors.New("role is required")
	}
	var role models.Role
	if err := json.Unmarshal(rawRole, &role); err != nil {
		return nil, fmt.Errorf("body contains incorrect JSON type for field %q", "role")
	}

	rawTeam, ok := body["team_id"]
	if !ok {
		return services.RoleUpdate{Role: role}, nil
	}
	var teamID *int
	if err := json.Unmarshal(rawTeam, &teamID); err != nil {
		return nil, fmt.Errorf("body contains incorrect JSON type for field %q", "team_id")
	}
	return services.RoleTeamUpdate{Role: role, TeamID: teamID}, nil
}
