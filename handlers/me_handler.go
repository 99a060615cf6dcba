package handlers

import (
	"net/http"

	"github.com/Dosada05/lamasia-league/navigation"
	"github.com/Dosada05/lamasia-league/services"
)

// MeHandler serves the caller's profile and view-router state.
type MeHandler struct {
	navigator Navigator
	queries   services.QueryService
}

func NewMeHandler(navigator Navigator, qs services.QueryService) *MeHandler {
	return &MeHandler{navigator: navigator, queries: qs}
}

func (h *MeHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

func (h *MeHandler) GetView(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, h.navigator.Current(user.ID))
}

func (h *MeHandler) SetView(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input struct {
		View navigation.View `json:"view"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	st, err := h.navigator.Navigate(user, input.View)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, st)
}

// SelectTeam opens team-detail for an existing team.
func (h *MeHandler) SelectTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.teamExists(r, teamID) {
		mapServiceErrorToHTTP(w, r, services.ErrTeamNotFound)
		return
	}
	respond(w, r, http.StatusOK, h.navigator.SelectTeam(user, teamID))
}

func (h *MeHandler) teamExists(r *http.Request, teamID int) bool {
	for _, t := range h.queries.Teams(r.Context(), nil) {
		if t.ID == teamID {
			return true
		}
	}
	return false
}
