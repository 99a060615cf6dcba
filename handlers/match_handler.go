package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/services"
)

type MatchHandler struct {
	matchService services.MatchService
	queries      services.QueryService
}

func NewMatchHandler(ms services.MatchService, qs services.QueryService) *MatchHandler {
	return &MatchHandler{matchService: ms, queries: qs}
}

// ListMatches supports ?category= and ?round_id= filters.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	category, err := categoryFromQuery(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	filter := services.MatchQuery{Category: category}
	if raw := r.URL.Query().Get("round_id"); raw != "" {
		roundID, err := strconv.Atoi(raw)
		if err != nil || roundID <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid round_id: %q", raw))
			return
		}
		filter.RoundID = &roundID
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": h.queries.Matches(r.Context(), filter)})
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"match": match})
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.DeleteMatch(r.Context(), user, matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateResult replaces the whole stats block of a match.
func (h *MatchHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var stats models.MatchStats
	if err := readJSON(w, r, &stats); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateResult(r.Context(), user, matchID, stats)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"match": match})
}
