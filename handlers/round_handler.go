package handlers

import (
	"net/http"

	"github.com/Dosada05/lamasia-league/services"
)

type RoundHandler struct {
	roundService services.RoundService
	queries      services.QueryService
}

func NewRoundHandler(rs services.RoundService, qs services.QueryService) *RoundHandler {
	return &RoundHandler{roundService: rs, queries: qs}
}

func (h *RoundHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{"rounds": h.queries.Rounds(r.Context())})
}

func (h *RoundHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input services.CreateRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.roundService.CreateRound(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"round": round})
}

// DeleteRound removes the round together with its matches.
func (h *RoundHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	roundID, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.roundService.DeleteRound(r.Context(), user, roundID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoundHandler) GenerateFixture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input services.GenerateFixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.roundService.GenerateFixture(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, result)
}
