package handlers

import (
	"net/http"

	"github.com/Dosada05/lamasia-league/services"
)

type StandingsHandler struct {
	queries   services.QueryService
	publisher services.PublishService
}

func NewStandingsHandler(qs services.QueryService, ps services.PublishService) *StandingsHandler {
	return &StandingsHandler{queries: qs, publisher: ps}
}

func (h *StandingsHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	category, err := requiredCategory(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	rows, err := h.queries.Standings(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"category": category, "table": rows})
}

func (h *StandingsHandler) GetScorers(w http.ResponseWriter, r *http.Request) {
	category, err := requiredCategory(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ranking, err := h.queries.Scorers(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"category": category, "scorers": ranking})
}

func (h *StandingsHandler) GetMVPs(w http.ResponseWriter, r *http.Request) {
	category, err := requiredCategory(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ranking, err := h.queries.MVPs(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"category": category, "mvps": ranking})
}

// Publish uploads the category's standings document to object storage.
func (h *StandingsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	category, err := requiredCategory(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	published, err := h.publisher.PublishStandings(r.Context(), user, category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, published)
}
