// Package navigation holds the current view of every signed-in user.
package navigation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Dosada05/lamasia-league/models"
)

type View string

const (
	ViewHome          View = "home"
	ViewMatches       View = "matches"
	ViewStandings     View = "standings"
	ViewTeamRoster    View = "team-roster"
	ViewTeamDetail    View = "team-detail"
	ViewProfile       View = "profile"
	ViewNotifications View = "notifications"
	ViewAdmin         View = "admin"
)

// DefaultView is where every session starts and ends.
const DefaultView = ViewHome

var Views = []View{
	ViewHome, ViewMatches, ViewStandings, ViewTeamRoster,
	ViewTeamDetail, ViewProfile, ViewNotifications, ViewAdmin,
}

func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

var (
	ErrUnknownView = errors.New("unknown view")
	ErrViewDenied  = errors.New("view not allowed for role")
)

// State is the navigation state of one user. There is no history.
type State struct {
	View           View `json:"view"`
	SelectedTeamID *int `json:"selected_team_id,omitempty"`
}

// Guard decides whether a role may open a view. Role policy lives with the
// caller; the router never checks roles itself.
type Guard func(role models.Role, view View) bool

type Router struct {
	guard Guard

	mu     sync.Mutex
	states map[int]State
}

func NewRouter(guard Guard) *Router {
	if guard == nil {
		panic("navigation: nil guard")
	}
	return &Router{guard: guard, states: make(map[int]State)}
}

// Current returns the user's state, DefaultView for unknown users.
func (r *Router) Current(userID int) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[userID]; ok {
		return st
	}
	return State{View: DefaultView}
}

// Navigate switches the current view. The selected team is kept so that
// returning to team-detail shows the same team.
func (r *Router) Navigate(user *models.User, view View) (State, error) {
	if !view.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	if !r.guard(user.Role, view) {
		return State{}, ErrViewDenied
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[user.ID]
	if !ok {
		st = State{View: DefaultView}
	}
	st.View = view
	r.states[user.ID] = st
	return st, nil
}

// SelectTeam records the team and opens team-detail.
func (r *Router) SelectTeam(user *models.User, teamID int) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := teamID
	st := State{View: ViewTeamDetail, SelectedTeamID: &id}
	r.states[user.ID] = st
	return st
}

// Reset drops the user's state. Called on sign-in and sign-out.
func (r *Router) Reset(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, userID)
}
