// Package state mirrors the league collections in memory and tells
// subscribers when any of them changes.
package state

import "github.com/Dosada05/lamasia-league/models"

// Collection names one mirrored table. The values equal the table names
// sent by the change feed.
type Collection string

const (
	Teams         Collection = "teams"
	Matches       Collection = "matches"
	Players       Collection = "players"
	Rounds        Collection = "rounds"
	Users         Collection = "users"
	Notifications Collection = "notifications"
)

var AllCollections = []Collection{Teams, Matches, Players, Rounds, Users, Notifications}

func (c Collection) Valid() bool {
	switch c {
	case Teams, Matches, Players, Rounds, Users, Notifications:
		return true
	}
	return false
}

// Snapshot is an immutable view of every collection. Slices are replaced,
// never modified in place, so a Snapshot may be read without locking.
type Snapshot struct {
	Teams         []models.Team
	Matches       []models.Match
	Players       []models.Player
	Rounds        []models.Round
	Users         []models.User
	Notifications []models.Notification
	// Version grows by one on every applied reload.
	Version uint64
}

// Reader is the read-only accessor handed to queries and views.
type Reader interface {
	Snapshot() Snapshot
}

// Change reports which collections were reloaded to reach Version.
type Change struct {
	Collections []Collection `json:"collections"`
	Version     uint64       `json:"version"`
}

func (c Change) Has(col Collection) bool {
	for _, existing := range c.Collections {
		if existing == col {
			return true
		}
	}
	return false
}

// merge folds a newer change into c, keeping the newest version.
func (c Change) merge(newer Change) Change {
	out := Change{Collections: append([]Collection(nil), c.Collections...), Version: newer.Version}
	for _, col := range newer.Collections {
		if !out.Has(col) {
			out.Collections = append(out.Collections, col)
		}
	}
	return out
}
