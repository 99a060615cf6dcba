// Package fixtures builds league schedules.
package fixtures

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughTeams = errors.New("fixtures: at least 2 teams are required")
	ErrInvalidLegs    = errors.New("fixtures: legs must be 1 or 2")
	ErrDuplicateTeam  = errors.New("fixtures: duplicate team id")
)

// bye marks the resting slot when the team count is odd.
const bye = 0

type Pairing struct {
	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`
}

// MatchDay is one round of the schedule: every team plays at most once.
type MatchDay struct {
	Number   int       `json:"number"`
	Pairings []Pairing `json:"pairings"`
}

// RoundRobin schedules every team against every other team once per leg
// using the circle method. The second leg mirrors the first with home and
// away swapped.
func RoundRobin(teamIDs []int, legs int) ([]MatchDay, error) {
	if legs != 1 && legs != 2 {
		return nil, ErrInvalidLegs
	}
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	seen := make(map[int]bool, len(teamIDs))
	slots := make([]int, 0, len(teamIDs)+1)
	for _, id := range teamIDs {
		if id == bye {
			return nil, fmt.Errorf("fixtures: invalid team id %d", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTeam, id)
		}
		seen[id] = true
		slots = append(slots, id)
	}
	if len(slots)%2 != 0 {
		slots = append(slots, bye)
	}

	n := len(slots)
	firstLeg := make([]MatchDay, 0, n-1)
	for day := 0; day < n-1; day++ {
		md := MatchDay{Number: day + 1, Pairings: make([]Pairing, 0, n/2)}
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Фиксированная команда чередует дом и выезд.
			if i == 0 && day%2 == 1 {
				home, away = away, home
			}
			md.Pairings = append(md.Pairings, Pairing{HomeTeamID: home, AwayTeamID: away})
		}
		firstLeg = append(firstLeg, md)
		rotate(slots)
	}

	if legs == 1 {
		return firstLeg, nil
	}

	days := make([]MatchDay, 0, 2*len(firstLeg))
	days = append(days, firstLeg...)
	for _, md := range firstLeg {
		mirrored := MatchDay{Number: md.Number + len(firstLeg), Pairings: make([]Pairing, 0, len(md.Pairings))}
		for _, p := range md.Pairings {
			mirrored.Pairings = append(mirrored.Pairings, Pairing{HomeTeamID: p.AwayTeamID, AwayTeamID: p.HomeTeamID})
		}
		days = append(days, mirrored)
	}
	return days, nil
}

// rotate keeps slots[0] fixed and moves every other slot one step clockwise.
func rotate(slots []int) {
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}
