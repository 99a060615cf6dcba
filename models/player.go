package models

import "time"

type Player struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Number int    `json:"number" db:"number"`
	TeamID int    `json:"team_id" db:"team_id"`
	// Goals is a cached tally of scorer entries in played matches.
	Goals     int       `json:"goals" db:"goals"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
