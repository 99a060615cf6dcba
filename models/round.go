package models

import "time"

// Round группирует матчи (игровой день или стадия плей-офф).
type Round struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Date      *time.Time `json:"date,omitempty" db:"date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
