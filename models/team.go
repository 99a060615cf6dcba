package models

import "time"

// TeamColors is the palette offered for a team's display colour tag.
var TeamColors = []string{
	"bg-red-600", "bg-blue-600", "bg-green-600", "bg-yellow-500",
	"bg-purple-600", "bg-pink-500", "bg-indigo-600", "bg-orange-500",
	"bg-cyan-600", "bg-slate-800", "bg-emerald-500", "bg-rose-500",
}

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
