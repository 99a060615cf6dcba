package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScorerEntry — сколько голов забил игрок в конкретном матче.
type ScorerEntry struct {
	PlayerID int `json:"player_id"`
	Count    int `json:"count"`
}

// MatchStats is embedded in a Match and replaced as a whole by the score-entry workflow.
type MatchStats struct {
	HomeScore   int           `json:"home_score"`
	AwayScore   int           `json:"away_score"`
	Scorers     []ScorerEntry `json:"scorers"`
	MVPPlayerID *int          `json:"mvp_player_id,omitempty"`
	// Summary is accepted from clients but never persisted.
	Summary  string `json:"summary,omitempty"`
	IsPlayed bool   `json:"is_played"`
}

// Value stores the stats as a single JSONB document without the transient summary.
func (s MatchStats) Value() (driver.Value, error) {
	s.Summary = ""
	if s.Scorers == nil {
		s.Scorers = []ScorerEntry{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode match stats: %w", err)
	}
	return b, nil
}

func (s *MatchStats) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = MatchStats{Scorers: []ScorerEntry{}}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported match stats source type %T", src)
	}
	var decoded MatchStats
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode match stats: %w", err)
	}
	if decoded.Scorers == nil {
		decoded.Scorers = []ScorerEntry{}
	}
	*s = decoded
	return nil
}

type Match struct {
	ID         int        `json:"id" db:"id"`
	RoundID    int        `json:"round_id" db:"round_id"`
	Category   Category   `json:"category" db:"category"`
	Date       time.Time  `json:"date" db:"match_time"`
	HomeTeamID int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int        `json:"away_team_id" db:"away_team_id"`
	Stats      MatchStats `json:"stats" db:"stats"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Involves reports whether the team plays this match on either side.
func (m *Match) Involves(teamID int) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// ScoresFor returns the score of teamID and of its opponent.
func (m *Match) ScoresFor(teamID int) (mine, opponent int) {
	if m.HomeTeamID == teamID {
		return m.Stats.HomeScore, m.Stats.AwayScore
	}
	return m.Stats.AwayScore, m.Stats.HomeScore
}
