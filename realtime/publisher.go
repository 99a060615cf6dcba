package realtime

import (
	"context"
	"log/slog"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/standings"
	"github.com/Dosada05/lamasia-league/state"
)

// Broadcaster is the part of the Hub the Publisher needs.
type Broadcaster interface {
	BroadcastToRoom(room string, msg Message)
}

type SnapshotPayload struct {
	Collection state.Collection `json:"collection"`
	Version    uint64           `json:"version"`
}

type CategoryStandings struct {
	Category models.Category         `json:"category"`
	Table    []standings.Row          `json:"table"`
	Scorers  []standings.RankingEntry `json:"scorers"`
	MVPs     []standings.RankingEntry `json:"mvps"`
}

type StandingsPayload struct {
	Version    uint64              `json:"version"`
	Categories []CategoryStandings `json:"categories"`
}

// Publisher turns snapshot changes into hub messages.
type Publisher struct {
	hub    Broadcaster
	reader state.Reader
	logger *slog.Logger
}

func NewPublisher(hub Broadcaster, reader state.Reader, logger *slog.Logger) *Publisher {
	return &Publisher{hub: hub, reader: reader, logger: logger}
}

// Run forwards changes until ctx ends or the subscription closes.
func (p *Publisher) Run(ctx context.Context, changes <-chan state.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				p.logger.Info("snapshot subscription closed")
				return
			}
			p.Publish(change)
		}
	}
}

func (p *Publisher) Publish(change state.Change) {
	for _, col := range change.Collections {
		p.hub.BroadcastToRoom(RoomAll, Message{
			Type:    TypeSnapshotUpdated,
			Payload: SnapshotPayload{Collection: col, Version: change.Version},
		})
	}

	// бомбардиры и MVP зависят ещё и от игроков
	if !change.Has(state.Teams) && !change.Has(state.Matches) && !change.Has(state.Players) {
		return
	}
	snap := p.reader.Snapshot()
	payload := StandingsPayload{Version: snap.Version, Categories: make([]CategoryStandings, 0, len(models.Categories))}
	for _, category := range models.Categories {
		payload.Categories = append(payload.Categories, CategoryStandings{
			Category: category,
			Table:    standings.Compute(snap.Teams, snap.Matches, category),
			Scorers:  standings.Scorers(snap.Matches, snap.Players, snap.Teams, category),
			MVPs:     standings.MVPs(snap.Matches, snap.Players, snap.Teams, category),
		})
	}
	p.hub.BroadcastToRoom(RoomAll, Message{Type: TypeStandingsUpdated, Payload: payload})
	p.logger.Debug("standings pushed", slog.Uint64("version", snap.Version))
}
