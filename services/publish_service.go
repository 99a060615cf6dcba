package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/standings"
	"github.com/Dosada05/lamasia-league/state"
	"github.com/Dosada05/lamasia-league/storage"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const standingsKeyPrefix = "standings"

type PublishService interface {
	PublishStandings(ctx context.Context, actor *models.User, category models.Category) (*PublishedStandings, error)
}

// StandingsDocument is the public JSON written to object storage.
type StandingsDocument struct {
	Category    models.Category          `json:"category"`
	GeneratedAt time.Time                `json:"generated_at"`
	Version     uint64                   `json:"version"`
	Table       []standings.Row          `json:"table"`
	Scorers     []standings.RankingEntry `json:"scorers"`
	MVPs        []standings.RankingEntry `json:"mvps"`
}

type PublishedStandings struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type publishService struct {
	reader   state.Reader
	uploader storage.FileUploader
	clock    clockwork.Clock
	logger   *slog.Logger

	mu     sync.Mutex
	latest map[models.Category]string // последний опубликованный ключ
}

// NewPublishService wires publishing. A nil uploader disables it.
func NewPublishService(reader state.Reader, uploader storage.FileUploader, clock clockwork.Clock, logger *slog.Logger) PublishService {
	return &publishService{
		reader:   reader,
		uploader: uploader,
		clock:    clock,
		logger:   logger,
		latest:   make(map[models.Category]string),
	}
}

func (s *publishService) PublishStandings(ctx context.Context, actor *models.User, category models.Category) (*PublishedStandings, error) {
	if err := Authorize(actor, ActionPublishStandings, Scope{}); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if s.uploader == nil {
		return nil, ErrPublishingDisabled
	}

	snap := s.reader.Snapshot()
	doc := StandingsDocument{
		Category:    category,
		GeneratedAt: s.clock.Now().UTC(),
		Version:     snap.Version,
		Table:       standings.Compute(snap.Teams, snap.Matches, category),
		Scorers:     standings.Scorers(snap.Matches, snap.Players, snap.Teams, category),
		MVPs:        standings.MVPs(snap.Matches, snap.Players, snap.Teams, category),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", standingsKeyPrefix, strings.ToLower(string(category)), uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to publish standings: %w", err)
	}

	s.logger.Info("standings published",
		slog.String("category", string(category)),
		slog.String("key", result.Key),
		slog.Uint64("version", snap.Version))

	s.replacePrevious(ctx, category, result.Key)
	return &PublishedStandings{Key: result.Key, URL: result.Location}, nil
}

// replacePrevious remembers key as the category's current document and removes
// the one it replaces. A failed delete leaves a stale object behind but does not
// fail the publish.
func (s *publishService) replacePrevious(ctx context.Context, category models.Category, key string) {
	s.mu.Lock()
	previous := s.latest[category]
	s.latest[category] = key
	s.mu.Unlock()

	if previous == "" || previous == key {
		return
	}
	if err := s.uploader.Delete(ctx, previous); err != nil {
		s.logger.Warn("failed to delete previous standings",
			slog.String("category", string(category)),
			slog.String("key", previous),
			slog.Any("error", err))
	}
}
