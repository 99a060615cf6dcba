package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUploader struct {
	objects   map[string][]byte
	deleted   []string
	deleteErr error
}

func (u *memUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (u *memUploader) Delete(ctx context.Context, key string) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	u.deleted = append(u.deleted, key)
	delete(u.objects, key)
	return nil
}

func TestPublishService_UploadsStandingsDocument(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	a := e.addTeam("A", models.CategoryMasculino)
	b := e.addTeam("B", models.CategoryMasculino)
	m := e.addMatch(e.addRound("Fecha 1").ID, models.CategoryMasculino, a.ID, b.ID)
	e.store.mu.Lock()
	m.Stats = models.MatchStats{HomeScore: 2, AwayScore: 1, IsPlayed: true, Scorers: []models.ScorerEntry{}}
	e.store.matches[m.ID] = m
	e.store.mu.Unlock()

	uploader := &memUploader{objects: map[string][]byte{}}
	svc := NewPublishService(e.store, uploader, e.clock, testLogger())

	published, err := svc.PublishStandings(context.Background(), manager, models.CategoryMasculino)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(published.Key, "standings/masculino/"))
	assert.True(t, strings.HasSuffix(published.Key, ".json"))
	assert.Equal(t, "https://cdn.test/"+published.Key, published.URL)

	var doc StandingsDocument
	require.NoError(t, json.Unmarshal(uploader.objects[published.Key], &doc))
	assert.Equal(t, models.CategoryMasculino, doc.Category)
	assert.True(t, testNow.Equal(doc.GeneratedAt))
	require.Len(t, doc.Table, 2)
	assert.Equal(t, "A", doc.Table[0].Team.Name)
	assert.Equal(t, 3, doc.Table[0].Points)
}

func TestPublishService_DisabledAndForbidden(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	captain := e.addUser(models.RoleCaptain, nil)

	disabled := NewPublishService(e.store, nil, e.clock, testLogger())
	_, err := disabled.PublishStandings(context.Background(), manager, models.CategoryMasculino)
	assert.ErrorIs(t, err, ErrPublishingDisabled)

	enabled := NewPublishService(e.store, &memUploader{objects: map[string][]byte{}}, e.clock, testLogger())
	_, err = enabled.PublishStandings(context.Background(), captain, models.CategoryMasculino)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = enabled.PublishStandings(context.Background(), manager, "MIXTO")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestPublishService_ReplacesPreviousDocument(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	uploader := &memUploader{objects: map[string][]byte{}}
	svc := NewPublishService(e.store, uploader, e.clock, testLogger())
	ctx := context.Background()

	first, err := svc.PublishStandings(ctx, manager, models.CategoryMasculino)
	require.NoError(t, err)
	femenino, err := svc.PublishStandings(ctx, manager, models.CategoryFemeninoA)
	require.NoError(t, err)
	assert.Empty(t, uploader.deleted)

	second, err := svc.PublishStandings(ctx, manager, models.CategoryMasculino)
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, []string{first.Key}, uploader.deleted)

	assert.Len(t, uploader.objects, 2)
	assert.Contains(t, uploader.objects, second.Key)
	assert.Contains(t, uploader.objects, femenino.Key)
}

func TestPublishService_DeleteFailureKeepsPublish(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	uploader := &memUploader{objects: map[string][]byte{}, deleteErr: errors.New("r2 unavailable")}
	svc := NewPublishService(e.store, uploader, e.clock, testLogger())
	ctx := context.Background()

	_, err := svc.PublishStandings(ctx, manager, models.CategoryMasculino)
	require.NoError(t, err)
	second, err := svc.PublishStandings(ctx, manager, models.CategoryMasculino)
	require.NoError(t, err)
	assert.Contains(t, uploader.objects, second.Key)
	assert.Len(t, uploader.objects, 2)
}
