package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendDirectAndBroadcast(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	player := e.addUser(models.RolePlayer, nil)
	ctx := context.Background()

	direct, err := e.notifications.Send(ctx, manager, SendNotificationInput{
		Target: "2", Title: "Hola", Message: "Entreno a las 19h", Type: models.NotificationWarning,
	})
	require.NoError(t, err)
	require.NotNil(t, direct.UserID)
	assert.Equal(t, player.ID, *direct.UserID)

	broadcast, err := e.notifications.Send(ctx, manager, SendNotificationInput{Target: "all", Title: "Aviso", Message: "Cancha cerrada"})
	require.NoError(t, err)
	assert.True(t, broadcast.IsBroadcast())
	assert.Equal(t, models.NotificationInfo, broadcast.Type)

	assert.Len(t, e.popups.pushed, 2)
}

func TestNotificationService_SendValidation(t *testing.T) {
	e := newEnv(t)
	manager := e.addUser(models.RoleManager, nil)
	player := e.addUser(models.RolePlayer, nil)
	ctx := context.Background()

	_, err := e.notifications.Send(ctx, player, SendNotificationInput{Target: "all", Title: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = e.notifications.Send(ctx, manager, SendNotificationInput{Target: "everyone", Title: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = e.notifications.Send(ctx, manager, SendNotificationInput{Target: "4242", Title: "x", Message: "y"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = e.notifications.Send(ctx, manager, SendNotificationInput{Target: "all", Title: " ", Message: "y"})
	assert.ErrorIs(t, err, ErrNotificationEmpty)

	_, err = e.notifications.Send(ctx, manager, SendNotificationInput{Target: "all", Title: "x", Message: "y", Type: "error"})
	assert.ErrorIs(t, err, ErrInvalidNotifType)
}

func TestNotificationService_ListVisibleNewestFirst(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(models.RolePlayer, nil)
	bob := e.addUser(models.RoleCaptain, nil)
	ctx := context.Background()

	_, err := e.notifications.Notify(ctx, Notice{Title: "Primero", Message: "broadcast"})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	_, err = e.notifications.Notify(ctx, Notice{UserID: &bob.ID, Title: "Para Bob", Message: "directo"})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	last, err := e.notifications.Notify(ctx, Notice{UserID: &alice.ID, Title: "Para Alice", Message: "directo"})
	require.NoError(t, err)

	feed, err := e.notifications.ListVisible(ctx, alice)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, "Para Alice", feed.Notifications[0].Title)
	assert.Equal(t, "Primero", feed.Notifications[1].Title)
	assert.Equal(t, 2, feed.Unread)

	require.NoError(t, e.notifications.MarkRead(ctx, alice, last.ID))
	feed, err = e.notifications.ListVisible(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Unread)
}

func TestNotificationService_MarkReadOnlyForAddressee(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(models.RolePlayer, nil)
	bob := e.addUser(models.RolePlayer, nil)
	ctx := context.Background()

	n, err := e.notifications.Notify(ctx, Notice{UserID: &bob.ID, Title: "Privado", Message: "solo Bob"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.notifications.MarkRead(ctx, alice, n.ID), ErrForbiddenOperation)
	assert.ErrorIs(t, e.notifications.MarkRead(ctx, alice, 4242), ErrNotificationNotFound)
	require.NoError(t, e.notifications.MarkRead(ctx, bob, n.ID))

	stored, err := fakeNotificationRepo{e.store}.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)
}

func TestNotificationService_EmailsDirectNotifications(t *testing.T) {
	store := newMemStore()
	store.users[1] = models.User{ID: 1, Email: "ana@lamasia.test", Role: models.RolePlayer}
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(fakeNotificationRepo{store}, fakeUserRepo{store}, store, nil, mailer, clockwork.NewFakeClockAt(testNow), testLogger())
	ctx := context.Background()

	_, err := svc.Notify(ctx, Notice{UserID: intPtr(1), Title: "Hola", Message: "directo"})
	require.NoError(t, err, "mail failures do not fail the notification")
	_, err = svc.Notify(ctx, Notice{Title: "Todos", Message: "broadcast"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@lamasia.test|Hola"}, mailer.sent)
}

func TestParseTarget(t *testing.T) {
	id, err := ParseTarget("all")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseTarget(" 12 ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, 12, *id)

	_, err = ParseTarget("-3")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
