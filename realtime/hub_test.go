package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatalf("client %d has no pending message", c.UserID)
		return Message{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	assert.Len(t, c.Send, 0, "client %d should have no pending message", c.UserID)
}

func TestHub_PopupsOnlyReachGrantedRecipients(t *testing.T) {
	hub := NewHub(testLogger())
	alice := NewClient(hub, nil, 1, true)
	aliceMuted := NewClient(hub, nil, 1, false)
	bob := NewClient(hub, nil, 2, true)
	for _, c := range []*Client{alice, aliceMuted, bob} {
		hub.add(c)
	}

	userID := 1
	hub.PushPopup(models.Notification{ID: 7, UserID: &userID, Title: "Hola", Message: "directo"})

	msg := receive(t, alice)
	assert.Equal(t, TypeNotificationPopup, msg.Type)
	assert.Equal(t, "user_1", msg.RoomID)
	assertSilent(t, aliceMuted)
	assertSilent(t, bob)

	hub.PushPopup(models.Notification{ID: 8, Title: "Todos", Message: "broadcast"})
	assert.Equal(t, RoomAll, receive(t, alice).RoomID)
	assert.Equal(t, RoomAll, receive(t, bob).RoomID)
	assertSilent(t, aliceMuted)
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(testLogger())
	a := NewClient(hub, nil, 1, false)
	b := NewClient(hub, nil, 2, true)
	hub.add(a)
	hub.add(b)
	assert.Equal(t, 2, hub.RoomSize(RoomAll))
	assert.Equal(t, 1, hub.RoomSize(UserRoom(2)))

	hub.BroadcastToRoom(RoomAll, Message{Type: TypeSnapshotUpdated, Payload: SnapshotPayload{Collection: "teams", Version: 3}})
	assert.Equal(t, TypeSnapshotUpdated, receive(t, a).Type)
	assert.Equal(t, TypeSnapshotUpdated, receive(t, b).Type)
}

func TestHub_RemoveClosesSendChannel(t *testing.T) {
	hub := NewHub(testLogger())
	c := NewClient(hub, nil, 5, true)
	hub.add(c)
	hub.remove(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.RoomSize(RoomAll))
	assert.Zero(t, hub.RoomSize(UserRoom(5)))

	// повторное удаление и отправка после закрытия не паникуют
	hub.remove(c)
	hub.BroadcastToRoom(RoomAll, Message{Type: TypeSnapshotUpdated})
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(testLogger())
	c := NewClient(hub, nil, 1, false)
	hub.add(c)
	for i := 0; i < sendBuffer+5; i++ {
		hub.BroadcastToRoom(RoomAll, Message{Type: TypeSnapshotUpdated})
	}
	assert.Len(t, c.Send, sendBuffer)
}

func TestHub_RunStopsAndClosesClientsOnCancel(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := NewClient(hub, nil, 1, false)
	require.True(t, hub.Join(c))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_JoinAndLeaveReturnAfterShutdown(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil, 1, false)
	require.True(t, hub.Join(c))
	cancel()
	<-stopped

	returned := make(chan bool, 1)
	go func() {
		late := NewClient(hub, nil, 2, false)
		joined := hub.Join(late)
		hub.Leave(late)
		hub.Leave(c)
		returned <- joined
	}()

	select {
	case joined := <-returned:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("Join/Leave blocked after hub shutdown")
	}
	assert.Zero(t, hub.RoomSize(RoomAll))
}
