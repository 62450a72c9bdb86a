package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabquiz/internal/quiz"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, conn *Connection) service.Event {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "connection closed")
		var event service.Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return service.Event{}
	}
}

func TestHubDeliversToLearnerOnly(t *testing.T) {
	hub := startHub(t)

	alice := NewConnection("alice")
	aliceTab := NewConnection("alice")
	bob := NewConnection("bob")
	hub.Register(alice, nil)
	hub.Register(aliceTab, nil)
	hub.Register(bob, nil)

	hub.Notify("alice", service.Event{Type: service.EventSessionUpdate, Snapshot: quiz.Snapshot{SessionID: "s1", State: quiz.StateShowingFeedback}})

	for _, conn := range []*Connection{alice, aliceTab} {
		event := receive(t, conn)
		assert.Equal(t, service.EventSessionUpdate, event.Type)
		assert.Equal(t, "s1", event.Snapshot.SessionID)
	}

	select {
	case <-bob.Send:
		t.Fatal("bob received alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	hub := startHub(t)

	conn := NewConnection("alice")
	hub.Register(conn, nil)
	assert.Eventually(t, func() bool { return hub.connections("alice") == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(conn)
	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.connections("alice"))
}

func TestHubStopClosesConnections(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := NewConnection("alice")
	hub.Register(conn, nil)
	cancel()
	<-stopped

	_, ok := <-conn.Send
	assert.False(t, ok)

	late := NewConnection("bob")
	assert.False(t, hub.Register(late, func() []byte { return []byte("{}") }))
	_, ok = <-late.Send
	assert.False(t, ok, "registration after stop closes immediately")
	hub.Unregister(late)
}

func TestHubQueuesInitialFrameBeforeLaterEvents(t *testing.T) {
	hub := startHub(t)

	conn := NewConnection("alice")
	require.True(t, hub.Register(conn, func() []byte {
		data, err := json.Marshal(service.Event{Type: service.EventSessionUpdate, Snapshot: quiz.Snapshot{SessionID: "s1", Version: 3}})
		assert.NoError(t, err)
		return data
	}))
	hub.Notify("alice", service.Event{Type: service.EventSessionUpdate, Snapshot: quiz.Snapshot{SessionID: "s1", Version: 4}})

	assert.Equal(t, uint64(3), receive(t, conn).Snapshot.Version)
	assert.Equal(t, uint64(4), receive(t, conn).Snapshot.Version)
}

type fixedSnapshots map[string]quiz.Snapshot

func (f fixedSnapshots) Snapshot(learnerID string) (quiz.Snapshot, error) {
	snap, ok := f[learnerID]
	if !ok {
		return quiz.Snapshot{}, service.ErrNoActiveQuiz
	}
	return snap, nil
}

func TestHandlerStreamsEvents(t *testing.T) {
	hub := startHub(t)
	handler := NewHandler(hub, fixedSnapshots{"alice": {SessionID: "s1", State: quiz.StateAwaitingInput, Prompt: "Mèo"}}, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r.WithContext(security.WithLearner(r.Context(), "alice")))
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	var initial service.Event
	require.NoError(t, client.ReadJSON(&initial))
	assert.Equal(t, "Mèo", initial.Snapshot.Prompt)

	assert.Eventually(t, func() bool { return hub.connections("alice") == 1 }, time.Second, 10*time.Millisecond)
	hub.Notify("alice", service.Event{Type: service.EventSessionCancelled, Snapshot: quiz.Snapshot{SessionID: "s1", State: quiz.StateCancelled}})

	var next service.Event
	require.NoError(t, client.ReadJSON(&next))
	assert.Equal(t, service.EventSessionCancelled, next.Type)
	assert.Equal(t, quiz.StateCancelled, next.Snapshot.State)
}

func TestHandlerRequiresLearner(t *testing.T) {
	handler := NewHandler(startHub(t), fixedSnapshots{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerClosesSocketWhenHubStopped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	handler := NewHandler(hub, fixedSnapshots{"alice": {SessionID: "s1", State: quiz.StateAwaitingInput}}, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r.WithContext(security.WithLearner(r.Context(), "alice")))
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = client.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
