package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *recordingClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return true
}

func (c *recordingClient) Close() {}

func (c *recordingClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages
}

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	alice := &recordingClient{}
	bob := &recordingClient{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)

	task := &models.Task{ID: models.NewID(), Name: "Write spec", Status: models.TaskStatusPending}
	hub.TaskAssigned("alice", task)

	require.Len(t, alice.received(), 1)
	assert.Empty(t, bob.received())

	var event Event
	require.NoError(t, json.Unmarshal(alice.received()[0], &event))
	assert.Equal(t, EventTaskAssigned, event.Type)
	assert.Equal(t, "alice", event.UserID)
	assert.Equal(t, task.ID, event.Task.ID)
}

func TestHub_UnregisterDropsEmptyUsers(t *testing.T) {
	hub := NewHub()
	first := &recordingClient{}
	second := &recordingClient{}
	hub.Register("alice", first)
	hub.Register("alice", second)
	assert.Equal(t, 2, hub.Subscribers("alice"))

	hub.Unregister("alice", first)
	hub.TaskUnassigned("alice", &models.Task{ID: models.NewID()})

	assert.Empty(t, first.received())
	assert.Len(t, second.received(), 1)

	hub.Unregister("alice", second)
	assert.Equal(t, 0, hub.Subscribers("alice"))

	// Publishing with no subscribers is a no-op.
	hub.TaskAssigned("alice", &models.Task{ID: models.NewID()})
}

type stalledClient struct {
	sending chan struct{}
	release chan struct{}
}

func (c *stalledClient) Send(message []byte) bool {
	close(c.sending)
	<-c.release
	return true
}

func (c *stalledClient) Close() {}

func TestHub_SlowClientDoesNotBlockRegistration(t *testing.T) {
	hub := NewHub()
	slow := &stalledClient{sending: make(chan struct{}), release: make(chan struct{})}
	hub.Register("alice", slow)

	published := make(chan struct{})
	go func() {
		hub.TaskAssigned("alice", &models.Task{ID: models.NewID()})
		close(published)
	}()
	<-slow.sending

	registered := make(chan struct{})
	go func() {
		hub.Register("alice", &recordingClient{})
		hub.Unregister("alice", slow)
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("register blocked behind a pending send")
	}
	assert.Equal(t, 1, hub.Subscribers("alice"))

	close(slow.release)
	<-published
}
