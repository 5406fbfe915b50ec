package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	userID string
	chatID string
	send   chan models.FeedEvent

	mu     sync.Mutex
	closed bool
}

func newFakeClient(userID, chatID string, buffer int) *fakeClient {
	return &fakeClient{
		userID: userID,
		chatID: chatID,
		send:   make(chan models.FeedEvent, buffer),
	}
}

func (c *fakeClient) GetUserID() string                       { return c.userID }
func (c *fakeClient) GetChatID() string                       { return c.chatID }
func (c *fakeClient) GetSendChannel() chan<- models.FeedEvent { return c.send }
func (c *fakeClient) Run()                                    {}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeFeed struct {
	events chan models.FeedEvent
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan models.FeedEvent, 16)}
}

func (f *fakeFeed) SubscribeAllFeeds(ctx context.Context) (<-chan models.FeedEvent, func(), error) {
	return f.events, func() {}, nil
}

func startHub(t *testing.T) (*Hub, *fakeFeed) {
	t.Helper()
	feed := newFakeFeed()
	hub := NewHub(feed)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub, feed
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub, _ := startHub(t)

	client := newFakeClient("alice", "c1", 4)
	hub.RegisterCh <- client
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, hub.Clients, 1)

	hub.UnregisterCh <- client
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, hub.Clients, 0)
	assert.True(t, client.isClosed())
}

func TestHub_ReconnectClosesReplacedConnection(t *testing.T) {
	hub, _ := startHub(t)

	stale := newFakeClient("alice", "c1", 4)
	fresh := newFakeClient("alice", "c1", 4)
	hub.RegisterCh <- stale
	hub.RegisterCh <- fresh
	time.Sleep(50 * time.Millisecond)

	// The replaced connection is shut down at registration time, not left
	// dangling until its pumps notice on their own.
	assert.True(t, stale.isClosed())
	assert.Len(t, hub.Clients, 1)

	// The stale connection unregistering must not kick the fresh one.
	hub.UnregisterCh <- stale
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, hub.Clients, 1)
	assert.False(t, fresh.isClosed())
}

func TestHub_BroadcastsOnlyToMatchingChat(t *testing.T) {
	hub, feed := startHub(t)

	inChat := newFakeClient("alice", "c1", 4)
	elsewhere := newFakeClient("bob", "c2", 4)
	hub.RegisterCh <- inChat
	hub.RegisterCh <- elsewhere
	time.Sleep(50 * time.Millisecond)

	feed.events <- models.FeedEvent{Stream: models.StreamMessages, Op: models.EventInsert, ChatID: "c1"}
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, inChat.send, 1)
	assert.Len(t, elsewhere.send, 0)
}

func TestHub_EvictsSlowClient(t *testing.T) {
	hub, feed := startHub(t)

	// Buffer of one and nobody draining it.
	slow := newFakeClient("alice", "c1", 1)
	hub.RegisterCh <- slow
	time.Sleep(50 * time.Millisecond)

	feed.events <- models.FeedEvent{Stream: models.StreamTyping, ChatID: "c1"}
	feed.events <- models.FeedEvent{Stream: models.StreamTyping, ChatID: "c1"}
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, hub.Clients, 0)
	assert.True(t, slow.isClosed())
}
