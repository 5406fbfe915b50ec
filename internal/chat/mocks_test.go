package chat

import (
	"context"
	"sync"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStore is a test double for the Store interface. Row operations go
// through testify expectations; the change feed and idempotency keys are
// backed by real channels and maps so tests can inject events and observe
// publishes without wiring expectations for every call.
type MockStore struct {
	mock.Mock

	mu        sync.Mutex
	feeds     map[string]chan models.FeedEvent
	published []models.FeedEvent
	claimed   map[string]bool
}

func newMockStore() *MockStore {
	return &MockStore{
		feeds:   make(map[string]chan models.FeedEvent),
		claimed: make(map[string]bool),
	}
}

// Messages

func (m *MockStore) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) LastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStore) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) MarkMessageDeleted(ctx context.Context, messageID, scope string) error {
	args := m.Called(ctx, messageID, scope)
	return args.Error(0)
}

// Memberships

func (m *MockStore) GetMembers(ctx context.Context, chatID string) ([]models.ChatMember, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMember), args.Error(1)
}

func (m *MockStore) GetMember(ctx context.Context, chatID, userID string) (*models.ChatMember, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMember), args.Error(1)
}

func (m *MockStore) ListMemberships(ctx context.Context, userID string) ([]models.ChatMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMember), args.Error(1)
}

func (m *MockStore) IncrementUnread(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockStore) MarkMemberRead(ctx context.Context, chatID, userID string, at time.Time) error {
	args := m.Called(ctx, chatID, userID, at)
	return args.Error(0)
}

func (m *MockStore) SetPinned(ctx context.Context, chatID, userID string, pinned bool) error {
	args := m.Called(ctx, chatID, userID, pinned)
	return args.Error(0)
}

// Reactions

func (m *MockStore) ListReactionsForChat(ctx context.Context, chatID string) ([]models.Reaction, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reaction), args.Error(1)
}

func (m *MockStore) FindReaction(ctx context.Context, messageID, userID, emoji string) (*models.Reaction, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

func (m *MockStore) InsertReaction(ctx context.Context, row *models.Reaction) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockStore) DeleteReaction(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Typing indicators

func (m *MockStore) UpsertTyping(ctx context.Context, chatID, userID string, at time.Time) error {
	args := m.Called(ctx, chatID, userID, at)
	return args.Error(0)
}

func (m *MockStore) DeleteTyping(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockStore) ListTyping(ctx context.Context, chatID string) ([]models.TypingIndicator, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TypingIndicator), args.Error(1)
}

// Profiles and wallet

func (m *MockStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStore) TransferCoins(ctx context.Context, fromID, toID string, amount int64, msg *models.Message, txn *models.Transaction) error {
	args := m.Called(ctx, fromID, toID, amount, msg, txn)
	return args.Error(0)
}

// Change feed: publishes are recorded, subscriptions are real channels the
// test can push into via pushEvent.

func (m *MockStore) PublishEvent(ctx context.Context, ev models.FeedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, ev)
	return nil
}

func (m *MockStore) Published() []models.FeedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.FeedEvent, len(m.published))
	copy(out, m.published)
	return out
}

func feedKey(chatID, stream string) string { return chatID + ":" + stream }

func (m *MockStore) SubscribeFeed(ctx context.Context, chatID, stream string) (<-chan models.FeedEvent, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := feedKey(chatID, stream)
	ch := make(chan models.FeedEvent, 16)
	m.feeds[key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			if m.feeds[key] == ch {
				delete(m.feeds, key)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

func (m *MockStore) pushEvent(ev models.FeedEvent) {
	m.mu.Lock()
	ch := m.feeds[feedKey(ev.ChatID, ev.Stream)]
	m.mu.Unlock()
	if ch != nil {
		ch <- ev
	}
}

func (m *MockStore) ClaimTransferKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

func (m *MockStore) ReleaseTransferKey(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claimed, key)
	return nil
}

// Fixture helpers.

func member(chatID, userID string, unread int, lastRead time.Time) models.ChatMember {
	return models.ChatMember{
		ChatID:      chatID,
		UserID:      userID,
		UnreadCount: unread,
		LastReadAt:  lastRead,
		Profile:     &models.Profile{ID: userID, DisplayName: "user " + userID},
	}
}
