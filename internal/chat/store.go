package chat

import (
	"context"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// Store is the backing-store contract the chat session depends on. The
// storage package's Service implements it over PostgreSQL and Redis; tests
// substitute a mock. The store is the single source of truth; everything the
// session holds in memory is a cache invalidated by feed events or re-fetch.
type Store interface {
	// Messages
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)
	LastMessage(ctx context.Context, chatID string) (*models.Message, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetMessageByID(ctx context.Context, id string) (*models.Message, error)
	MarkMessageDeleted(ctx context.Context, messageID, scope string) error

	// Memberships
	GetMembers(ctx context.Context, chatID string) ([]models.ChatMember, error)
	GetMember(ctx context.Context, chatID, userID string) (*models.ChatMember, error)
	ListMemberships(ctx context.Context, userID string) ([]models.ChatMember, error)
	IncrementUnread(ctx context.Context, chatID, userID string) error
	MarkMemberRead(ctx context.Context, chatID, userID string, at time.Time) error
	SetPinned(ctx context.Context, chatID, userID string, pinned bool) error

	// Reactions
	ListReactionsForChat(ctx context.Context, chatID string) ([]models.Reaction, error)
	FindReaction(ctx context.Context, messageID, userID, emoji string) (*models.Reaction, error)
	InsertReaction(ctx context.Context, row *models.Reaction) error
	DeleteReaction(ctx context.Context, id string) error

	// Typing indicators
	UpsertTyping(ctx context.Context, chatID, userID string, at time.Time) error
	DeleteTyping(ctx context.Context, chatID, userID string) error
	ListTyping(ctx context.Context, chatID string) ([]models.TypingIndicator, error)

	// Profiles and wallet
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	TransferCoins(ctx context.Context, fromID, toID string, amount int64, msg *models.Message, txn *models.Transaction) error

	// Change feed
	PublishEvent(ctx context.Context, ev models.FeedEvent) error
	SubscribeFeed(ctx context.Context, chatID, stream string) (<-chan models.FeedEvent, func(), error)
	ClaimTransferKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseTransferKey(ctx context.Context, key string) error
}
