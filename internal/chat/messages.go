package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// MessageService implements the message repository: listing, sending, soft
// deletion, and read tracking for one chat at a time.
type MessageService struct {
	store   Store
	members *MemberService
	now     func() time.Time
}

func NewMessageService(store Store, members *MemberService) *MessageService {
	return &MessageService{store: store, members: members, now: time.Now}
}

// List returns the chat's messages in ascending creation order. The caller
// must be a member of the chat; otherwise the chat does not exist as far as
// it is concerned.
func (s *MessageService) List(ctx context.Context, chatID, viewerID string) ([]models.Message, error) {
	member, err := s.store.GetMember(ctx, chatID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}
	return s.store.ListMessages(ctx, chatID)
}

// Send validates and persists a new message, fans out unread increments to
// the other members, and publishes the insert on the change feed. Text
// messages must carry non-empty content; a reply target must be an earlier
// message of the same chat.
func (s *MessageService) Send(ctx context.Context, chatID, senderID, content, msgType string, fileURL, replyToID *string) (*models.Message, error) {
	if msgType == models.MessageTypeText && strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty text content: %w", ErrValidation)
	}

	sender, err := s.store.GetMember(ctx, chatID, senderID)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if sender == nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	if replyToID != nil {
		target, err := s.store.GetMessageByID(ctx, *replyToID)
		if err != nil {
			return nil, fmt.Errorf("resolve reply target: %w", err)
		}
		if target == nil {
			return nil, fmt.Errorf("reply target %s: %w", *replyToID, ErrNotFound)
		}
		if target.ChatID != chatID {
			return nil, fmt.Errorf("reply target belongs to another chat: %w", ErrValidation)
		}
	}

	msg := &models.Message{
		ChatID:           chatID,
		SenderID:         senderID,
		Content:          content,
		Type:             msgType,
		FileURL:          fileURL,
		ReplyToMessageID: replyToID,
		Status:           models.StatusSent,
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	metrics.MessagesSent.WithLabelValues(msgType).Inc()

	// The composed text just went out; the sender's typing indicator must not
	// outlive it, regardless of which surface the send came through.
	if err := s.store.DeleteTyping(ctx, chatID, senderID); err != nil {
		log.Printf("WARNING: failed to clear typing indicator for %s in chat %s: %v", senderID, chatID, err)
	} else if err := s.store.PublishEvent(ctx, models.FeedEvent{
		Stream: models.StreamTyping,
		Op:     models.EventDelete,
		ChatID: chatID,
		Typing: &models.TypingIndicator{ChatID: chatID, UserID: senderID},
	}); err != nil {
		log.Printf("WARNING: failed to publish typing delete for chat %s: %v", chatID, err)
	}

	// Best-effort fan-out: a failed increment undercounts one member's
	// unread badge until the next recount, nothing more. Logged, not
	// surfaced.
	if err := s.members.IncrementUnread(ctx, chatID, senderID); err != nil {
		log.Printf("WARNING: unread fan-out incomplete for chat %s: %v", chatID, err)
	}

	// Own sends count as read immediately.
	if err := s.store.MarkMemberRead(ctx, chatID, senderID, msg.CreatedAt); err != nil {
		log.Printf("WARNING: failed to advance sender read marker in chat %s: %v", chatID, err)
	}

	if err := s.store.PublishEvent(ctx, models.FeedEvent{
		Stream:  models.StreamMessages,
		Op:      models.EventInsert,
		ChatID:  chatID,
		Message: msg,
	}); err != nil {
		log.Printf("WARNING: failed to publish message insert for chat %s: %v", chatID, err)
	}

	return msg, nil
}

// MarkDeleted sets the requested soft-delete flag on a message. Deleting for
// everyone is reserved to the sender; re-deleting is a no-op. The message is
// never removed from the table.
func (s *MessageService) MarkDeleted(ctx context.Context, messageID, requesterID, scope string) error {
	if scope != models.DeleteScopeSelf && scope != models.DeleteScopeEveryone {
		return fmt.Errorf("unknown delete scope %q: %w", scope, ErrValidation)
	}

	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}
	if msg == nil {
		return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
	}
	if msg.SenderID != requesterID {
		return fmt.Errorf("only the sender may delete a message: %w", ErrValidation)
	}

	// Idempotent: the flag is already set, nothing to do.
	if (scope == models.DeleteScopeSelf && msg.DeletedForSender) ||
		(scope == models.DeleteScopeEveryone && msg.DeletedForEveryone) {
		return nil
	}

	if err := s.store.MarkMessageDeleted(ctx, messageID, scope); err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}

	switch scope {
	case models.DeleteScopeSelf:
		msg.DeletedForSender = true
	case models.DeleteScopeEveryone:
		msg.DeletedForEveryone = true
	}

	if err := s.store.PublishEvent(ctx, models.FeedEvent{
		Stream:  models.StreamMessages,
		Op:      models.EventUpdate,
		ChatID:  msg.ChatID,
		Message: msg,
	}); err != nil {
		log.Printf("WARNING: failed to publish message update for chat %s: %v", msg.ChatID, err)
	}
	return nil
}

// MarkRead advances the reader's membership marker up to now and clears the
// unread counter, then announces the membership change so counterpart views
// can re-derive read receipts.
func (s *MessageService) MarkRead(ctx context.Context, chatID, readerID string) error {
	member, err := s.store.GetMember(ctx, chatID, readerID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if member == nil {
		return fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	at := s.now()
	if err := s.store.MarkMemberRead(ctx, chatID, readerID, at); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	member.UnreadCount = 0
	if at.After(member.LastReadAt) {
		member.LastReadAt = at
	}
	if err := s.store.PublishEvent(ctx, models.FeedEvent{
		Stream: models.StreamMembers,
		Op:     models.EventUpdate,
		ChatID: chatID,
		Member: member,
	}); err != nil {
		log.Printf("WARNING: failed to publish read marker for chat %s: %v", chatID, err)
	}
	return nil
}
