package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// MemberService implements the membership repository: per-chat-per-user
// unread counters, read markers, and pin flags.
type MemberService struct {
	store Store
	now   func() time.Time
}

func NewMemberService(store Store) *MemberService {
	return &MemberService{store: store, now: time.Now}
}

// GetMembers returns the membership rows of a chat with profile snapshots.
func (s *MemberService) GetMembers(ctx context.Context, chatID string) ([]models.ChatMember, error) {
	members, err := s.store.GetMembers(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}
	return members, nil
}

// IncrementUnread bumps the unread counter of every member except the sender,
// one row at a time. A failure on one row never touches the others; the
// failed ids come back as a PartialFailureError for the caller to log.
func (s *MemberService) IncrementUnread(ctx context.Context, chatID, exceptUserID string) error {
	members, err := s.store.GetMembers(ctx, chatID)
	if err != nil {
		return fmt.Errorf("increment unread: %w", err)
	}

	var failed []string
	for _, m := range members {
		if m.UserID == exceptUserID {
			continue
		}
		if err := s.store.IncrementUnread(ctx, chatID, m.UserID); err != nil {
			metrics.UnreadFanoutFailures.Inc()
			failed = append(failed, m.UserID)
		}
	}
	if len(failed) > 0 {
		return &PartialFailureError{Op: "increment unread", Failed: failed}
	}
	return nil
}

// SetPinned toggles a member's own pin flag and announces the change.
func (s *MemberService) SetPinned(ctx context.Context, chatID, userID string, pinned bool) error {
	member, err := s.store.GetMember(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("set pinned: %w", err)
	}
	if member == nil {
		return fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	if err := s.store.SetPinned(ctx, chatID, userID, pinned); err != nil {
		return fmt.Errorf("set pinned: %w", err)
	}

	member.IsPinned = pinned
	return s.store.PublishEvent(ctx, models.FeedEvent{
		Stream: models.StreamMembers,
		Op:     models.EventUpdate,
		ChatID: chatID,
		Member: member,
	})
}

// CounterpartLastRead returns the read marker the viewer's own messages are
// judged against: the earliest LastReadAt among the other members. A message
// counts as read only once every other participant has read past it; in a
// 1:1 chat that is simply the counterpart's marker. Zero when the viewer is
// the only member.
func CounterpartLastRead(members []models.ChatMember, viewerID string) time.Time {
	var marker time.Time
	seen := false
	for i := range members {
		if members[i].UserID == viewerID {
			continue
		}
		if !seen || members[i].LastReadAt.Before(marker) {
			marker = members[i].LastReadAt
			seen = true
		}
	}
	return marker
}
