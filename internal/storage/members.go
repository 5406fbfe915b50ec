package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"gorm.io/gorm"
)

// GetMembers returns all membership rows of a chat with their profile
// projections preloaded.
func (s *Service) GetMembers(ctx context.Context, chatID string) ([]models.ChatMember, error) {
	var members []models.ChatMember
	if err := s.DB.WithContext(ctx).
		Preload("Profile").
		Where("chat_id = ?", chatID).
		Find(&members).Error; err != nil {
		log.Printf("ERROR: Failed to get members for chat %s: %v", chatID, err)
		return nil, err
	}
	return members, nil
}

// GetMember returns one membership row, or nil when the user is not a member
// of the chat.
func (s *Service) GetMember(ctx context.Context, chatID, userID string) (*models.ChatMember, error) {
	var member models.ChatMember
	err := s.DB.WithContext(ctx).
		Preload("Profile").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMemberships returns every chat the user participates in, pinned chats
// first.
func (s *Service) ListMemberships(ctx context.Context, userID string) ([]models.ChatMember, error) {
	var members []models.ChatMember
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_pinned desc, last_read_at desc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// SaveMember creates or updates a membership row.
func (s *Service) SaveMember(ctx context.Context, member *models.ChatMember) error {
	return s.DB.WithContext(ctx).Save(member).Error
}

// IncrementUnread bumps one member's unread counter by one. Counters are
// independent per row; callers fan this out per member.
func (s *Service) IncrementUnread(ctx context.Context, chatID, userID string) error {
	return s.DB.WithContext(ctx).
		Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error
}

// MarkMemberRead clears the unread counter and advances the last-read marker.
// GREATEST keeps last_read_at monotonic even if updates arrive out of order.
func (s *Service) MarkMemberRead(ctx context.Context, chatID, userID string, at time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"last_read_at": gorm.Expr("GREATEST(last_read_at, ?)", at),
		}).Error
}

// SetPinned toggles the member's own pin flag.
func (s *Service) SetPinned(ctx context.Context, chatID, userID string, pinned bool) error {
	return s.DB.WithContext(ctx).
		Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		UpdateColumn("is_pinned", pinned).Error
}

// RecountUnread recomputes every member's unread counter of a chat from the
// messages table. This is the self-healing path for counters that drifted
// after partial fan-out failures.
func (s *Service) RecountUnread(ctx context.Context, chatID string) error {
	return s.DB.WithContext(ctx).Exec(`
		UPDATE chat_members cm
		SET unread_count = (
			SELECT COUNT(*)
			FROM messages m
			WHERE m.chat_id = cm.chat_id
			  AND m.sender_id <> cm.user_id
			  AND m.created_at > cm.last_read_at
		)
		WHERE cm.chat_id = ?`, chatID).Error
}
