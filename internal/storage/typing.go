package storage

import (
	"context"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"gorm.io/gorm/clause"
)

// UpsertTyping creates or refreshes the typing indicator row for one
// (chat, user). Each refresh only moves UpdatedAt forward.
func (s *Service) UpsertTyping(ctx context.Context, chatID, userID string, at time.Time) error {
	row := models.TypingIndicator{
		ChatID:    chatID,
		UserID:    userID,
		IsTyping:  true,
		UpdatedAt: at,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_typing", "updated_at"}),
		}).
		Create(&row).Error
}

// DeleteTyping removes the indicator row. Deleting an absent row is a no-op.
func (s *Service) DeleteTyping(ctx context.Context, chatID, userID string) error {
	return s.DB.WithContext(ctx).
		Delete(&models.TypingIndicator{}, "chat_id = ? AND user_id = ?", chatID, userID).Error
}

// ListTyping returns all indicator rows of a chat, stale ones included.
// Liveness filtering is the reader's concern.
func (s *Service) ListTyping(ctx context.Context, chatID string) ([]models.TypingIndicator, error) {
	var rows []models.TypingIndicator
	if err := s.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PurgeStaleTyping deletes indicator rows older than the cutoff and returns
// how many were removed.
func (s *Service) PurgeStaleTyping(ctx context.Context, olderThan time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Delete(&models.TypingIndicator{}, "updated_at < ?", olderThan)
	return res.RowsAffected, res.Error
}
