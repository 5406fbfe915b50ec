package chat

import (
	"context"
	"fmt"
	"sort"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// ChatPreview is one row of the chat list: the membership state plus the
// newest message, tombstoned for the viewer where applicable.
type ChatPreview struct {
	ChatID      string          `json:"chat_id"`
	UnreadCount int             `json:"unread_count"`
	IsPinned    bool            `json:"is_pinned"`
	LastMessage *models.Message `json:"last_message,omitempty"`
}

// Previews returns the viewer's chat list, pinned chats first, then by most
// recent activity.
func (s *MessageService) Previews(ctx context.Context, viewerID string) ([]ChatPreview, error) {
	memberships, err := s.store.ListMemberships(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("chat previews: %w", err)
	}

	previews := make([]ChatPreview, 0, len(memberships))
	for _, m := range memberships {
		last, err := s.store.LastMessage(ctx, m.ChatID)
		if err != nil {
			return nil, fmt.Errorf("chat previews: %w", err)
		}
		if last != nil && last.DeletedFor(viewerID) {
			last.Content = ""
			last.FileURL = nil
		}
		previews = append(previews, ChatPreview{
			ChatID:      m.ChatID,
			UnreadCount: m.UnreadCount,
			IsPinned:    m.IsPinned,
			LastMessage: last,
		})
	}

	sort.SliceStable(previews, func(i, j int) bool {
		if previews[i].IsPinned != previews[j].IsPinned {
			return previews[i].IsPinned
		}
		li, lj := previews[i].LastMessage, previews[j].LastMessage
		switch {
		case li == nil:
			return false
		case lj == nil:
			return true
		default:
			return li.CreatedAt.After(lj.CreatedAt)
		}
	})
	return previews, nil
}
