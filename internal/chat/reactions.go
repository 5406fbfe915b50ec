package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// ReactionService implements toggle semantics over the raw reaction rows and
// the per-message aggregation the UI renders.
type ReactionService struct {
	store Store
}

func NewReactionService(store Store) *ReactionService {
	return &ReactionService{store: store}
}

// Toggle inserts the (message, user, emoji) row if absent and deletes it if
// present. Two toggles with the same triple restore the original state.
func (s *ReactionService) Toggle(ctx context.Context, messageID, userID, emoji string) error {
	if emoji == "" {
		return fmt.Errorf("empty emoji: %w", ErrValidation)
	}

	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("toggle reaction: %w", err)
	}
	if msg == nil {
		return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
	}

	existing, err := s.store.FindReaction(ctx, messageID, userID, emoji)
	if err != nil {
		return fmt.Errorf("toggle reaction: %w", err)
	}

	var ev models.FeedEvent
	if existing != nil {
		if err := s.store.DeleteReaction(ctx, existing.ID); err != nil {
			return fmt.Errorf("toggle reaction: %w", err)
		}
		ev = models.FeedEvent{
			Stream:   models.StreamReactions,
			Op:       models.EventDelete,
			ChatID:   msg.ChatID,
			Reaction: existing,
		}
	} else {
		row := &models.Reaction{MessageID: messageID, UserID: userID, Emoji: emoji}
		if err := s.store.InsertReaction(ctx, row); err != nil {
			return fmt.Errorf("toggle reaction: %w", err)
		}
		ev = models.FeedEvent{
			Stream:   models.StreamReactions,
			Op:       models.EventInsert,
			ChatID:   msg.ChatID,
			Reaction: row,
		}
	}
	metrics.ReactionsToggled.Inc()

	if err := s.store.PublishEvent(ctx, ev); err != nil {
		log.Printf("WARNING: failed to publish reaction %s for chat %s: %v", ev.Op, ev.ChatID, err)
	}
	return nil
}

// AggregateForChat fetches the chat's raw reaction rows plus member display
// names and groups them per message.
func (s *ReactionService) AggregateForChat(ctx context.Context, chatID, viewerID string) (map[string][]models.ReactionGroup, error) {
	rows, err := s.store.ListReactionsForChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("aggregate reactions: %w", err)
	}
	members, err := s.store.GetMembers(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("aggregate reactions: %w", err)
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		if m.Profile != nil {
			names[m.UserID] = m.Profile.DisplayName
		}
	}
	return AggregateReactions(rows, names, viewerID), nil
}

// AggregateReactions groups raw rows by (message, emoji) into ordered
// summaries. Within one message, emojis appear in order of first occurrence
// in the row slice; that order is a display detail, not a guarantee across
// re-fetches.
func AggregateReactions(rows []models.Reaction, names map[string]string, viewerID string) map[string][]models.ReactionGroup {
	out := make(map[string][]models.ReactionGroup)
	index := make(map[string]map[string]int) // messageID -> emoji -> slot

	for _, row := range rows {
		slots, ok := index[row.MessageID]
		if !ok {
			slots = make(map[string]int)
			index[row.MessageID] = slots
		}

		name := names[row.UserID]
		if name == "" {
			name = row.UserID
		}

		slot, ok := slots[row.Emoji]
		if !ok {
			slots[row.Emoji] = len(out[row.MessageID])
			out[row.MessageID] = append(out[row.MessageID], models.ReactionGroup{
				Emoji:         row.Emoji,
				Count:         1,
				UserNames:     []string{name},
				ViewerReacted: row.UserID == viewerID,
			})
			continue
		}

		group := &out[row.MessageID][slot]
		group.Count++
		group.UserNames = append(group.UserNames, name)
		if row.UserID == viewerID {
			group.ViewerReacted = true
		}
	}
	return out
}
