package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/config"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// TypingTracker maintains the producer side of one user's typing indicator in
// one chat. It is a two-state machine: idle until the first keystroke, then
// composing until the quiet period elapses or a message is sent, at which
// point the remote row is deleted.
//
// Remote writes are debounced: the first keystroke upserts the row, later
// keystrokes only refresh it when TypingRefreshInterval has passed.
type TypingTracker struct {
	store  Store
	chatID string
	userID string

	mu         sync.Mutex
	composing  bool
	lastUpsert time.Time
	timer      *time.Timer

	now   func() time.Time
	quiet time.Duration
}

func NewTypingTracker(store Store, chatID, userID string) *TypingTracker {
	return &TypingTracker{
		store:  store,
		chatID: chatID,
		userID: userID,
		now:    time.Now,
		quiet:  config.TypingQuietPeriod,
	}
}

// Keystroke records composing activity. The quiet-period timer restarts on
// every call; the remote row is written at most once per refresh interval.
func (t *TypingTracker) Keystroke(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	needsWrite := !t.composing || now.Sub(t.lastUpsert) >= config.TypingRefreshInterval
	t.composing = true

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.quiet, t.quietElapsed)

	if !needsWrite {
		return nil
	}
	if err := t.store.UpsertTyping(ctx, t.chatID, t.userID, now); err != nil {
		return err
	}
	t.lastUpsert = now

	t.publishLocked(ctx, models.EventUpdate, now)
	return nil
}

// MessageSent transitions straight to idle and removes the remote row; the
// composed text just went out, so the indicator must not linger.
func (t *TypingTracker) MessageSent(ctx context.Context) {
	t.stop(ctx)
}

// Close cancels the debounce timer and best-effort deletes the remote row.
// Must be called when the chat view unmounts; a delete that fails leaves a
// row that readers expire via the liveness window.
func (t *TypingTracker) Close(ctx context.Context) {
	t.stop(ctx)
}

func (t *TypingTracker) quietElapsed() {
	t.stop(context.Background())
}

func (t *TypingTracker) stop(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if !t.composing {
		return
	}
	t.composing = false

	if err := t.store.DeleteTyping(ctx, t.chatID, t.userID); err != nil {
		log.Printf("WARNING: failed to delete typing indicator for %s in chat %s: %v", t.userID, t.chatID, err)
		return
	}
	t.publishLocked(ctx, models.EventDelete, t.now())
}

func (t *TypingTracker) publishLocked(ctx context.Context, op string, at time.Time) {
	ev := models.FeedEvent{
		Stream: models.StreamTyping,
		Op:     op,
		ChatID: t.chatID,
		Typing: &models.TypingIndicator{
			ChatID:    t.chatID,
			UserID:    t.userID,
			IsTyping:  op != models.EventDelete,
			UpdatedAt: at,
		},
	}
	if err := t.store.PublishEvent(ctx, ev); err != nil {
		log.Printf("WARNING: failed to publish typing %s for chat %s: %v", op, t.chatID, err)
	}
}

// LiveTyping filters raw indicator rows down to the users currently typing
// from the viewer's perspective: the viewer's own row is dropped, and so is
// anything older than the liveness window even if the row still exists.
func LiveTyping(rows []models.TypingIndicator, viewerID string, now time.Time) []models.TypingIndicator {
	var live []models.TypingIndicator
	for _, row := range rows {
		if row.UserID == viewerID {
			continue
		}
		if row.Live(now, config.TypingLiveWindow) {
			live = append(live, row)
		}
	}
	return live
}
