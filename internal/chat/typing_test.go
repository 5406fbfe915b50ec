package chat

import (
	"context"
	"testing"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLiveTyping_AppliesWindowAndExcludesViewer(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.TypingIndicator{
		{ChatID: "c1", UserID: "viewer", IsTyping: true, UpdatedAt: now},
		{ChatID: "c1", UserID: "fresh", IsTyping: true, UpdatedAt: now.Add(-2 * time.Second)},
		// Row still exists in the store but is past the liveness window.
		{ChatID: "c1", UserID: "stale", IsTyping: true, UpdatedAt: now.Add(-6 * time.Second)},
		{ChatID: "c1", UserID: "stopped", IsTyping: false, UpdatedAt: now},
	}

	live := LiveTyping(rows, "viewer", now)

	if assert.Len(t, live, 1) {
		assert.Equal(t, "fresh", live[0].UserID)
	}
}

func TestTypingTracker_FirstKeystrokeUpserts(t *testing.T) {
	store := newMockStore()
	tracker := NewTypingTracker(store, "c1", "alice")
	store.On("UpsertTyping", mock.Anything, "c1", "alice", mock.Anything).Return(nil)

	assert.NoError(t, tracker.Keystroke(context.Background()))
	assert.True(t, tracker.composing)
	store.AssertNumberOfCalls(t, "UpsertTyping", 1)

	events := store.Published()
	if assert.Len(t, events, 1) {
		assert.Equal(t, models.StreamTyping, events[0].Stream)
		assert.Equal(t, models.EventUpdate, events[0].Op)
	}

	store.On("DeleteTyping", mock.Anything, "c1", "alice").Return(nil)
	tracker.Close(context.Background())
}

func TestTypingTracker_KeystrokesAreDebounced(t *testing.T) {
	store := newMockStore()
	tracker := NewTypingTracker(store, "c1", "alice")

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }
	store.On("UpsertTyping", mock.Anything, "c1", "alice", mock.Anything).Return(nil)

	assert.NoError(t, tracker.Keystroke(context.Background()))
	// Rapid keystrokes inside the refresh interval only reset the local
	// timer; the remote row is untouched.
	now = now.Add(200 * time.Millisecond)
	assert.NoError(t, tracker.Keystroke(context.Background()))
	now = now.Add(200 * time.Millisecond)
	assert.NoError(t, tracker.Keystroke(context.Background()))
	store.AssertNumberOfCalls(t, "UpsertTyping", 1)

	// Once the interval has passed, the next keystroke refreshes.
	now = now.Add(2 * time.Second)
	assert.NoError(t, tracker.Keystroke(context.Background()))
	store.AssertNumberOfCalls(t, "UpsertTyping", 2)

	store.On("DeleteTyping", mock.Anything, "c1", "alice").Return(nil)
	tracker.Close(context.Background())
}

func TestTypingTracker_QuietPeriodDeletesRow(t *testing.T) {
	store := newMockStore()
	tracker := NewTypingTracker(store, "c1", "alice")
	tracker.quiet = 30 * time.Millisecond

	store.On("UpsertTyping", mock.Anything, "c1", "alice", mock.Anything).Return(nil)
	store.On("DeleteTyping", mock.Anything, "c1", "alice").Return(nil)

	assert.NoError(t, tracker.Keystroke(context.Background()))
	time.Sleep(100 * time.Millisecond)

	store.AssertCalled(t, "DeleteTyping", mock.Anything, "c1", "alice")
	assert.False(t, tracker.composing)

	events := store.Published()
	if assert.Len(t, events, 2) {
		assert.Equal(t, models.EventDelete, events[1].Op)
		assert.False(t, events[1].Typing.IsTyping)
	}
}

func TestTypingTracker_MessageSentStopsImmediately(t *testing.T) {
	store := newMockStore()
	tracker := NewTypingTracker(store, "c1", "alice")

	store.On("UpsertTyping", mock.Anything, "c1", "alice", mock.Anything).Return(nil)
	store.On("DeleteTyping", mock.Anything, "c1", "alice").Return(nil)

	assert.NoError(t, tracker.Keystroke(context.Background()))
	tracker.MessageSent(context.Background())

	store.AssertCalled(t, "DeleteTyping", mock.Anything, "c1", "alice")
	assert.False(t, tracker.composing)

	// Stopping while idle is a no-op.
	tracker.MessageSent(context.Background())
	store.AssertNumberOfCalls(t, "DeleteTyping", 1)
}
