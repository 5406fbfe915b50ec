package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textMsg(id, sender string, at time.Time) models.Message {
	return models.Message{
		ID: id, ChatID: "c1", SenderID: sender,
		Content: "msg " + id, Type: models.MessageTypeText,
		Status: models.StatusSent, CreatedAt: at,
	}
}

func TestView_MessagesSortedByCreationTime(t *testing.T) {
	v := newView("c1", "alice")
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order.
	var msgs []models.Message
	for _, i := range []int{3, 0, 4, 1, 2} {
		msgs = append(msgs, textMsg(fmt.Sprintf("m%d", i), "bob", base.Add(time.Duration(i)*time.Second)))
	}
	v.ApplyMessageSnapshot(v.BeginFetch(), msgs)

	state := v.Snapshot()
	require.Len(t, state.Messages, 5)
	for i := 1; i < len(state.Messages); i++ {
		assert.False(t, state.Messages[i].CreatedAt.Before(state.Messages[i-1].CreatedAt),
			"messages must be in non-decreasing creation order")
	}
}

func TestView_StaleRefetchCannotOverwritePatch(t *testing.T) {
	v := newView("c1", "alice")
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	original := textMsg("m1", "bob", base)
	v.ApplyMessageSnapshot(v.BeginFetch(), []models.Message{original})

	// A re-fetch starts now...
	snapshotSeq := v.BeginFetch()

	// ...and while it is in flight, a delete patch lands.
	deleted := original
	deleted.DeletedForEveryone = true
	v.PatchMessage(deleted)

	// The fetch completes with data read before the delete committed.
	v.ApplyMessageSnapshot(snapshotSeq, []models.Message{original})

	state := v.Snapshot()
	require.Len(t, state.Messages, 1)
	assert.True(t, state.Messages[0].Deleted, "patch applied after the fetch began must win")
}

func TestView_SnapshotUnionsPatchAndRefetch(t *testing.T) {
	v := newView("c1", "alice")
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	snapshotSeq := v.BeginFetch()
	// A new message arrives as a patch while the initial fetch runs; the
	// fetched list does not contain it yet.
	v.PatchMessage(textMsg("m2", "bob", base.Add(time.Second)))
	v.ApplyMessageSnapshot(snapshotSeq, []models.Message{textMsg("m1", "bob", base)})

	state := v.Snapshot()
	assert.Len(t, state.Messages, 2, "merge is a union by id, nothing dropped")

	// Applying the same snapshot again must not duplicate anything.
	v.ApplyMessageSnapshot(snapshotSeq, []models.Message{textMsg("m1", "bob", base)})
	assert.Len(t, v.Snapshot().Messages, 2)
}

func TestView_TombstonesPerScope(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	everyone := textMsg("m1", "alice", base)
	everyone.DeletedForEveryone = true
	selfOnly := textMsg("m2", "alice", base.Add(time.Second))
	selfOnly.DeletedForSender = true
	msgs := []models.Message{everyone, selfOnly}
	members := []models.ChatMember{
		member("c1", "alice", 0, base),
		member("c1", "bob", 0, base),
	}

	// Sender view: both are tombstones.
	aliceState := Compose("c1", "alice", msgs, members, nil, nil)
	require.Len(t, aliceState.Messages, 2)
	assert.True(t, aliceState.Messages[0].Deleted)
	assert.Empty(t, aliceState.Messages[0].Content)
	assert.True(t, aliceState.Messages[1].Deleted)

	// Counterpart view: only the "for everyone" delete is a tombstone,
	// the self-delete keeps its content.
	bobState := Compose("c1", "bob", msgs, members, nil, nil)
	require.Len(t, bobState.Messages, 2)
	assert.True(t, bobState.Messages[0].Deleted)
	assert.False(t, bobState.Messages[1].Deleted)
	assert.Equal(t, "msg m2", bobState.Messages[1].Content)
}

func TestView_DerivesStatusAgainstCounterpartMarker(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		textMsg("m1", "alice", base.Add(-time.Minute)),
		textMsg("m2", "alice", base.Add(time.Minute)),
	}
	members := []models.ChatMember{
		member("c1", "alice", 0, base.Add(time.Hour)),
		member("c1", "bob", 0, base), // counterpart read up to base
	}

	state := Compose("c1", "alice", msgs, members, nil, nil)

	require.Len(t, state.Messages, 2)
	assert.Equal(t, models.StatusRead, state.Messages[0].Status)
	assert.Equal(t, models.StatusSent, state.Messages[1].Status)
}

func TestView_GroupReadWaitsForEveryMember(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newView("c1", "alice")
	v.ApplyMessageSnapshot(v.BeginFetch(), []models.Message{textMsg("m1", "alice", base)})
	v.SetMembers([]models.ChatMember{
		member("c1", "alice", 0, base),
		member("c1", "bob", 0, base.Add(time.Hour)),
		member("c1", "carol", 0, time.Time{}),
	})

	// Bob read past the message, but carol has not: not read yet.
	assert.Equal(t, models.StatusSent, v.Snapshot().Messages[0].Status)

	v.PatchMember(member("c1", "carol", 0, base.Add(time.Second)))

	assert.Equal(t, models.StatusRead, v.Snapshot().Messages[0].Status)
}

func TestView_PatchMemberMovesReadReceipts(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newView("c1", "alice")
	v.ApplyMessageSnapshot(v.BeginFetch(), []models.Message{textMsg("m1", "alice", base)})
	v.SetMembers([]models.ChatMember{
		member("c1", "alice", 0, base),
		member("c1", "bob", 0, time.Time{}),
	})

	assert.Equal(t, models.StatusSent, v.Snapshot().Messages[0].Status)

	// The counterpart's read marker advances past the message.
	v.PatchMember(member("c1", "bob", 0, base.Add(time.Second)))

	assert.Equal(t, models.StatusRead, v.Snapshot().Messages[0].Status)
}

func TestView_TypingSnapshotFiltersStale(t *testing.T) {
	v := newView("c1", "alice")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	v.SetTyping([]models.TypingIndicator{
		{ChatID: "c1", UserID: "bob", IsTyping: true, UpdatedAt: now.Add(-time.Second)},
		{ChatID: "c1", UserID: "carol", IsTyping: true, UpdatedAt: now.Add(-10 * time.Second)},
	})

	assert.Equal(t, []string{"bob"}, v.Snapshot().Typing)

	// The delete patch removes bob as well.
	v.PatchTyping(models.TypingIndicator{ChatID: "c1", UserID: "bob"}, true)
	assert.Empty(t, v.Snapshot().Typing)
}
