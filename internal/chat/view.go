package chat

import (
	"sort"
	"sync"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// MessageView is one message as the viewer sees it: tombstoned content
// blanked out, status derived against the other members' read markers, and
// the reaction groups attached.
type MessageView struct {
	models.Message
	Deleted   bool                   `json:"deleted"`
	Reactions []models.ReactionGroup `json:"reactions,omitempty"`
}

// ViewState is an immutable snapshot of an open chat session.
type ViewState struct {
	ChatID   string              `json:"chat_id"`
	Messages []MessageView       `json:"messages"`
	Members  []models.ChatMember `json:"members"`
	// Typing lists the user ids currently composing, viewer excluded,
	// liveness window applied.
	Typing []string `json:"typing"`
}

// Compose renders a one-shot view from freshly fetched snapshots, without an
// open session. The REST surface uses it; open sessions go through View
// directly.
func Compose(chatID, viewerID string, msgs []models.Message, members []models.ChatMember,
	groups map[string][]models.ReactionGroup, typing []models.TypingIndicator) ViewState {
	v := newView(chatID, viewerID)
	v.ApplyMessageSnapshot(v.BeginFetch(), msgs)
	v.SetMembers(members)
	v.SetReactions(groups)
	v.SetTyping(typing)
	return v.Snapshot()
}

type msgEntry struct {
	msg models.Message
	seq uint64
}

// View is the in-memory cache behind one open chat. Local patches and
// re-fetched snapshots both land here; every entry carries the sequence
// number of the write that produced it, so a re-fetch that was in flight when
// a patch arrived can never overwrite the patch with stale data. Merges are
// a union by id and the latest write per entity wins.
type View struct {
	chatID   string
	viewerID string

	mu        sync.RWMutex
	seq       uint64
	messages  map[string]msgEntry
	members   map[string]models.ChatMember
	typing    map[string]models.TypingIndicator
	reactions map[string][]models.ReactionGroup

	now func() time.Time
}

func newView(chatID, viewerID string) *View {
	return &View{
		chatID:    chatID,
		viewerID:  viewerID,
		messages:  make(map[string]msgEntry),
		members:   make(map[string]models.ChatMember),
		typing:    make(map[string]models.TypingIndicator),
		reactions: make(map[string][]models.ReactionGroup),
		now:       time.Now,
	}
}

// BeginFetch marks the start of a message re-fetch. The returned sequence
// stamps the snapshot; entries patched after this point outrank it.
func (v *View) BeginFetch() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.seq
}

// PatchMessage applies a single message insert or update from the change
// feed directly, without a re-fetch.
func (v *View) PatchMessage(msg models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.messages[msg.ID] = msgEntry{msg: msg, seq: v.seq}
}

// ApplyMessageSnapshot merges a fetched message list stamped with the
// sequence BeginFetch returned. Entries patched since then are kept;
// everything else is replaced. Entries absent from the snapshot are never
// dropped: messages are soft-deleted, so removal only ever arrives as an
// update.
func (v *View) ApplyMessageSnapshot(snapshotSeq uint64, msgs []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, msg := range msgs {
		if existing, ok := v.messages[msg.ID]; ok && existing.seq > snapshotSeq {
			continue
		}
		v.messages[msg.ID] = msgEntry{msg: msg, seq: snapshotSeq}
	}
}

// SetMembers replaces the membership cache.
func (v *View) SetMembers(members []models.ChatMember) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, m := range members {
		v.members[m.UserID] = m
	}
}

// PatchMember applies a single membership update from the change feed.
func (v *View) PatchMember(member models.ChatMember) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.members[member.UserID] = member
}

// SetTyping replaces the typing cache from a fetched snapshot.
func (v *View) SetTyping(rows []models.TypingIndicator) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = make(map[string]models.TypingIndicator, len(rows))
	for _, row := range rows {
		v.typing[row.UserID] = row
	}
}

// PatchTyping applies one typing upsert or delete from the change feed.
func (v *View) PatchTyping(row models.TypingIndicator, deleted bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if deleted {
		delete(v.typing, row.UserID)
		return
	}
	v.typing[row.UserID] = row
}

// SetReactions replaces the aggregated reaction cache.
func (v *View) SetReactions(groups map[string][]models.ReactionGroup) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reactions = groups
}

// Snapshot renders the viewer-facing state: messages in creation order with
// tombstones applied and statuses derived, live typers, and the membership
// rows.
func (v *View) Snapshot() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()

	msgs := make([]MessageView, 0, len(v.messages))
	members := make([]models.ChatMember, 0, len(v.members))
	for _, m := range v.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	counterpartLastRead := CounterpartLastRead(members, v.viewerID)

	for _, entry := range v.messages {
		mv := MessageView{Message: entry.msg, Reactions: v.reactions[entry.msg.ID]}
		if entry.msg.SenderID == v.viewerID {
			mv.Status = DeriveStatus(entry.msg, counterpartLastRead)
		}
		if entry.msg.DeletedFor(v.viewerID) {
			mv.Deleted = true
			mv.Content = ""
			mv.FileURL = nil
			mv.Reactions = nil
		}
		msgs = append(msgs, mv)
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	var typing []string
	rows := make([]models.TypingIndicator, 0, len(v.typing))
	for _, row := range v.typing {
		rows = append(rows, row)
	}
	for _, row := range LiveTyping(rows, v.viewerID, v.now()) {
		typing = append(typing, row.UserID)
	}
	sort.Strings(typing)

	return ViewState{
		ChatID:   v.chatID,
		Messages: msgs,
		Members:  members,
		Typing:   typing,
	}
}
