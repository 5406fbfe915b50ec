package models

// Stream names for the per-chat change feed. Each stream is an independent
// Redis Pub/Sub channel; there is no ordering guarantee across streams.
const (
	StreamMessages  = "messages"
	StreamReactions = "reactions"
	StreamTyping    = "typing"
	StreamMembers   = "members"
)

// Change-feed operations.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// FeedEvent is the JSON envelope published on the change feed whenever a row
// the chat session cares about changes. Exactly one of the payload pointers is
// set, matching Stream.
type FeedEvent struct {
	Stream string `json:"stream"`
	Op     string `json:"op"`
	ChatID string `json:"chat_id"`

	Message  *Message         `json:"message,omitempty"`
	Reaction *Reaction        `json:"reaction,omitempty"`
	Typing   *TypingIndicator `json:"typing,omitempty"`
	Member   *ChatMember      `json:"member,omitempty"`
}
