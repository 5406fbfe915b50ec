package realtime

import "github.com/Codding0001/bond-chat-verse-sub000/internal/models"

// Client is one connected consumer of routed change-feed events. It abstracts
// the underlying transport so the hub can manage connection types uniformly.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string
	// GetChatID returns the chat whose events the client is watching.
	GetChatID() string

	// GetSendChannel returns the channel the hub pushes events into. It is
	// buffered; a client that stops draining it gets evicted.
	GetSendChannel() chan<- models.FeedEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the client down and releases its resources.
	Close()
}
