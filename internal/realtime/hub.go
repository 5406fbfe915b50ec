package realtime

import (
	"context"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// FeedSource is the slice of the store the hub needs: one firehose
// subscription covering every chat's streams.
type FeedSource interface {
	SubscribeAllFeeds(ctx context.Context) (<-chan models.FeedEvent, func(), error)
}

// Hub fans change-feed events out to connected clients. All state is owned by
// the Run goroutine; registration and unregistration go through channels.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	feed FeedSource
}

func NewHub(feed FeedSource) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		feed:         feed,
	}
}

// Run is the hub's main loop. It subscribes to the feed firehose and routes
// each event to the clients watching that chat.
func (h *Hub) Run(ctx context.Context) {
	events, cancel, err := h.feed.SubscribeAllFeeds(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to subscribe to change feed: %v", err)
		events = nil
	}
	if cancel != nil {
		defer cancel()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.RegisterCh:
			// A reconnect replaces the previous connection; the old one is
			// closed here, its later unregister hits the identity guard
			// below. The gauge counts users, so it only moves on a fresh
			// registration.
			if old, ok := h.Clients[client.GetUserID()]; ok {
				if old != client {
					old.Close()
				}
			} else {
				metrics.ClientsConnected.Inc()
			}
			h.Clients[client.GetUserID()] = client

		case client := <-h.UnregisterCh:
			if current, ok := h.Clients[client.GetUserID()]; ok && current == client {
				delete(h.Clients, client.GetUserID())
				client.Close()
				metrics.ClientsConnected.Dec()
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			h.broadcast(ev)
		}
	}
}

func (h *Hub) broadcast(ev models.FeedEvent) {
	for userID, client := range h.Clients {
		if client.GetChatID() != ev.ChatID {
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			// Client stopped draining its buffer; drop it rather than
			// block every other delivery.
			log.Printf("WARNING: Evicting slow client %s", userID)
			delete(h.Clients, userID)
			client.Close()
			metrics.ClientsConnected.Dec()
		}
	}
}
