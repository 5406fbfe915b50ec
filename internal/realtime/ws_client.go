package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/chat"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/config"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Inbound frame from the browser. Writes go through the REST surface, so the
// socket carries nothing upstream but typing activity and snapshot requests.
type inboundFrame struct {
	Type string `json:"type"` // "typing" | "typing_stop" | "sync"
}

// Outbound frame. Incremental change-feed events carry Type "event"; full
// view snapshots carry Type "snapshot". A snapshot goes out right after the
// connection opens and again whenever the client asks for one.
type outboundFrame struct {
	Type     string            `json:"type"`
	Event    *models.FeedEvent `json:"event,omitempty"`
	Snapshot *chat.ViewState   `json:"snapshot,omitempty"`
}

// WebSocketClient implements the realtime.Client interface over a gorilla
// websocket connection. It owns the chat session and the typing tracker for
// its (chat, user) pair so that both die with the connection.
type WebSocketClient struct {
	UserID  string
	ChatID  string
	Conn    *websocket.Conn
	Hub     *Hub
	Send    chan models.FeedEvent
	Session *chat.Session
	Typing  *chat.TypingTracker

	syncCh    chan struct{}
	closeOnce sync.Once
}

// NewWebSocketClient builds a client around an upgraded connection. When a
// session is supplied, the first write on the socket is its snapshot.
func NewWebSocketClient(userID, chatID string, conn *websocket.Conn, hub *Hub, sess *chat.Session, typing *chat.TypingTracker) *WebSocketClient {
	c := &WebSocketClient{
		UserID:  userID,
		ChatID:  chatID,
		Conn:    conn,
		Hub:     hub,
		Send:    make(chan models.FeedEvent, config.SendChannelBuffer),
		Session: sess,
		Typing:  typing,
		syncCh:  make(chan struct{}, 1),
	}
	if sess != nil {
		c.syncCh <- struct{}{}
	}
	return c
}

func (c *WebSocketClient) GetUserID() string                       { return c.UserID }
func (c *WebSocketClient) GetChatID() string                       { return c.ChatID }
func (c *WebSocketClient) GetSendChannel() chan<- models.FeedEvent { return c.Send }

// Run starts the pumps for the connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the send channel, which stops the write pump.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

func (c *WebSocketClient) readPump() {
	defer func() {
		// Unmount cleanup: the session's subscriptions and the remote
		// typing row must go away with the connection, best effort.
		if c.Session != nil {
			c.Session.Close()
		}
		if c.Typing != nil {
			c.Typing.Close(context.Background())
		}
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Error decoding JSON from client %s: %v", c.UserID, err)
			continue
		}

		switch frame.Type {
		case "typing":
			if c.Typing == nil {
				continue
			}
			if err := c.Typing.Keystroke(context.Background()); err != nil {
				log.Printf("WARNING: typing upsert failed for %s: %v", c.UserID, err)
			}
		case "typing_stop":
			if c.Typing != nil {
				c.Typing.MessageSent(context.Background())
			}
		case "sync":
			// Collapse repeated requests; one pending snapshot is enough.
			select {
			case c.syncCh <- struct{}{}:
			default:
			}
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(outboundFrame{Type: "event", Event: &ev})
			if err != nil {
				log.Printf("Error encoding JSON for client %s: %v", c.UserID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Drain whatever else is already queued into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, _ := json.Marshal(outboundFrame{Type: "event", Event: &next})
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-c.syncCh:
			if c.Session == nil {
				continue
			}
			state := c.Session.Snapshot()
			data, err := json.Marshal(outboundFrame{Type: "snapshot", Snapshot: &state})
			if err != nil {
				log.Printf("Error encoding snapshot for client %s: %v", c.UserID, err)
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
