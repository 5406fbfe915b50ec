package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

const feedPrefix = "feed:"

func feedChannel(chatID, stream string) string {
	return feedPrefix + chatID + ":" + stream
}

// PublishEvent publishes a change-feed event on the chat- and stream-scoped
// Redis Pub/Sub channel.
func (s *Service) PublishEvent(ctx context.Context, ev models.FeedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, feedChannel(ev.ChatID, ev.Stream), payload).Err()
}

// SubscribeFeed subscribes to one stream of one chat. Events arrive on the
// returned channel in publish order; the cancel func tears the subscription
// down and closes the channel.
func (s *Service) SubscribeFeed(ctx context.Context, chatID, stream string) (<-chan models.FeedEvent, func(), error) {
	pubsub := s.Redis.Subscribe(ctx, feedChannel(chatID, stream))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan models.FeedEvent)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev models.FeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Failed to decode feed event on %s: %v", msg.Channel, err)
				continue
			}
			// A consumer that stopped receiving must not pin the forwarder
			// on an in-flight event.
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { pubsub.Close() }
	return out, cancel, nil
}

// SubscribeAllFeeds subscribes to every chat's streams at once. Used by the
// realtime hub, which routes events to connected clients by chat ID.
func (s *Service) SubscribeAllFeeds(ctx context.Context) (<-chan models.FeedEvent, func(), error) {
	pubsub := s.Redis.PSubscribe(ctx, feedPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan models.FeedEvent)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev models.FeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Failed to decode feed event on %s: %v", msg.Channel, err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { pubsub.Close() }
	return out, cancel, nil
}

// ClaimTransferKey claims an idempotency key for a tip transfer. Returns true
// when the key was free; a second claim within the TTL returns false and the
// caller treats the transfer as already performed.
func (s *Service) ClaimTransferKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.Redis.SetNX(ctx, "tipkey:"+key, 1, ttl).Result()
}

// ReleaseTransferKey frees a claimed idempotency key again. Called when the
// transfer behind the key failed, so the client's retry with the same key is
// a fresh attempt rather than a replay.
func (s *Service) ReleaseTransferKey(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, "tipkey:"+key).Err()
}
