package chat

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// Session is one user's open view of one chat. Opening a session loads the
// message, membership, reaction, and typing snapshots, then subscribes to the
// four change streams and folds every event into the view until Close.
//
// The four streams are independent: there is no ordering guarantee across
// them, only within each one. The reducer therefore applies patches by entity
// id with last-write-wins and re-derives aggregates instead of assuming any
// cross-stream order.
type Session struct {
	store     Store
	reactions *ReactionService
	view      *View

	ctx     context.Context
	cancel  context.CancelFunc
	cancels []func()
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// OpenSession loads the initial snapshots for the viewer and starts the
// reducer. Fails with ErrNotFound when the viewer is not a member of the
// chat.
func OpenSession(ctx context.Context, store Store, reactions *ReactionService, chatID, viewerID string) (*Session, error) {
	member, err := store.GetMember(ctx, chatID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	view := newView(chatID, viewerID)

	seq := view.BeginFetch()
	msgs, err := store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	view.ApplyMessageSnapshot(seq, msgs)

	members, err := store.GetMembers(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	view.SetMembers(members)

	groups, err := reactions.AggregateForChat(ctx, chatID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	view.SetReactions(groups)

	typing, err := store.ListTyping(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	view.SetTyping(typing)

	sessCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		store:     store,
		reactions: reactions,
		view:      view,
		ctx:       sessCtx,
		cancel:    cancel,
	}

	streams := make(map[string]<-chan models.FeedEvent, 4)
	for _, stream := range []string{
		models.StreamMessages, models.StreamReactions,
		models.StreamTyping, models.StreamMembers,
	} {
		ch, cancelSub, err := store.SubscribeFeed(sessCtx, chatID, stream)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("subscribe %s: %w", stream, err)
		}
		s.cancels = append(s.cancels, cancelSub)
		streams[stream] = ch
	}

	s.wg.Add(1)
	go s.run(streams)
	return s, nil
}

// Snapshot returns the current viewer-facing state.
func (s *Session) Snapshot() ViewState {
	return s.view.Snapshot()
}

// ChatID returns the chat this session is attached to.
func (s *Session) ChatID() string {
	return s.view.chatID
}

// Refresh re-fetches the message list and merges it into the view. Patches
// applied while the fetch was in flight survive the merge.
func (s *Session) Refresh(ctx context.Context) error {
	seq := s.view.BeginFetch()
	msgs, err := s.store.ListMessages(ctx, s.view.chatID)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	s.view.ApplyMessageSnapshot(seq, msgs)
	return nil
}

// Close tears the session down: all four subscriptions are cancelled and the
// reducer drains. Mandatory when the view unmounts, since a leaked subscription
// would keep mutating state nobody renders.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		for _, cancelSub := range s.cancels {
			cancelSub()
		}
		s.wg.Wait()
	})
}

func (s *Session) run(streams map[string]<-chan models.FeedEvent) {
	defer s.wg.Done()

	msgCh := streams[models.StreamMessages]
	reactCh := streams[models.StreamReactions]
	typCh := streams[models.StreamTyping]
	memCh := streams[models.StreamMembers]

	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-msgCh:
			if !ok {
				msgCh = nil
				continue
			}
			s.apply(ev)
		case ev, ok := <-reactCh:
			if !ok {
				reactCh = nil
				continue
			}
			s.apply(ev)
		case ev, ok := <-typCh:
			if !ok {
				typCh = nil
				continue
			}
			s.apply(ev)
		case ev, ok := <-memCh:
			if !ok {
				memCh = nil
				continue
			}
			s.apply(ev)
		}
	}
}

func (s *Session) apply(ev models.FeedEvent) {
	metrics.EventsRouted.WithLabelValues(ev.Stream).Inc()

	switch ev.Stream {
	case models.StreamMessages:
		// Inserts and updates both patch the cache directly; no re-fetch
		// needed for a single-row change.
		if ev.Message != nil {
			s.view.PatchMessage(*ev.Message)
		}
	case models.StreamReactions:
		// Reaction rows only matter in aggregate, so re-run the
		// aggregation for the chat.
		groups, err := s.reactions.AggregateForChat(s.ctx, s.view.chatID, s.view.viewerID)
		if err != nil {
			if s.ctx.Err() == nil {
				log.Printf("WARNING: reaction re-aggregation failed for chat %s: %v", s.view.chatID, err)
			}
			return
		}
		s.view.SetReactions(groups)
	case models.StreamTyping:
		if ev.Typing != nil {
			s.view.PatchTyping(*ev.Typing, ev.Op == models.EventDelete)
		}
	case models.StreamMembers:
		// A moved read marker changes the derived status of every loaded
		// message; the derivation happens lazily in Snapshot, so patching
		// the member row is enough.
		if ev.Member != nil {
			s.view.PatchMember(*ev.Member)
		}
	}
}
