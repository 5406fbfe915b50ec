package config

import "time"

const (
	// Typing indicators.
	// The producer deletes its indicator after this long without a keystroke.
	TypingQuietPeriod = 3 * time.Second
	// Readers ignore indicators older than this, so a row the producer
	// failed to delete expires on its own. Wider than the quiet period to
	// absorb network and poll lag.
	TypingLiveWindow = 5 * time.Second
	// Minimum gap between remote refreshes of an indicator while composing.
	TypingRefreshInterval = 1 * time.Second

	// Session tokens.
	TokenTTL = 72 * time.Hour

	// Tip transfers: how long a claimed idempotency key blocks replays.
	TipKeyTTL = 24 * time.Hour

	// Per-client buffer for outbound realtime events. A client that falls
	// this far behind is evicted.
	SendChannelBuffer = 256
)
