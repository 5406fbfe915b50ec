package chat

import (
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// DeriveStatus computes the sender-facing delivery status of a message from
// the counterpart's last-read marker. A message created at or before the
// marker is read; anything newer reports whatever the stored column holds,
// clamped so it can never claim "read" ahead of the marker.
//
// The result is derived at view time and never persisted: the membership row
// is the single source of truth for read progress.
func DeriveStatus(msg models.Message, counterpartLastReadAt time.Time) string {
	if !msg.CreatedAt.After(counterpartLastReadAt) {
		return models.StatusRead
	}
	if msg.Status == models.StatusRead {
		return models.StatusDelivered
	}
	return msg.Status
}
