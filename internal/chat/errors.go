package chat

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the chat services. Handlers map them onto HTTP
// statuses; everything else is treated as a transient backend failure.
var (
	// ErrNotFound: the referenced chat, message, or user does not exist or
	// is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrValidation: the request is malformed (empty content, bad reply
	// target, non-positive amount) and submission is blocked.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientBalance: a tip exceeds the sender's coin balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// PartialFailureError records a fan-out that succeeded for some members and
// failed for others. Counters are independent per member, so the failed ones
// merely undercount until the next recount; callers log this and move on.
type PartialFailureError struct {
	Op     string
	Failed []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s failed for members: %s", e.Op, strings.Join(e.Failed, ", "))
}
