package detail

import "time"

// Notification messages shown after a review submission
const (
	MessageIncomplete      = "Please fill in all required fields."
	MessageReviewSubmitted = "Review submitted successfully!"
	MessageReviewFailed    = "Failed to submit review. Please try again."
)

// Kind is the visual style of a notification
type Kind string

// Notification kinds
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient message that dismisses itself at ExpiresAt
type Notification struct {
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewNotification creates a notification visible for ttl from now
func NewNotification(kind Kind, message string, now time.Time, ttl time.Duration) Notification {
	return Notification{Message: message, Kind: kind, ExpiresAt: now.Add(ttl)}
}

// Active reports whether the notification is still shown at now
func (n Notification) Active(now time.Time) bool {
	return n.Message != "" && now.Before(n.ExpiresAt)
}

// Remaining is how long the notification stays up after now, never negative
func (n Notification) Remaining(now time.Time) time.Duration {
	if !n.Active(now) {
		return 0
	}
	return n.ExpiresAt.Sub(now)
}
