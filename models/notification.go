package models

import "time"

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is one queued outbound broadcast. Items are enqueued by
// post-commit hooks and drained by a background ticker with retry counting.
type Notification struct {
	ID         string             `json:"id" db:"id"`
	Subject    string             `json:"subject" db:"subject"`
	Body       string             `json:"body" db:"body"`
	Recipients []string           `json:"recipients" db:"recipients"`
	Attempts   int                `json:"attempts" db:"attempts"`
	Status     NotificationStatus `json:"status" db:"status"`
	LastError  *string            `json:"last_error,omitempty" db:"last_error"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
}
