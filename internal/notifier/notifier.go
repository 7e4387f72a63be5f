// Package notifier is the outbound email collaborator of the reminder
// pipeline. The pipeline only depends on the Notifier interface; the SMTP
// implementation lives alongside it.
package notifier

import (
	"context"
	"time"
)

// Message carries everything needed to notify one speaker
type Message struct {
	ToEmail       string
	RecipientName string
	EventName     string
	Deadline      time.Time
	PortalURL     string
	Subject       string
	Body          string
}

// Notifier delivers reminder emails. Implementations own their timeout;
// an exceeded timeout surfaces as an error from SendReminder.
type Notifier interface {
	SendReminder(ctx context.Context, msg Message) error
}
