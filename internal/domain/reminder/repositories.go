package reminder

import (
	"time"

	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

// ReminderRepository persists reminder attempt records
type ReminderRepository interface {
	Create(rem *Reminder) error
	GetByID(id string) (*Reminder, error)
	Update(rem *Reminder) error
	ListBySpeaker(speakerID string) ([]*Reminder, error)
}

// SpeakerStore resolves speakers and records successful deliveries
type SpeakerStore interface {
	GetByID(id string) (*speaker.Speaker, error)
	ListIncompleteByEvent(eventID string) ([]*speaker.Speaker, error)
	RecordReminderSent(speakerID string, at time.Time) error
}

// EventReader resolves the owning event of a speaker
type EventReader interface {
	GetByID(id string) (*event.Event, error)
	ListAutoReminderEnabled() ([]*event.Event, error)
}
