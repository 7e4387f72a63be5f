package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/domain/submission"
)

// EventRepository defines the persistence surface for events
type EventRepository interface {
	Create(ev *event.Event) error
	GetByID(id string) (*event.Event, error)
	GetBySlug(slug string) (*event.Event, error)
	GetAll() ([]*event.Event, error)
	ListAutoReminderEnabled() ([]*event.Event, error)
	Update(ev *event.Event) error
}

// SpeakerRepository defines the persistence surface for speakers
type SpeakerRepository interface {
	Create(spk *speaker.Speaker) error
	GetByID(id string) (*speaker.Speaker, error)
	GetByEventID(eventID string) ([]*speaker.Speaker, error)
	ListIncompleteByEvent(eventID string) ([]*speaker.Speaker, error)
	RecordReminderSent(speakerID string, at time.Time) error
}

// RequirementRepository defines read access to the asset requirement catalog
type RequirementRepository interface {
	GetByID(id string) (*requirement.AssetRequirement, error)
	ListByEvent(eventID string) ([]*requirement.AssetRequirement, error)
	ListRequiredIDs(eventID string) ([]uuid.UUID, error)
}

// SubmissionRepository defines the persistence surface of the submission
// ledger. CreateVersion and DeleteAndReevaluate run as single transactions
// covering the affected pair and the owning speaker's status row.
type SubmissionRepository interface {
	CreateVersion(sub *submission.Submission, requiredIDs []uuid.UUID) error
	GetByID(id string) (*submission.Submission, error)
	DeleteAndReevaluate(id string, requiredIDs []uuid.UUID) error
	GetVersionHistory(speakerID, requirementID string) ([]*submission.Submission, error)
	ListLatestBySpeaker(speakerID string) ([]*submission.Submission, error)
}

// ReminderRepository defines the persistence surface for reminder attempts
type ReminderRepository interface {
	Create(rem *reminder.Reminder) error
	GetByID(id string) (*reminder.Reminder, error)
	Update(rem *reminder.Reminder) error
	ListBySpeaker(speakerID string) ([]*reminder.Reminder, error)
}
