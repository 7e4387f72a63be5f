package migrations

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Migration-local model definitions. These mirror the domain models but
// stay decoupled so schema history is frozen even when domain structs move.

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusPartial  SubmissionStatus = "partial"
	SubmissionStatusComplete SubmissionStatus = "complete"
)

func (ss *SubmissionStatus) Scan(value any) error {
	if value == nil {
		*ss = SubmissionStatusPending
		return nil
	}
	if str, ok := value.(string); ok {
		*ss = SubmissionStatus(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into SubmissionStatus", value)
}

func (ss SubmissionStatus) Value() (driver.Value, error) {
	return string(ss), nil
}

type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSent    ReminderStatus = "sent"
	ReminderStatusFailed  ReminderStatus = "failed"
)

func (rs *ReminderStatus) Scan(value any) error {
	if value == nil {
		*rs = ReminderStatusPending
		return nil
	}
	if str, ok := value.(string); ok {
		*rs = ReminderStatus(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ReminderStatus", value)
}

func (rs ReminderStatus) Value() (driver.Value, error) {
	return string(rs), nil
}

// Event represents a conference or track collecting speaker materials
type Event struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name              string    `gorm:"not null"`
	Slug              string    `gorm:"uniqueIndex;not null"`
	OrganizerEmail    string    `gorm:"not null"`
	MaterialsDeadline time.Time `gorm:"not null"`
	AutoReminders     bool      `gorm:"not null;default:true"`
	ReminderLeadDays  int       `gorm:"not null;default:14"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	Speakers     []Speaker          `gorm:"foreignKey:EventID"`
	Requirements []AssetRequirement `gorm:"foreignKey:EventID"`
	Reminders    []Reminder         `gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

// Speaker represents a person expected to deliver materials for an event
type Speaker struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID            uuid.UUID        `gorm:"type:uuid;not null"`
	Name               string           `gorm:"not null"`
	Email              string           `gorm:"not null"`
	SubmissionStatus   SubmissionStatus `gorm:"type:submission_status;not null;default:'pending'"`
	SubmittedAt        *time.Time
	ReminderCount      int `gorm:"not null;default:0"`
	LastReminderSentAt *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`

	Event       Event        `gorm:"foreignKey:EventID"`
	Submissions []Submission `gorm:"foreignKey:SpeakerID"`
	Reminders   []Reminder   `gorm:"foreignKey:SpeakerID"`
}

func (Speaker) TableName() string {
	return "speakers"
}

// AssetRequirement represents one asset slot an event expects per speaker
type AssetRequirement struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID           uuid.UUID      `gorm:"type:uuid;not null"`
	Name              string         `gorm:"not null"`
	AssetType         string         `gorm:"not null"`
	IsRequired        bool           `gorm:"not null;default:true"`
	AcceptedFileTypes pq.StringArray `gorm:"type:text[]"`
	MaxFileSizeBytes  *int64
	MinImageWidth     *int
	MinImageHeight    *int
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	Event       Event        `gorm:"foreignKey:EventID"`
	Submissions []Submission `gorm:"foreignKey:AssetRequirementID"`
}

func (AssetRequirement) TableName() string {
	return "asset_requirements"
}

// Submission is one uploaded version for a (speaker, requirement) pair
type Submission struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SpeakerID            uuid.UUID `gorm:"type:uuid;not null"`
	AssetRequirementID   uuid.UUID `gorm:"type:uuid;not null"`
	FileName             string    `gorm:"not null"`
	ObjectKey            string    `gorm:"not null"`
	FileSizeBytes        int64     `gorm:"not null"`
	MimeType             string    `gorm:"not null"`
	ImageWidth           *int
	ImageHeight          *int
	Version              int        `gorm:"not null"`
	ReplacesSubmissionID *uuid.UUID `gorm:"type:uuid"`
	IsLatest             bool       `gorm:"not null;default:true"`
	UploadedAt           time.Time  `gorm:"autoCreateTime"`

	Speaker     Speaker          `gorm:"foreignKey:SpeakerID"`
	Requirement AssetRequirement `gorm:"foreignKey:AssetRequirementID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Reminder is one immutable reminder attempt record
type Reminder struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SpeakerID    uuid.UUID      `gorm:"type:uuid;not null"`
	EventID      uuid.UUID      `gorm:"type:uuid;not null"`
	Status       ReminderStatus `gorm:"type:reminder_status;not null;default:'pending'"`
	ScheduledFor time.Time      `gorm:"not null"`
	SentAt       *time.Time
	EmailSubject string `gorm:"not null"`
	EmailBody    string `gorm:"not null"`
	ErrorMessage *string
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Speaker Speaker `gorm:"foreignKey:SpeakerID"`
	Event   Event   `gorm:"foreignKey:EventID"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// AllModels returns every migration model in dependency order
func AllModels() []any {
	return []any{
		&Event{},
		&Speaker{},
		&AssetRequirement{},
		&Submission{},
		&Reminder{},
	}
}
