package speaker

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Speaker represents a person expected to deliver materials for an event
type Speaker struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null"`
	Name    string    `json:"name" gorm:"not null"`
	Email   string    `json:"email" gorm:"not null"`
	// SubmissionStatus is derived from the catalog and the ledger but
	// persisted for fast reads. It must always equal the pure function of
	// (required requirement ids, currently-latest submission requirement ids).
	SubmissionStatus   SubmissionStatus `json:"submission_status" gorm:"type:submission_status;not null;default:'pending'"`
	SubmittedAt        *time.Time       `json:"submitted_at,omitempty"`
	ReminderCount      int              `json:"reminder_count" gorm:"not null;default:0"`
	LastReminderSentAt *time.Time       `json:"last_reminder_sent_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Speaker) TableName() string {
	return "speakers"
}

// BeforeCreate sets a UUID before creating the record
func (s *Speaker) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewSpeaker creates a new speaker for an event
func NewSpeaker(eventID uuid.UUID, name, email string) *Speaker {
	return &Speaker{
		ID:               uuid.New(),
		EventID:          eventID,
		Name:             name,
		Email:            email,
		SubmissionStatus: StatusPending,
		CreatedAt:        time.Now(),
	}
}

func (s *Speaker) GetID() uuid.UUID {
	return s.ID
}

// IsComplete reports whether all required materials have arrived
func (s *Speaker) IsComplete() bool {
	return s.SubmissionStatus == StatusComplete
}

// SubmissionStatus is the speaker-level rollup of whether all required
// slots have a latest submission.
type SubmissionStatus byte

const (
	StatusPending SubmissionStatus = iota
	StatusPartial
	StatusComplete
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusPartial:
		return "partial"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s SubmissionStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *SubmissionStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid submission status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a SubmissionStatus
func StatusFromString(s string) (SubmissionStatus, bool) {
	switch s {
	case "pending":
		return StatusPending, true
	case "partial":
		return StatusPartial, true
	case "complete":
		return StatusComplete, true
	default:
		return StatusPending, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *SubmissionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = StatusPending
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into SubmissionStatus", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid submission status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s SubmissionStatus) Value() (driver.Value, error) {
	return s.String(), nil
}
