package reminder

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder is one immutable record of an attempt to notify a speaker.
// A row transitions once from pending to sent or failed and is terminal;
// retrying never resurrects an old record, it creates a fresh one.
type Reminder struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SpeakerID    uuid.UUID  `json:"speaker_id" gorm:"type:uuid;not null"`
	EventID      uuid.UUID  `json:"event_id" gorm:"type:uuid;not null"`
	Status       Status     `json:"status" gorm:"type:reminder_status;not null;default:'pending'"`
	ScheduledFor time.Time  `json:"scheduled_for" gorm:"not null"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	EmailSubject string     `json:"email_subject" gorm:"not null"`
	EmailBody    string     `json:"email_body" gorm:"not null"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Reminder) TableName() string {
	return "reminders"
}

// BeforeCreate sets a UUID before creating the record
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewReminder creates a pending reminder attempt scheduled for now
func NewReminder(speakerID, eventID uuid.UUID, subject, body string, scheduledFor time.Time) *Reminder {
	return &Reminder{
		ID:           uuid.New(),
		SpeakerID:    speakerID,
		EventID:      eventID,
		Status:       StatusPending,
		ScheduledFor: scheduledFor,
		EmailSubject: subject,
		EmailBody:    body,
		CreatedAt:    time.Now(),
	}
}

// MarkSent finalizes the attempt as delivered
func (r *Reminder) MarkSent(at time.Time) {
	r.Status = StatusSent
	r.SentAt = &at
}

// MarkFailed finalizes the attempt with the notifier's failure description
func (r *Reminder) MarkFailed(reason string) {
	r.Status = StatusFailed
	r.ErrorMessage = &reason
}

func (r *Reminder) GetID() uuid.UUID {
	return r.ID
}

// Status represents the delivery state of one reminder attempt
type Status byte

const (
	StatusPending Status = iota
	StatusSent
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid reminder status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "pending":
		return StatusPending, true
	case "sent":
		return StatusSent, true
	case "failed":
		return StatusFailed, true
	default:
		return StatusPending, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusPending
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid reminder status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
