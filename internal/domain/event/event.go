package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event represents a conference or track collecting speaker materials
type Event struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name              string    `json:"name" gorm:"not null"`
	Slug              string    `json:"slug" gorm:"uniqueIndex;not null"`
	OrganizerEmail    string    `json:"organizer_email" gorm:"not null"`
	MaterialsDeadline time.Time `json:"materials_deadline" gorm:"not null"`
	AutoReminders     bool      `json:"auto_reminders" gorm:"not null;default:true"`
	ReminderLeadDays  int       `json:"reminder_lead_days" gorm:"not null;default:14"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a new event with the given parameters
func NewEvent(name, slug, organizerEmail string, deadline time.Time, leadDays int) *Event {
	return &Event{
		ID:                uuid.New(),
		Name:              name,
		Slug:              slug,
		OrganizerEmail:    organizerEmail,
		MaterialsDeadline: deadline,
		AutoReminders:     true,
		ReminderLeadDays:  leadDays,
		CreatedAt:         time.Now(),
	}
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if e.OrganizerEmail == "" {
		return fmt.Errorf("organizer_email is required")
	}
	if e.MaterialsDeadline.IsZero() {
		return fmt.Errorf("materials_deadline is required")
	}
	if e.ReminderLeadDays < 0 {
		return fmt.Errorf("reminder_lead_days cannot be negative")
	}
	return nil
}

// LeadWindow returns the reminder lead time as a duration
func (e *Event) LeadWindow() time.Duration {
	return time.Duration(e.ReminderLeadDays) * 24 * time.Hour
}

func (e *Event) GetID() uuid.UUID {
	return e.ID
}

func (e *Event) GetName() string {
	return e.Name
}
