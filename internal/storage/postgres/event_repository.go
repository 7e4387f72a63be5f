package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	eventDomain "github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(ev *eventDomain.Event) error {
	r.log.Debug("creating event", "event_id", ev.ID, "name", ev.Name)

	if ev == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if err := ev.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	if err := r.db.Create(ev).Error; err != nil {
		r.log.Error("failed to create event", "event_id", ev.ID, "error", err)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("event created", "event_id", ev.ID, "name", ev.Name)
	return nil
}

func (r *PostgresEventRepository) GetByID(id string) (*eventDomain.Event, error) {
	r.log.Debug("retrieving event by ID", "event_id", id)

	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var ev eventDomain.Event
	if err := r.db.First(&ev, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("event", id)
		}
		return nil, fmt.Errorf("failed to retrieve event: %w", err)
	}

	return &ev, nil
}

func (r *PostgresEventRepository) GetBySlug(slug string) (*eventDomain.Event, error) {
	r.log.Debug("retrieving event by slug", "slug", slug)

	if slug == "" {
		return nil, errors.New("event slug cannot be empty")
	}

	var ev eventDomain.Event
	if err := r.db.First(&ev, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("event", slug)
		}
		return nil, fmt.Errorf("failed to retrieve event: %w", err)
	}

	return &ev, nil
}

func (r *PostgresEventRepository) GetAll() ([]*eventDomain.Event, error) {
	var events []*eventDomain.Event
	if err := r.db.Order("materials_deadline ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	return events, nil
}

// ListAutoReminderEnabled returns the events the sweep should consider
func (r *PostgresEventRepository) ListAutoReminderEnabled() ([]*eventDomain.Event, error) {
	var events []*eventDomain.Event
	if err := r.db.Where("auto_reminders = TRUE").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list auto-reminder events: %w", err)
	}

	return events, nil
}

func (r *PostgresEventRepository) Update(ev *eventDomain.Event) error {
	r.log.Debug("updating event", "event_id", ev.ID)

	if ev == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if err := ev.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	var existing eventDomain.Event
	if err := r.db.First(&existing, "id = ?", ev.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("event", ev.ID.String())
		}
		return fmt.Errorf("failed to check event existence: %w", err)
	}

	if err := r.db.Save(ev).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	r.log.Info("event updated", "event_id", ev.ID)
	return nil
}
