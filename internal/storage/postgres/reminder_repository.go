package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	reminderDomain "github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// PostgresReminderRepository implements ReminderRepository using GORM
type PostgresReminderRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresReminderRepository creates a new PostgreSQL reminder repository
func NewPostgresReminderRepository(db *gorm.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{
		db:  db,
		log: logger.Repository("reminder"),
	}
}

func (r *PostgresReminderRepository) Create(rem *reminderDomain.Reminder) error {
	r.log.Debug("creating reminder attempt", "reminder_id", rem.ID, "speaker_id", rem.SpeakerID)

	if rem == nil {
		return fmt.Errorf("reminder cannot be nil")
	}

	if rem.EmailSubject == "" {
		return fmt.Errorf("reminder subject cannot be empty")
	}

	if err := r.db.Create(rem).Error; err != nil {
		r.log.Error("failed to create reminder", "reminder_id", rem.ID, "error", err)
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

func (r *PostgresReminderRepository) GetByID(id string) (*reminderDomain.Reminder, error) {
	r.log.Debug("retrieving reminder by ID", "reminder_id", id)

	reminderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID format: %w", err)
	}

	var rem reminderDomain.Reminder
	if err := r.db.First(&rem, "id = ?", reminderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("reminder", id)
		}
		return nil, fmt.Errorf("failed to retrieve reminder: %w", err)
	}

	return &rem, nil
}

// Update persists the terminal state of one attempt, scoped to its row
func (r *PostgresReminderRepository) Update(rem *reminderDomain.Reminder) error {
	r.log.Debug("updating reminder", "reminder_id", rem.ID, "status", rem.Status)

	if rem == nil {
		return fmt.Errorf("reminder cannot be nil")
	}

	result := r.db.Model(&reminderDomain.Reminder{}).
		Where("id = ?", rem.ID).
		Updates(map[string]interface{}{
			"status":        rem.Status,
			"sent_at":       rem.SentAt,
			"error_message": rem.ErrorMessage,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update reminder: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("reminder", rem.ID.String())
	}

	return nil
}

func (r *PostgresReminderRepository) ListBySpeaker(speakerID string) ([]*reminderDomain.Reminder, error) {
	speakerUUID, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, fmt.Errorf("invalid speaker ID format: %w", err)
	}

	var reminders []*reminderDomain.Reminder
	if err := r.db.
		Where("speaker_id = ?", speakerUUID).
		Order("created_at DESC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	return reminders, nil
}
