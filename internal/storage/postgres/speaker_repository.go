package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	speakerDomain "github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// PostgresSpeakerRepository implements SpeakerRepository using GORM
type PostgresSpeakerRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresSpeakerRepository creates a new PostgreSQL speaker repository
func NewPostgresSpeakerRepository(db *gorm.DB) *PostgresSpeakerRepository {
	return &PostgresSpeakerRepository{
		db:  db,
		log: logger.Repository("speaker"),
	}
}

func (r *PostgresSpeakerRepository) Create(spk *speakerDomain.Speaker) error {
	r.log.Debug("creating speaker", "speaker_id", spk.ID, "event_id", spk.EventID)

	if spk == nil {
		return fmt.Errorf("speaker cannot be nil")
	}

	if spk.Name == "" {
		return fmt.Errorf("speaker name cannot be empty")
	}

	if spk.Email == "" {
		return fmt.Errorf("speaker email cannot be empty")
	}

	if err := r.db.Create(spk).Error; err != nil {
		r.log.Error("failed to create speaker", "speaker_id", spk.ID, "error", err)
		return fmt.Errorf("failed to create speaker: %w", err)
	}

	r.log.Info("speaker created", "speaker_id", spk.ID, "event_id", spk.EventID)
	return nil
}

func (r *PostgresSpeakerRepository) GetByID(id string) (*speakerDomain.Speaker, error) {
	r.log.Debug("retrieving speaker by ID", "speaker_id", id)

	speakerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid speaker ID format: %w", err)
	}

	var spk speakerDomain.Speaker
	if err := r.db.First(&spk, "id = ?", speakerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("speaker", id)
		}
		return nil, fmt.Errorf("failed to retrieve speaker: %w", err)
	}

	return &spk, nil
}

func (r *PostgresSpeakerRepository) GetByEventID(eventID string) ([]*speakerDomain.Speaker, error) {
	r.log.Debug("retrieving speakers by event ID", "event_id", eventID)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var speakers []*speakerDomain.Speaker
	if err := r.db.Where("event_id = ?", eventUUID).Order("name ASC").Find(&speakers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve speakers by event ID: %w", err)
	}

	return speakers, nil
}

// ListIncompleteByEvent returns speakers whose materials are still missing
func (r *PostgresSpeakerRepository) ListIncompleteByEvent(eventID string) ([]*speakerDomain.Speaker, error) {
	r.log.Debug("listing incomplete speakers", "event_id", eventID)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var speakers []*speakerDomain.Speaker
	if err := r.db.
		Where("event_id = ? AND submission_status <> ?", eventUUID, speakerDomain.StatusComplete).
		Find(&speakers).Error; err != nil {
		return nil, fmt.Errorf("failed to list incomplete speakers: %w", err)
	}

	return speakers, nil
}

// RecordReminderSent increments the reminder counter and stamps the last
// sent time, scoped to the single speaker row.
func (r *PostgresSpeakerRepository) RecordReminderSent(speakerID string, at time.Time) error {
	r.log.Debug("recording reminder sent", "speaker_id", speakerID)

	speakerUUID, err := uuid.Parse(speakerID)
	if err != nil {
		return fmt.Errorf("invalid speaker ID format: %w", err)
	}

	result := r.db.Model(&speakerDomain.Speaker{}).
		Where("id = ?", speakerUUID).
		Updates(map[string]interface{}{
			"reminder_count":        gorm.Expr("reminder_count + 1"),
			"last_reminder_sent_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record reminder sent: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("speaker", speakerID)
	}

	return nil
}
