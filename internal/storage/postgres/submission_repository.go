package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	submissionDomain "github.com/stagekit/greenroom-api/internal/domain/submission"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// PostgresSubmissionRepository implements SubmissionRepository using GORM
type PostgresSubmissionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresSubmissionRepository creates a new PostgreSQL submission repository
func NewPostgresSubmissionRepository(db *gorm.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{
		db:  db,
		log: logger.Repository("submission"),
	}
}

// CreateVersion appends a new version for the (speaker, requirement) pair
// and re-derives the speaker's status, all in one transaction. Writers for
// the same speaker are serialized by a row lock on the speaker record; the
// partial unique index on latest rows is the backstop that turns a missed
// race into a ConflictError instead of a broken invariant.
func (r *PostgresSubmissionRepository) CreateVersion(sub *submissionDomain.Submission, requiredIDs []uuid.UUID) error {
	r.log.Debug("creating submission version",
		"submission_id", sub.ID, "speaker_id", sub.SpeakerID, "requirement_id", sub.AssetRequirementID)

	if sub == nil {
		return fmt.Errorf("submission cannot be nil")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var spk speaker.Speaker
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&spk, "id = ?", sub.SpeakerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("speaker", sub.SpeakerID.String())
			}
			return fmt.Errorf("failed to lock speaker row: %w", err)
		}

		var prev submissionDomain.Submission
		hasPrev := true
		if err := tx.Where("speaker_id = ? AND asset_requirement_id = ? AND is_latest = TRUE",
			sub.SpeakerID, sub.AssetRequirementID).First(&prev).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to locate current latest submission: %w", err)
			}
			hasPrev = false
		}

		// Deleted versions keep their numbers, so the next version comes
		// from the maximum ever used, not the row count.
		var maxVersion int64
		if err := tx.Model(&submissionDomain.Submission{}).
			Where("speaker_id = ? AND asset_requirement_id = ?", sub.SpeakerID, sub.AssetRequirementID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return fmt.Errorf("failed to compute next version: %w", err)
		}
		sub.Version = int(maxVersion) + 1

		if hasPrev {
			if err := tx.Model(&prev).Update("is_latest", false).Error; err != nil {
				return fmt.Errorf("failed to supersede previous version: %w", err)
			}
			prevID := prev.ID
			sub.ReplacesSubmissionID = &prevID
		} else {
			sub.ReplacesSubmissionID = nil
		}

		sub.IsLatest = true
		if err := tx.Create(sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperrors.ConflictError{
					Message: "a concurrent upload already produced a latest submission for this slot",
				}
			}
			return fmt.Errorf("failed to create submission: %w", err)
		}

		return r.reevaluateSpeakerStatus(tx, &spk, requiredIDs)
	})
	if err != nil {
		r.log.Error("failed to create submission version", "submission_id", sub.ID, "error", err)
		return err
	}

	r.log.Info("submission version created",
		"submission_id", sub.ID, "speaker_id", sub.SpeakerID, "version", sub.Version)
	return nil
}

func (r *PostgresSubmissionRepository) GetByID(id string) (*submissionDomain.Submission, error) {
	r.log.Debug("retrieving submission by ID", "submission_id", id)

	submissionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid submission ID format: %w", err)
	}

	var sub submissionDomain.Submission
	if err := r.db.First(&sub, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("submission", id)
		}
		return nil, fmt.Errorf("failed to retrieve submission: %w", err)
	}

	return &sub, nil
}

// DeleteAndReevaluate removes one submission record and re-derives the
// owning speaker's status in the same transaction. Deleting the latest
// version does not promote an older one.
func (r *PostgresSubmissionRepository) DeleteAndReevaluate(id string, requiredIDs []uuid.UUID) error {
	r.log.Debug("deleting submission", "submission_id", id)

	submissionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid submission ID format: %w", err)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var sub submissionDomain.Submission
		if err := tx.First(&sub, "id = ?", submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("submission", id)
			}
			return fmt.Errorf("failed to check submission existence: %w", err)
		}

		var spk speaker.Speaker
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&spk, "id = ?", sub.SpeakerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("speaker", sub.SpeakerID.String())
			}
			return fmt.Errorf("failed to lock speaker row: %w", err)
		}

		if err := tx.Delete(&sub).Error; err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}

		return r.reevaluateSpeakerStatus(tx, &spk, requiredIDs)
	})
	if err != nil {
		r.log.Error("failed to delete submission", "submission_id", id, "error", err)
		return err
	}

	r.log.Info("submission deleted", "submission_id", id)
	return nil
}

// GetVersionHistory returns all submissions for a pair ascending by version
func (r *PostgresSubmissionRepository) GetVersionHistory(speakerID, requirementID string) ([]*submissionDomain.Submission, error) {
	r.log.Debug("retrieving version history", "speaker_id", speakerID, "requirement_id", requirementID)

	speakerUUID, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, fmt.Errorf("invalid speaker ID format: %w", err)
	}

	requirementUUID, err := uuid.Parse(requirementID)
	if err != nil {
		return nil, fmt.Errorf("invalid requirement ID format: %w", err)
	}

	var subs []*submissionDomain.Submission
	if err := r.db.
		Where("speaker_id = ? AND asset_requirement_id = ?", speakerUUID, requirementUUID).
		Order("version ASC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve version history: %w", err)
	}

	return subs, nil
}

// ListLatestBySpeaker returns the currently-latest submission of every
// pair the speaker has uploaded to
func (r *PostgresSubmissionRepository) ListLatestBySpeaker(speakerID string) ([]*submissionDomain.Submission, error) {
	speakerUUID, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, fmt.Errorf("invalid speaker ID format: %w", err)
	}

	var subs []*submissionDomain.Submission
	if err := r.db.
		Where("speaker_id = ? AND is_latest = TRUE", speakerUUID).
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list latest submissions: %w", err)
	}

	return subs, nil
}

// reevaluateSpeakerStatus recomputes the derived status from the current
// latest rows and persists it on the locked speaker record. submitted_at
// is only written on a transition into complete and never cleared.
func (r *PostgresSubmissionRepository) reevaluateSpeakerStatus(tx *gorm.DB, spk *speaker.Speaker, requiredIDs []uuid.UUID) error {
	var latest []submissionDomain.Submission
	if err := tx.Where("speaker_id = ? AND is_latest = TRUE", spk.ID).Find(&latest).Error; err != nil {
		return fmt.Errorf("failed to load latest submissions: %w", err)
	}

	latestIDs := make([]uuid.UUID, 0, len(latest))
	for _, sub := range latest {
		latestIDs = append(latestIDs, sub.AssetRequirementID)
	}

	// Superseded versions survive deletion of the latest, so an empty
	// latest set does not mean an empty record.
	hasAny := len(latest) > 0
	if !hasAny {
		var total int64
		if err := tx.Model(&submissionDomain.Submission{}).
			Where("speaker_id = ?", spk.ID).
			Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count submissions: %w", err)
		}
		hasAny = total > 0
	}

	status := submissionDomain.EvaluateStatus(requiredIDs, latestIDs, hasAny)

	updates := map[string]interface{}{
		"submission_status": status,
	}
	if status == speaker.StatusComplete && spk.SubmissionStatus != speaker.StatusComplete {
		updates["submitted_at"] = time.Now()
	}

	if err := tx.Model(&speaker.Speaker{}).Where("id = ?", spk.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to persist speaker status: %w", err)
	}

	r.log.Debug("speaker status reevaluated", "speaker_id", spk.ID, "status", status)
	return nil
}
