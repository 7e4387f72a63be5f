package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	requirementDomain "github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// PostgresRequirementRepository implements RequirementRepository using GORM.
// The catalog is read-only from the ledger's perspective; administrative
// writes happen outside this service.
type PostgresRequirementRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresRequirementRepository creates a new PostgreSQL requirement repository
func NewPostgresRequirementRepository(db *gorm.DB) *PostgresRequirementRepository {
	return &PostgresRequirementRepository{
		db:  db,
		log: logger.Repository("requirement"),
	}
}

func (r *PostgresRequirementRepository) GetByID(id string) (*requirementDomain.AssetRequirement, error) {
	r.log.Debug("retrieving requirement by ID", "requirement_id", id)

	requirementID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid requirement ID format: %w", err)
	}

	var req requirementDomain.AssetRequirement
	if err := r.db.First(&req, "id = ?", requirementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("asset requirement", id)
		}
		return nil, fmt.Errorf("failed to retrieve requirement: %w", err)
	}

	return &req, nil
}

func (r *PostgresRequirementRepository) ListByEvent(eventID string) ([]*requirementDomain.AssetRequirement, error) {
	r.log.Debug("listing requirements by event", "event_id", eventID)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var reqs []*requirementDomain.AssetRequirement
	if err := r.db.Where("event_id = ?", eventUUID).Order("name ASC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}

	return reqs, nil
}

// ListRequiredIDs returns the ids of the event's required (non-optional) slots
func (r *PostgresRequirementRepository) ListRequiredIDs(eventID string) ([]uuid.UUID, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var ids []uuid.UUID
	if err := r.db.Model(&requirementDomain.AssetRequirement{}).
		Where("event_id = ? AND is_required = TRUE", eventUUID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list required slot ids: %w", err)
	}

	return ids, nil
}
