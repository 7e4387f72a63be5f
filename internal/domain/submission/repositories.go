package submission

import (
	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

// LedgerRepository is the persistence surface the ledger service needs.
// CreateVersion must serialize writers that touch the same
// (speaker, requirement) pair, assign the next version number, flip the
// previous latest row and re-derive the speaker's status as one atomic
// unit. Implementations return apperrors.ConflictError when a concurrent
// writer is detected instead of serialized away.
type LedgerRepository interface {
	CreateVersion(sub *Submission, requiredIDs []uuid.UUID) error
	GetByID(id string) (*Submission, error)
	DeleteAndReevaluate(id string, requiredIDs []uuid.UUID) error
	GetVersionHistory(speakerID, requirementID string) ([]*Submission, error)
	ListLatestBySpeaker(speakerID string) ([]*Submission, error)
}

// RequirementReader provides read-only access to the requirement catalog
type RequirementReader interface {
	GetByID(id string) (*requirement.AssetRequirement, error)
	ListByEvent(eventID string) ([]*requirement.AssetRequirement, error)
	ListRequiredIDs(eventID string) ([]uuid.UUID, error)
}

// SpeakerReader resolves speakers for ledger operations
type SpeakerReader interface {
	GetByID(id string) (*speaker.Speaker, error)
}
