package submission

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one uploaded version of an asset for a
// (speaker, requirement) pair. History is append-only: superseding an
// upload flips IsLatest on the previous version instead of touching it.
//
// Invariants per (SpeakerID, AssetRequirementID) pair:
//   - at most one row has IsLatest = true at any instant
//   - Version values ascend in creation order
//   - the ReplacesSubmissionID chain walked from the latest row visits
//     every prior version exactly once and terminates at nil
type Submission struct {
	ID                   uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SpeakerID            uuid.UUID  `json:"speaker_id" gorm:"type:uuid;not null"`
	AssetRequirementID   uuid.UUID  `json:"asset_requirement_id" gorm:"type:uuid;not null"`
	FileName             string     `json:"file_name" gorm:"not null"`
	ObjectKey            string     `json:"object_key" gorm:"not null"`
	FileSizeBytes        int64      `json:"file_size_bytes" gorm:"not null"`
	MimeType             string     `json:"mime_type" gorm:"not null"`
	ImageWidth           *int       `json:"image_width,omitempty"`
	ImageHeight          *int       `json:"image_height,omitempty"`
	Version              int        `json:"version" gorm:"not null"`
	ReplacesSubmissionID *uuid.UUID `json:"replaces_submission_id,omitempty" gorm:"type:uuid"`
	IsLatest             bool       `json:"is_latest" gorm:"not null;default:true"`
	UploadedAt           time.Time  `json:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Submission) TableName() string {
	return "submissions"
}

// BeforeCreate sets a UUID before creating the record
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Submission) GetID() uuid.UUID {
	return s.ID
}

// FileMeta carries the metadata of an uploaded file. Byte handling lives
// with the object store collaborator; the ledger only sees this shape.
type FileMeta struct {
	FileName    string
	ObjectKey   string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
}

// NewSubmission builds an unversioned submission from file metadata. The
// repository assigns Version, ReplacesSubmissionID and IsLatest inside the
// ledger transaction.
func NewSubmission(speakerID, requirementID uuid.UUID, meta FileMeta) *Submission {
	return &Submission{
		ID:                 uuid.New(),
		SpeakerID:          speakerID,
		AssetRequirementID: requirementID,
		FileName:           meta.FileName,
		ObjectKey:          meta.ObjectKey,
		FileSizeBytes:      meta.SizeBytes,
		MimeType:           meta.MimeType,
		ImageWidth:         meta.ImageWidth,
		ImageHeight:        meta.ImageHeight,
		UploadedAt:         time.Now(),
	}
}
