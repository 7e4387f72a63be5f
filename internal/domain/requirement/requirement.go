// Package requirement holds the per-event catalog of asset slots speakers
// are expected to fill (headshot, bio, slides). The catalog is read-only
// from the ledger's perspective; administrative edits happen elsewhere.
package requirement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AssetRequirement represents one named asset slot an event expects from
// each speaker, with optional validation constraints.
type AssetRequirement struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null"`
	Name    string    `json:"name" gorm:"not null"`
	// AssetType is a coarse category such as "image" or "document"
	AssetType  string `json:"asset_type" gorm:"not null"`
	IsRequired bool   `json:"is_required" gorm:"not null;default:true"`
	// AcceptedFileTypes holds lower-cased extensions including the leading
	// dot. Empty means any extension is accepted.
	AcceptedFileTypes pq.StringArray `json:"accepted_file_types" gorm:"type:text[]"`
	MaxFileSizeBytes  *int64         `json:"max_file_size_bytes,omitempty"`
	MinImageWidth     *int           `json:"min_image_width,omitempty"`
	MinImageHeight    *int           `json:"min_image_height,omitempty"`
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (AssetRequirement) TableName() string {
	return "asset_requirements"
}

// BeforeCreate sets a UUID before creating the record
func (r *AssetRequirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AcceptsExtension reports whether the given extension is allowed. The
// extension is compared lower-cased with its leading dot. An empty
// accepted list accepts everything.
func (r *AssetRequirement) AcceptsExtension(ext string) bool {
	if len(r.AcceptedFileTypes) == 0 {
		return true
	}
	ext = strings.ToLower(ext)
	for _, accepted := range r.AcceptedFileTypes {
		if strings.ToLower(accepted) == ext {
			return true
		}
	}
	return false
}

// HasDimensionConstraints reports whether minimum image dimensions are set
func (r *AssetRequirement) HasDimensionConstraints() bool {
	return r.MinImageWidth != nil || r.MinImageHeight != nil
}
