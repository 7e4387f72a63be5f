package submission

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/validation"
)

// LedgerService owns the append-only submission history and keeps each
// speaker's derived completion status in step with it.
type LedgerService struct {
	ledger   LedgerRepository
	catalog  RequirementReader
	speakers SpeakerReader
	log      *log.Logger
}

// NewLedgerService creates a new submission ledger service
func NewLedgerService(ledger LedgerRepository, catalog RequirementReader, speakers SpeakerReader) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		catalog:  catalog,
		speakers: speakers,
		log:      logger.Service("submission_ledger"),
	}
}

// Create validates the uploaded file metadata against the requirement's
// constraints and appends a new version for the (speaker, requirement)
// pair. The speaker's completion status is re-derived in the same atomic
// unit as the insert.
func (s *LedgerService) Create(speakerID, requirementID string, meta FileMeta) (*Submission, error) {
	s.log.Debug("creating submission", "speaker_id", speakerID, "requirement_id", requirementID, "file_name", meta.FileName)

	if err := validation.ValidateUUID(speakerID, "speaker_id"); err != nil {
		return nil, apperrors.NewValidation("invalid submission request", err.Error())
	}
	if err := validation.ValidateUUID(requirementID, "requirement_id"); err != nil {
		return nil, apperrors.NewValidation("invalid submission request", err.Error())
	}

	spk, err := s.speakers.GetByID(speakerID)
	if err != nil {
		return nil, err
	}

	req, err := s.catalog.GetByID(requirementID)
	if err != nil {
		return nil, err
	}

	if err := validateFileMeta(req, meta); err != nil {
		s.log.Debug("submission rejected by requirement constraints",
			"speaker_id", speakerID, "requirement_id", requirementID, "error", err)
		return nil, err
	}

	requiredIDs, err := s.catalog.ListRequiredIDs(req.EventID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list required slots: %w", err)
	}

	sub := NewSubmission(spk.ID, req.ID, meta)
	if err := s.ledger.CreateVersion(sub, requiredIDs); err != nil {
		return nil, err
	}

	s.log.Info("submission created",
		"submission_id", sub.ID,
		"speaker_id", speakerID,
		"requirement_id", requirementID,
		"version", sub.Version)
	return sub, nil
}

// Delete removes one submission record. Deleting the latest version does
// not promote an older one; the pair reverts to "not submitted" and the
// speaker's status is re-derived.
func (s *LedgerService) Delete(submissionID string) error {
	s.log.Debug("deleting submission", "submission_id", submissionID)

	if err := validation.ValidateUUID(submissionID, "submission_id"); err != nil {
		return apperrors.NewValidation("invalid submission request", err.Error())
	}

	sub, err := s.ledger.GetByID(submissionID)
	if err != nil {
		return err
	}

	req, err := s.catalog.GetByID(sub.AssetRequirementID.String())
	if err != nil {
		return err
	}

	requiredIDs, err := s.catalog.ListRequiredIDs(req.EventID.String())
	if err != nil {
		return fmt.Errorf("failed to list required slots: %w", err)
	}

	if err := s.ledger.DeleteAndReevaluate(submissionID, requiredIDs); err != nil {
		return err
	}

	s.log.Info("submission deleted", "submission_id", submissionID, "was_latest", sub.IsLatest)
	return nil
}

// Get returns a single submission record by id
func (s *LedgerService) Get(submissionID string) (*Submission, error) {
	if err := validation.ValidateUUID(submissionID, "submission_id"); err != nil {
		return nil, apperrors.NewValidation("invalid submission request", err.Error())
	}

	return s.ledger.GetByID(submissionID)
}

// GetVersionHistory returns all submissions for a (speaker, requirement)
// pair ascending by version.
func (s *LedgerService) GetVersionHistory(speakerID, requirementID string) ([]*Submission, error) {
	if err := validation.ValidateUUID(speakerID, "speaker_id"); err != nil {
		return nil, apperrors.NewValidation("invalid history request", err.Error())
	}
	if err := validation.ValidateUUID(requirementID, "requirement_id"); err != nil {
		return nil, apperrors.NewValidation("invalid history request", err.Error())
	}

	return s.ledger.GetVersionHistory(speakerID, requirementID)
}

// validateFileMeta checks the uploaded metadata against every constraint
// the requirement carries and reports all violations at once.
func validateFileMeta(req *requirement.AssetRequirement, meta FileMeta) error {
	err := ozzo.ValidateStruct(&meta,
		ozzo.Field(&meta.SizeBytes, ozzo.By(maxSizeRule(req))),
		ozzo.Field(&meta.FileName, ozzo.By(fileTypeRule(req))),
		ozzo.Field(&meta.ImageWidth, ozzo.By(minDimensionRule(req.MinImageWidth, meta.MimeType, "width"))),
		ozzo.Field(&meta.ImageHeight, ozzo.By(minDimensionRule(req.MinImageHeight, meta.MimeType, "height"))),
	)
	if err == nil {
		return nil
	}

	errs, ok := err.(ozzo.Errors)
	if !ok {
		return apperrors.NewValidation("file does not meet requirement constraints", err.Error())
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	violations := make([]string, 0, len(errs))
	for _, field := range fields {
		violations = append(violations, fmt.Sprintf("%s: %s", field, errs[field]))
	}

	return apperrors.NewValidation("file does not meet requirement constraints", violations...)
}

// maxSizeRule enforces the requirement's maximum file size, if set
func maxSizeRule(req *requirement.AssetRequirement) ozzo.RuleFunc {
	return func(value interface{}) error {
		if req.MaxFileSizeBytes == nil {
			return nil
		}
		size, _ := value.(int64)
		if size > *req.MaxFileSizeBytes {
			return fmt.Errorf("file size %d exceeds the maximum of %d bytes", size, *req.MaxFileSizeBytes)
		}
		return nil
	}
}

// fileTypeRule enforces the requirement's accepted extensions, if set
func fileTypeRule(req *requirement.AssetRequirement) ozzo.RuleFunc {
	return func(value interface{}) error {
		if len(req.AcceptedFileTypes) == 0 {
			return nil
		}
		fileName, _ := value.(string)
		ext := validation.NormalizeExtension(fileName)
		if !req.AcceptsExtension(ext) {
			return fmt.Errorf("file type %q is not accepted (allowed: %v)", ext, []string(req.AcceptedFileTypes))
		}
		return nil
	}
}

// minDimensionRule enforces a minimum image dimension on image uploads.
// A missing dimension on an image upload is itself a violation when the
// requirement constrains it.
func minDimensionRule(min *int, mimeType, name string) ozzo.RuleFunc {
	return func(value interface{}) error {
		if min == nil || !validation.IsImageMimeType(mimeType) {
			return nil
		}
		dim, _ := value.(*int)
		if dim == nil {
			return fmt.Errorf("image %s is required but was not provided", name)
		}
		if *dim < *min {
			return fmt.Errorf("image %s %d is below the minimum of %d", name, *dim, *min)
		}
		return nil
	}
}
