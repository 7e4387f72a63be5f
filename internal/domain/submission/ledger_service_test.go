package submission

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/logger"
)

func init() {
	logger.Initialize("error")
}

type ledgerFixture struct {
	service  *LedgerService
	ledger   *mockLedgerRepo
	catalog  *mockRequirementRepo
	speakers *mockSpeakerRepo
	eventID  uuid.UUID
	speaker  *speaker.Speaker
	headshot *requirement.AssetRequirement
	bio      *requirement.AssetRequirement
}

func setupLedgerFixture() *ledgerFixture {
	speakers := newMockSpeakerRepo()
	ledger := newMockLedgerRepo(speakers)
	catalog := newMockRequirementRepo()

	eventID := uuid.New()

	spk := speaker.NewSpeaker(eventID, "Ada Lovelace", "ada@example.com")
	speakers.add(spk)

	maxSize := int64(5 << 20)
	headshot := &requirement.AssetRequirement{
		ID:                uuid.New(),
		EventID:           eventID,
		Name:              "Headshot",
		AssetType:         "image",
		IsRequired:        true,
		AcceptedFileTypes: []string{".jpg", ".png"},
		MaxFileSizeBytes:  &maxSize,
	}
	bio := &requirement.AssetRequirement{
		ID:         uuid.New(),
		EventID:    eventID,
		Name:       "Bio",
		AssetType:  "document",
		IsRequired: true,
	}
	catalog.add(headshot)
	catalog.add(bio)

	return &ledgerFixture{
		service:  NewLedgerService(ledger, catalog, speakers),
		ledger:   ledger,
		catalog:  catalog,
		speakers: speakers,
		eventID:  eventID,
		speaker:  spk,
		headshot: headshot,
		bio:      bio,
	}
}

func validMeta(fileName string) FileMeta {
	return FileMeta{
		FileName:  fileName,
		ObjectKey: "objects/" + fileName,
		SizeBytes: 1024,
		MimeType:  "image/jpeg",
	}
}

func TestLedgerService_Create_FirstVersion(t *testing.T) {
	f := setupLedgerFixture()

	sub, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))
	require.NoError(t, err)

	assert.Equal(t, 1, sub.Version)
	assert.True(t, sub.IsLatest)
	assert.Nil(t, sub.ReplacesSubmissionID)
	assert.Equal(t, speaker.StatusPartial, f.speaker.SubmissionStatus)
}

func TestLedgerService_Create_SupersedesPreviousVersion(t *testing.T) {
	f := setupLedgerFixture()

	first, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("v1.jpg"))
	require.NoError(t, err)

	second, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("v2.jpg"))
	require.NoError(t, err)

	assert.Equal(t, 2, second.Version)
	assert.True(t, second.IsLatest)
	require.NotNil(t, second.ReplacesSubmissionID)
	assert.Equal(t, first.ID, *second.ReplacesSubmissionID)

	// The first version survives unchanged except for the latest flag
	stored, err := f.ledger.GetByID(first.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.IsLatest)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, "v1.jpg", stored.FileName)
}

func TestLedgerService_Create_VersionChainAcrossManyUploads(t *testing.T) {
	f := setupLedgerFixture()

	var last *Submission
	for i := 0; i < 5; i++ {
		sub, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("headshot.jpg"))
		require.NoError(t, err)
		last = sub
	}

	history, err := f.service.GetVersionHistory(f.speaker.ID.String(), f.headshot.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 5)

	// Exactly one latest, versions ascend, chain terminates at nil
	latestCount := 0
	for i, sub := range history {
		assert.Equal(t, i+1, sub.Version)
		if sub.IsLatest {
			latestCount++
		}
	}
	assert.Equal(t, 1, latestCount)
	assert.True(t, last.IsLatest)

	visited := 0
	for cur := last; cur != nil; {
		visited++
		if cur.ReplacesSubmissionID == nil {
			break
		}
		prev, err := f.ledger.GetByID(cur.ReplacesSubmissionID.String())
		require.NoError(t, err)
		assert.Equal(t, cur.Version-1, prev.Version)
		cur = prev
	}
	assert.Equal(t, 5, visited)
}

func TestLedgerService_Create_StatusProgressesToComplete(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))
	require.NoError(t, err)
	assert.Equal(t, speaker.StatusPartial, f.speaker.SubmissionStatus)

	_, err = f.service.Create(f.speaker.ID.String(), f.bio.ID.String(), FileMeta{
		FileName:  "bio.pdf",
		ObjectKey: "objects/bio.pdf",
		SizeBytes: 2048,
		MimeType:  "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, speaker.StatusComplete, f.speaker.SubmissionStatus)
}

func TestLedgerService_Create_UnknownSpeaker(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create(uuid.New().String(), f.headshot.ID.String(), validMeta("ada.jpg"))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerService_Create_UnknownRequirement(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create(f.speaker.ID.String(), uuid.New().String(), validMeta("ada.jpg"))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerService_Create_MalformedID(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create("not-a-uuid", f.headshot.ID.String(), validMeta("ada.jpg"))

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLedgerService_Create_ReportsAllViolations(t *testing.T) {
	f := setupLedgerFixture()

	minWidth, minHeight := 800, 600
	f.headshot.MinImageWidth = &minWidth
	f.headshot.MinImageHeight = &minHeight

	tooSmall := 100
	meta := FileMeta{
		FileName:    "ada.gif",
		ObjectKey:   "objects/ada.gif",
		SizeBytes:   10 << 20,
		MimeType:    "image/gif",
		ImageWidth:  &tooSmall,
		ImageHeight: &tooSmall,
	}

	_, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), meta)
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	// Size, extension, width and height all violated at once
	assert.Len(t, validationErr.Violations, 4)

	// Nothing was appended
	history, err := f.service.GetVersionHistory(f.speaker.ID.String(), f.headshot.ID.String())
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, speaker.StatusPending, f.speaker.SubmissionStatus)
}

func TestLedgerService_Create_MissingDimensionsOnConstrainedImage(t *testing.T) {
	f := setupLedgerFixture()

	minWidth := 800
	f.headshot.MinImageWidth = &minWidth

	_, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLedgerService_Create_DimensionRulesSkipNonImages(t *testing.T) {
	f := setupLedgerFixture()

	minWidth := 800
	f.bio.MinImageWidth = &minWidth

	_, err := f.service.Create(f.speaker.ID.String(), f.bio.ID.String(), FileMeta{
		FileName:  "bio.pdf",
		ObjectKey: "objects/bio.pdf",
		SizeBytes: 2048,
		MimeType:  "application/pdf",
	})

	assert.NoError(t, err)
}

func TestLedgerService_Delete_LatestDoesNotPromoteOlder(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("v1.jpg"))
	require.NoError(t, err)
	second, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("v2.jpg"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(second.ID.String()))

	history, err := f.service.GetVersionHistory(f.speaker.ID.String(), f.headshot.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].IsLatest)

	// The pair has no latest, but the surviving older version keeps the
	// speaker out of pending
	assert.Equal(t, speaker.StatusPartial, f.speaker.SubmissionStatus)
}

func TestLedgerService_Delete_SoleVersionRevertsToPending(t *testing.T) {
	f := setupLedgerFixture()

	sub, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(sub.ID.String()))

	history, err := f.service.GetVersionHistory(f.speaker.ID.String(), f.headshot.ID.String())
	require.NoError(t, err)
	assert.Empty(t, history)

	// With no submissions left on record the speaker is back to pending
	assert.Equal(t, speaker.StatusPending, f.speaker.SubmissionStatus)
}

func TestLedgerService_Delete_RevertsCompleteToPartial(t *testing.T) {
	f := setupLedgerFixture()

	sub, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))
	require.NoError(t, err)
	_, err = f.service.Create(f.speaker.ID.String(), f.bio.ID.String(), FileMeta{
		FileName:  "bio.pdf",
		ObjectKey: "objects/bio.pdf",
		SizeBytes: 2048,
		MimeType:  "application/pdf",
	})
	require.NoError(t, err)
	require.Equal(t, speaker.StatusComplete, f.speaker.SubmissionStatus)

	require.NoError(t, f.service.Delete(sub.ID.String()))

	assert.Equal(t, speaker.StatusPartial, f.speaker.SubmissionStatus)
}

func TestLedgerService_SubmittedAtSetOnceAndNeverCleared(t *testing.T) {
	f := setupLedgerFixture()

	_, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada.jpg"))
	require.NoError(t, err)
	assert.Nil(t, f.speaker.SubmittedAt)

	_, err = f.service.Create(f.speaker.ID.String(), f.bio.ID.String(), FileMeta{
		FileName:  "bio.pdf",
		ObjectKey: "objects/bio.pdf",
		SizeBytes: 2048,
		MimeType:  "application/pdf",
	})
	require.NoError(t, err)
	require.Equal(t, speaker.StatusComplete, f.speaker.SubmissionStatus)
	require.NotNil(t, f.speaker.SubmittedAt)
	submittedAt := *f.speaker.SubmittedAt

	// Re-deriving complete on a later upload leaves the timestamp alone
	headshotV2, err := f.service.Create(f.speaker.ID.String(), f.headshot.ID.String(), validMeta("ada-v2.jpg"))
	require.NoError(t, err)
	require.Equal(t, speaker.StatusComplete, f.speaker.SubmissionStatus)
	assert.Equal(t, submittedAt, *f.speaker.SubmittedAt)

	// Regressing out of complete does not clear it either
	require.NoError(t, f.service.Delete(headshotV2.ID.String()))
	require.Equal(t, speaker.StatusPartial, f.speaker.SubmissionStatus)
	require.NotNil(t, f.speaker.SubmittedAt)
	assert.Equal(t, submittedAt, *f.speaker.SubmittedAt)
}

func TestLedgerService_Delete_Unknown(t *testing.T) {
	f := setupLedgerFixture()

	err := f.service.Delete(uuid.New().String())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerService_GetVersionHistory_EmptyPair(t *testing.T) {
	f := setupLedgerFixture()

	history, err := f.service.GetVersionHistory(f.speaker.ID.String(), f.headshot.ID.String())

	require.NoError(t, err)
	assert.Empty(t, history)
}
