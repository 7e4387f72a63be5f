package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/requirement"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/domain/submission"
	"github.com/stagekit/greenroom-api/internal/logger"
)

func init() {
	logger.Initialize("error")
	gin.SetMode(gin.TestMode)
}

// fakeLedgerRepo serves GetByID from a fixed map; the download endpoint
// never writes to the ledger.
type fakeLedgerRepo struct {
	subs map[uuid.UUID]*submission.Submission
}

func (f *fakeLedgerRepo) CreateVersion(sub *submission.Submission, requiredIDs []uuid.UUID) error {
	return nil
}

func (f *fakeLedgerRepo) GetByID(id string) (*submission.Submission, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("submission", id)
	}
	if sub, ok := f.subs[parsed]; ok {
		return sub, nil
	}
	return nil, apperrors.NewNotFound("submission", id)
}

func (f *fakeLedgerRepo) DeleteAndReevaluate(id string, requiredIDs []uuid.UUID) error {
	return nil
}

func (f *fakeLedgerRepo) GetVersionHistory(speakerID, requirementID string) ([]*submission.Submission, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ListLatestBySpeaker(speakerID string) ([]*submission.Submission, error) {
	return nil, nil
}

type fakeRequirementReader struct{}

func (fakeRequirementReader) GetByID(id string) (*requirement.AssetRequirement, error) {
	return nil, apperrors.NewNotFound("asset requirement", id)
}

func (fakeRequirementReader) ListByEvent(eventID string) ([]*requirement.AssetRequirement, error) {
	return nil, nil
}

func (fakeRequirementReader) ListRequiredIDs(eventID string) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeSpeakerReader struct{}

func (fakeSpeakerReader) GetByID(id string) (*speaker.Speaker, error) {
	return nil, apperrors.NewNotFound("speaker", id)
}

// fakeStore records which keys were presigned and hands back a canned URL
type fakeStore struct {
	presignedKeys []string
	url           string
}

func (f *fakeStore) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, objectKey string) error {
	return nil
}

func (f *fakeStore) PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	f.presignedKeys = append(f.presignedKeys, objectKey)
	return f.url, nil
}

func setupDownloadRouter(sub *submission.Submission, store *fakeStore) *gin.Engine {
	repo := &fakeLedgerRepo{subs: map[uuid.UUID]*submission.Submission{}}
	if sub != nil {
		repo.subs[sub.ID] = sub
	}
	ledger := submission.NewLedgerService(repo, fakeRequirementReader{}, fakeSpeakerReader{})

	router := gin.New()
	handler := NewSubmissionHandler(ledger, store)
	router.GET("/api/submissions/:submission_id/download", handler.Download)
	return router
}

func TestSubmissionHandler_Download(t *testing.T) {
	sub := submission.NewSubmission(uuid.New(), uuid.New(), submission.FileMeta{
		FileName:  "ada.jpg",
		ObjectKey: "objects/ada.jpg",
		SizeBytes: 1024,
		MimeType:  "image/jpeg",
	})
	store := &fakeStore{url: "https://objects.example.com/objects/ada.jpg?signed"}
	router := setupDownloadRouter(sub, store)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/"+sub.ID.String()+"/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			FileName    string `json:"file_name"`
			DownloadURL string `json:"download_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ada.jpg", body.Data.FileName)
	assert.Equal(t, store.url, body.Data.DownloadURL)

	// The link was signed for the stored object, not the file name
	assert.Equal(t, []string{sub.ObjectKey}, store.presignedKeys)
}

func TestSubmissionHandler_Download_UnknownSubmission(t *testing.T) {
	store := &fakeStore{url: "https://objects.example.com/unused"}
	router := setupDownloadRouter(nil, store)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/"+uuid.New().String()+"/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.presignedKeys)
}
