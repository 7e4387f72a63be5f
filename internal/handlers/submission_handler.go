package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/submission"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/response"
	"github.com/stagekit/greenroom-api/internal/storage/objectstore"
	"github.com/stagekit/greenroom-api/internal/validation"
)

// SubmissionHandler exposes the submission ledger over HTTP. File bytes go
// to the object store; the ledger only ever sees metadata.
type SubmissionHandler struct {
	ledger *submission.LedgerService
	store  objectstore.Store
	log    *log.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(ledger *submission.LedgerService, store objectstore.Store) *SubmissionHandler {
	return &SubmissionHandler{
		ledger: ledger,
		store:  store,
		log:    logger.Handler("submission"),
	}
}

// Upload handles POST /api/speakers/:speaker_id/requirements/:requirement_id/submissions
func (h *SubmissionHandler) Upload(c *gin.Context) {
	speakerID := c.Param("speaker_id")
	requirementID := c.Param("requirement_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	meta := submission.FileMeta{
		FileName:    header.Filename,
		ObjectKey:   fmt.Sprintf("%s/%s/%s%s", speakerID, requirementID, uuid.New(), validation.NormalizeExtension(header.Filename)),
		SizeBytes:   header.Size,
		MimeType:    contentType,
		ImageWidth:  parseOptionalInt(c.PostForm("image_width")),
		ImageHeight: parseOptionalInt(c.PostForm("image_height")),
	}

	if err := h.store.Put(c.Request.Context(), meta.ObjectKey, file, header.Size, contentType); err != nil {
		h.log.Error("Failed to store uploaded file", "object_key", meta.ObjectKey, "error", err)
		response.InternalServerError(c, "Failed to store uploaded file")
		return
	}

	sub, err := h.ledger.Create(speakerID, requirementID, meta)
	if err != nil {
		// The ledger rejected the upload, so the stored bytes are orphaned
		if removeErr := h.store.Remove(c.Request.Context(), meta.ObjectKey); removeErr != nil {
			h.log.Error("Failed to clean up rejected upload", "object_key", meta.ObjectKey, "error", removeErr)
		}
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Submission created", sub)
}

// downloadURLExpiry bounds how long a handed-out file link stays valid
const downloadURLExpiry = 15 * time.Minute

// Download handles GET /api/submissions/:submission_id/download. The file
// bytes never pass through the API; the client follows a short-lived
// presigned URL straight to the object store.
func (h *SubmissionHandler) Download(c *gin.Context) {
	submissionID := c.Param("submission_id")

	sub, err := h.ledger.Get(submissionID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	url, err := h.store.PresignedGetURL(c.Request.Context(), sub.ObjectKey, downloadURLExpiry)
	if err != nil {
		h.log.Error("Failed to presign download URL", "object_key", sub.ObjectKey, "error", err)
		response.InternalServerError(c, "Failed to generate download link")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"submission_id":      sub.ID,
		"file_name":          sub.FileName,
		"download_url":       url,
		"expires_in_seconds": int(downloadURLExpiry.Seconds()),
	})
}

// Delete handles DELETE /api/submissions/:submission_id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	submissionID := c.Param("submission_id")

	if err := h.ledger.Delete(submissionID); err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Submission deleted", nil)
}

// History handles GET /api/speakers/:speaker_id/requirements/:requirement_id/submissions
func (h *SubmissionHandler) History(c *gin.Context) {
	speakerID := c.Param("speaker_id")
	requirementID := c.Param("requirement_id")

	history, err := h.ledger.GetVersionHistory(speakerID, requirementID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"speaker_id":     speakerID,
		"requirement_id": requirementID,
		"versions":       history,
		"count":          len(history),
	})
}

// parseOptionalInt reads a positive form value, treating absence as nil
func parseOptionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
