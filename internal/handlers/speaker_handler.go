package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/response"
	"github.com/stagekit/greenroom-api/internal/storage/postgres"
)

// SpeakerHandler exposes speaker completion state over HTTP
type SpeakerHandler struct {
	speakers     postgres.SpeakerRepository
	submissions  postgres.SubmissionRepository
	requirements postgres.RequirementRepository
	log          *log.Logger
}

// NewSpeakerHandler creates a new speaker handler
func NewSpeakerHandler(speakers postgres.SpeakerRepository, submissions postgres.SubmissionRepository, requirements postgres.RequirementRepository) *SpeakerHandler {
	return &SpeakerHandler{
		speakers:     speakers,
		submissions:  submissions,
		requirements: requirements,
		log:          logger.Handler("speaker"),
	}
}

// GetStatus handles GET /api/speakers/:speaker_id/status. It reports the
// derived completion status together with the latest submission of every
// pair, so the portal can show which slots are still open.
func (h *SpeakerHandler) GetStatus(c *gin.Context) {
	speakerID := c.Param("speaker_id")

	spk, err := h.speakers.GetByID(speakerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	latest, err := h.submissions.ListLatestBySpeaker(speakerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	reqs, err := h.requirements.ListByEvent(spk.EventID.String())
	if err != nil {
		response.DomainError(c, err)
		return
	}

	submitted := make(map[string]bool, len(latest))
	for _, sub := range latest {
		submitted[sub.AssetRequirementID.String()] = true
	}

	missing := make([]string, 0)
	for _, req := range reqs {
		if req.IsRequired && !submitted[req.ID.String()] {
			missing = append(missing, req.Name)
		}
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"speaker_id":             spk.ID,
		"name":                   spk.Name,
		"submission_status":      spk.SubmissionStatus,
		"submitted_at":           spk.SubmittedAt,
		"reminder_count":         spk.ReminderCount,
		"last_reminder_sent_at":  spk.LastReminderSentAt,
		"latest_submissions":     latest,
		"missing_required_names": missing,
	})
}

// ListByEvent handles GET /api/events/:event_id/speakers
func (h *SpeakerHandler) ListByEvent(c *gin.Context) {
	eventID := c.Param("event_id")

	speakers, err := h.speakers.GetByEventID(eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"event_id": eventID,
		"speakers": speakers,
		"count":    len(speakers),
	})
}
