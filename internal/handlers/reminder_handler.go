package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/response"
	"github.com/stagekit/greenroom-api/internal/storage/postgres"
)

// TriggerReminderRequest optionally overrides the default email content
type TriggerReminderRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ReminderHandler exposes reminder delivery over HTTP. Manual triggers
// bypass the sweep policy; the caller decides who gets reminded.
type ReminderHandler struct {
	delivery  *reminder.DeliveryService
	reminders postgres.ReminderRepository
	log       *log.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(delivery *reminder.DeliveryService, reminders postgres.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{
		delivery:  delivery,
		reminders: reminders,
		log:       logger.Handler("reminder"),
	}
}

// Trigger handles POST /api/speakers/:speaker_id/reminders
func (h *ReminderHandler) Trigger(c *gin.Context) {
	speakerID := c.Param("speaker_id")

	var overrides *reminder.Overrides
	var req TriggerReminderRequest
	if err := c.ShouldBindJSON(&req); err == nil && (req.Subject != "" || req.Body != "") {
		overrides = &reminder.Overrides{Subject: req.Subject, Body: req.Body}
	}

	rem, err := h.delivery.Trigger(c.Request.Context(), speakerID, overrides)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Reminder sent", rem)
}

// Retry handles POST /api/reminders/:reminder_id/retry
func (h *ReminderHandler) Retry(c *gin.Context) {
	reminderID := c.Param("reminder_id")

	rem, err := h.delivery.Retry(c.Request.Context(), reminderID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Reminder retried", rem)
}

// ListBySpeaker handles GET /api/speakers/:speaker_id/reminders
func (h *ReminderHandler) ListBySpeaker(c *gin.Context) {
	speakerID := c.Param("speaker_id")

	rems, err := h.reminders.ListBySpeaker(speakerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"speaker_id": speakerID,
		"reminders":  rems,
		"count":      len(rems),
	})
}
