package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/notifier"
	"github.com/stagekit/greenroom-api/internal/portal"
	"github.com/stagekit/greenroom-api/internal/validation"
)

// Overrides optionally replaces the default subject and body of one attempt
type Overrides struct {
	Subject string
	Body    string
}

// DeliveryService runs the reminder attempt state machine:
// pending -> sent | failed, both terminal. Every attempt is its own
// immutable Reminder row.
type DeliveryService struct {
	reminders ReminderRepository
	speakers  SpeakerStore
	events    EventReader
	notifier  notifier.Notifier
	links     *portal.LinkBuilder
	now       func() time.Time
	log       *log.Logger
}

// NewDeliveryService creates a reminder delivery service
func NewDeliveryService(reminders ReminderRepository, speakers SpeakerStore, events EventReader, n notifier.Notifier, links *portal.LinkBuilder) *DeliveryService {
	return &DeliveryService{
		reminders: reminders,
		speakers:  speakers,
		events:    events,
		notifier:  n,
		links:     links,
		now:       time.Now,
		log:       logger.Service("reminder_delivery"),
	}
}

// Trigger records a pending attempt for the speaker, invokes the notifier
// synchronously and finalizes the row as sent or failed. On failure the
// row is persisted before the error is re-raised, so the record is the
// durable trace even when the caller drops the error.
func (s *DeliveryService) Trigger(ctx context.Context, speakerID string, overrides *Overrides) (*Reminder, error) {
	s.log.Debug("triggering reminder", "speaker_id", speakerID)

	if err := validation.ValidateUUID(speakerID, "speaker_id"); err != nil {
		return nil, apperrors.NewValidation("invalid reminder request", err.Error())
	}

	spk, err := s.speakers.GetByID(speakerID)
	if err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(spk.EventID.String())
	if err != nil {
		return nil, err
	}

	subject, body, err := s.composeEmail(ev, spk, overrides)
	if err != nil {
		return nil, err
	}

	rem := NewReminder(spk.ID, ev.ID, subject, body, s.now())
	if err := s.reminders.Create(rem); err != nil {
		return nil, fmt.Errorf("failed to record reminder attempt: %w", err)
	}

	return s.deliver(ctx, rem, ev, spk)
}

// Retry runs a fresh delivery attempt for a previously failed reminder.
// It is only legal when the target attempt ended in failed; the old row
// stays failed and the new attempt is recorded separately.
func (s *DeliveryService) Retry(ctx context.Context, reminderID string) (*Reminder, error) {
	s.log.Debug("retrying reminder", "reminder_id", reminderID)

	if err := validation.ValidateUUID(reminderID, "reminder_id"); err != nil {
		return nil, apperrors.NewValidation("invalid reminder request", err.Error())
	}

	prev, err := s.reminders.GetByID(reminderID)
	if err != nil {
		return nil, err
	}

	if prev.Status != StatusFailed {
		return nil, &apperrors.StateError{
			Message: fmt.Sprintf("only failed reminders can be retried, reminder %s is %s", prev.ID, prev.Status),
		}
	}

	spk, err := s.speakers.GetByID(prev.SpeakerID.String())
	if err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(prev.EventID.String())
	if err != nil {
		return nil, err
	}

	rem := NewReminder(prev.SpeakerID, prev.EventID, prev.EmailSubject, prev.EmailBody, s.now())
	if err := s.reminders.Create(rem); err != nil {
		return nil, fmt.Errorf("failed to record retry attempt: %w", err)
	}

	return s.deliver(ctx, rem, ev, spk)
}

// deliver invokes the notifier and finalizes the attempt record
func (s *DeliveryService) deliver(ctx context.Context, rem *Reminder, ev *event.Event, spk *speaker.Speaker) (*Reminder, error) {
	portalURL, err := s.links.SpeakerPortalURL(ev.Slug, ev.ID, spk.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build portal link: %w", err)
	}

	msg := notifier.Message{
		ToEmail:       spk.Email,
		RecipientName: spk.Name,
		EventName:     ev.Name,
		Deadline:      ev.MaterialsDeadline,
		PortalURL:     portalURL,
		Subject:       rem.EmailSubject,
		Body:          rem.EmailBody,
	}

	sendErr := s.notifier.SendReminder(ctx, msg)
	if sendErr != nil {
		rem.MarkFailed(sendErr.Error())
		if err := s.reminders.Update(rem); err != nil {
			s.log.Error("failed to persist failed reminder attempt",
				"reminder_id", rem.ID, "error", err, "send_error", sendErr)
			return nil, fmt.Errorf("failed to persist failed reminder attempt: %w", err)
		}

		s.log.Warn("reminder delivery failed", "reminder_id", rem.ID, "speaker_id", spk.ID, "error", sendErr)
		return nil, &apperrors.DeliveryError{Message: "reminder delivery failed", Cause: sendErr}
	}

	sentAt := s.now()
	rem.MarkSent(sentAt)
	if err := s.reminders.Update(rem); err != nil {
		return nil, fmt.Errorf("failed to finalize reminder attempt: %w", err)
	}

	if err := s.speakers.RecordReminderSent(spk.ID.String(), sentAt); err != nil {
		return nil, fmt.Errorf("failed to update speaker reminder counters: %w", err)
	}

	s.log.Info("reminder delivered", "reminder_id", rem.ID, "speaker_id", spk.ID, "event_id", ev.ID)
	return rem, nil
}

// composeEmail builds the subject and body, applying overrides when given
func (s *DeliveryService) composeEmail(ev *event.Event, spk *speaker.Speaker, overrides *Overrides) (string, string, error) {
	portalURL, err := s.links.SpeakerPortalURL(ev.Slug, ev.ID, spk.ID, s.now())
	if err != nil {
		return "", "", fmt.Errorf("failed to build portal link: %w", err)
	}

	subject := fmt.Sprintf("Reminder: materials for %s are due %s", ev.Name, ev.MaterialsDeadline.Format("January 2, 2006"))
	body := fmt.Sprintf(
		"Hi %s,\n\nWe are still missing some of your speaker materials for %s. "+
			"Please upload them before %s.\n\nYour upload portal: %s\n\nThank you!",
		spk.Name, ev.Name, ev.MaterialsDeadline.Format("January 2, 2006"), portalURL,
	)

	if overrides != nil {
		if overrides.Subject != "" {
			subject = overrides.Subject
		}
		if overrides.Body != "" {
			body = overrides.Body
		}
	}

	return subject, body, nil
}
