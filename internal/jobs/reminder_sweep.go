// Package jobs hosts the externally-timed triggers of the reminder
// pipeline. The sweep owns scheduling only; eligibility belongs to the
// policy and delivery to the delivery service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// ReminderSweep periodically selects incomplete, not-recently-reminded
// speakers of events with auto-reminders enabled and delivers a reminder
// to each. A failed delivery is logged and never stops the sweep.
type ReminderSweep struct {
	events   reminder.EventReader
	speakers reminder.SpeakerStore
	policy   *reminder.Policy
	delivery *reminder.DeliveryService
	cron     *cron.Cron
	log      *log.Logger
}

// NewReminderSweep creates the sweep job
func NewReminderSweep(events reminder.EventReader, speakers reminder.SpeakerStore, policy *reminder.Policy, delivery *reminder.DeliveryService) *ReminderSweep {
	return &ReminderSweep{
		events:   events,
		speakers: speakers,
		policy:   policy,
		delivery: delivery,
		log:      logger.Job("reminder_sweep"),
	}
}

// Start schedules the sweep with the given cron spec
func (s *ReminderSweep) Start(cronSpec string) error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(cronSpec, func() {
		s.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("reminder sweep scheduled", "cron", cronSpec)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *ReminderSweep) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("reminder sweep stopped")
}

// Run executes one sweep pass. It is also invoked directly by the manual
// sweep endpoint.
func (s *ReminderSweep) Run(ctx context.Context) {
	s.log.Debug("starting reminder sweep pass")

	events, err := s.events.ListAutoReminderEnabled()
	if err != nil {
		s.log.Error("failed to list events for sweep", "error", err)
		return
	}

	var selected, delivered, failed int
	for _, ev := range events {
		speakers, err := s.speakers.ListIncompleteByEvent(ev.ID.String())
		if err != nil {
			s.log.Error("failed to list incomplete speakers", "event_id", ev.ID, "error", err)
			continue
		}

		for _, spk := range speakers {
			ok, reason := s.policy.Eligible(ev, spk, time.Now())
			if !ok {
				s.log.Debug("speaker skipped by policy", "speaker_id", spk.ID, "reason", reason)
				continue
			}

			selected++
			if _, err := s.delivery.Trigger(ctx, spk.ID.String(), nil); err != nil {
				failed++
				s.log.Error("sweep delivery failed", "speaker_id", spk.ID, "event_id", ev.ID, "error", err)
				continue
			}
			delivered++
		}
	}

	s.log.Info("reminder sweep pass completed",
		"events", len(events), "selected", selected, "delivered", delivered, "failed", failed)
}
