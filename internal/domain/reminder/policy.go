package reminder

import (
	"time"

	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

// Settings holds the reminder policy knobs. They are fixed at
// construction so eligibility decisions never consult process-wide state.
type Settings struct {
	// SweepEnabled is the master switch for the automated sweep. Manual
	// triggers are not gated by it.
	SweepEnabled bool
	// Cooldown is the minimum interval between automated reminders to the
	// same speaker. Zero disables deduplication.
	Cooldown time.Duration
	// DefaultLeadDays applies when an event has no lead time configured
	DefaultLeadDays int
}

// Policy decides which speakers are eligible for an automated reminder.
// It is evaluated by the externally-timed sweep, never by the ledger.
type Policy struct {
	settings Settings
}

// NewPolicy creates a reminder policy with explicit settings
func NewPolicy(settings Settings) *Policy {
	return &Policy{settings: settings}
}

// Eligible reports whether the automated sweep should remind the speaker
// now, with a short reason when it should not.
func (p *Policy) Eligible(ev *event.Event, spk *speaker.Speaker, now time.Time) (bool, string) {
	if !p.settings.SweepEnabled {
		return false, "automated reminders are disabled"
	}

	if !ev.AutoReminders {
		return false, "event has auto-reminders disabled"
	}

	if spk.IsComplete() {
		return false, "speaker already submitted all required materials"
	}

	lead := ev.LeadWindow()
	if lead <= 0 {
		lead = time.Duration(p.settings.DefaultLeadDays) * 24 * time.Hour
	}
	if ev.MaterialsDeadline.Sub(now) > lead {
		return false, "deadline is not yet within the reminder lead time"
	}

	if p.settings.Cooldown > 0 && spk.LastReminderSentAt != nil {
		if now.Sub(*spk.LastReminderSentAt) < p.settings.Cooldown {
			return false, "speaker was reminded within the cooldown window"
		}
	}

	return true, ""
}
