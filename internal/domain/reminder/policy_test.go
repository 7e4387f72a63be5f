package reminder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
)

func defaultSettings() Settings {
	return Settings{
		SweepEnabled:    true,
		Cooldown:        24 * time.Hour,
		DefaultLeadDays: 14,
	}
}

func policyFixture(deadlineIn time.Duration) (*event.Event, *speaker.Speaker, time.Time) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ev := event.NewEvent("GopherConf", "gopherconf", "organizer@example.com", now.Add(deadlineIn), 14)
	spk := speaker.NewSpeaker(ev.ID, "Ada Lovelace", "ada@example.com")
	return ev, spk, now
}

func TestPolicy_Eligible(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)

	ok, reason := p.Eligible(ev, spk, now)

	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestPolicy_SweepDisabled(t *testing.T) {
	settings := defaultSettings()
	settings.SweepEnabled = false
	p := NewPolicy(settings)
	ev, spk, now := policyFixture(7 * 24 * time.Hour)

	ok, reason := p.Eligible(ev, spk, now)

	assert.False(t, ok)
	assert.Contains(t, reason, "disabled")
}

func TestPolicy_EventOptedOut(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)
	ev.AutoReminders = false

	ok, _ := p.Eligible(ev, spk, now)

	assert.False(t, ok)
}

func TestPolicy_CompleteSpeakerSkipped(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)
	spk.SubmissionStatus = speaker.StatusComplete

	ok, reason := p.Eligible(ev, spk, now)

	assert.False(t, ok)
	assert.Contains(t, reason, "already submitted")
}

func TestPolicy_PartialSpeakerStillEligible(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)
	spk.SubmissionStatus = speaker.StatusPartial

	ok, _ := p.Eligible(ev, spk, now)

	assert.True(t, ok)
}

func TestPolicy_DeadlineOutsideLeadWindow(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(30 * 24 * time.Hour)

	ok, reason := p.Eligible(ev, spk, now)

	assert.False(t, ok)
	assert.Contains(t, reason, "lead time")
}

func TestPolicy_DefaultLeadDaysWhenEventUnset(t *testing.T) {
	settings := defaultSettings()
	settings.DefaultLeadDays = 10
	p := NewPolicy(settings)

	ev, spk, now := policyFixture(8 * 24 * time.Hour)
	ev.ReminderLeadDays = 0

	ok, _ := p.Eligible(ev, spk, now)
	assert.True(t, ok)

	ev2, spk2, now2 := policyFixture(12 * 24 * time.Hour)
	ev2.ReminderLeadDays = 0

	ok, _ = p.Eligible(ev2, spk2, now2)
	assert.False(t, ok)
}

func TestPolicy_CooldownSuppressesRepeat(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)

	recent := now.Add(-2 * time.Hour)
	spk.LastReminderSentAt = &recent

	ok, reason := p.Eligible(ev, spk, now)

	assert.False(t, ok)
	assert.Contains(t, reason, "cooldown")
}

func TestPolicy_CooldownExpired(t *testing.T) {
	p := NewPolicy(defaultSettings())
	ev, spk, now := policyFixture(7 * 24 * time.Hour)

	old := now.Add(-48 * time.Hour)
	spk.LastReminderSentAt = &old

	ok, _ := p.Eligible(ev, spk, now)

	assert.True(t, ok)
}

func TestPolicy_ZeroCooldownDisablesDeduplication(t *testing.T) {
	settings := defaultSettings()
	settings.Cooldown = 0
	p := NewPolicy(settings)
	ev, spk, now := policyFixture(7 * 24 * time.Hour)

	justNow := now.Add(-time.Minute)
	spk.LastReminderSentAt = &justNow

	ok, _ := p.Eligible(ev, spk, now)

	assert.True(t, ok)
}

func TestPolicy_IgnoresUnknownEventSpeakerPairing(t *testing.T) {
	// The policy judges the pair it is handed; ownership is resolved by
	// whoever selects the candidates
	p := NewPolicy(defaultSettings())
	ev, _, now := policyFixture(7 * 24 * time.Hour)
	stray := speaker.NewSpeaker(uuid.New(), "Stray", "stray@example.com")

	ok, _ := p.Eligible(ev, stray, now)

	assert.True(t, ok)
}
