package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stagekit/greenroom-api/internal/domain/apperrors"
	"github.com/stagekit/greenroom-api/internal/domain/event"
	"github.com/stagekit/greenroom-api/internal/domain/speaker"
	"github.com/stagekit/greenroom-api/internal/notifier"
)

// mockReminderRepo is a map-backed attempt store
type mockReminderRepo struct {
	reminders map[uuid.UUID]*Reminder
}

func newMockReminderRepo() *mockReminderRepo {
	return &mockReminderRepo{reminders: make(map[uuid.UUID]*Reminder)}
}

func (m *mockReminderRepo) Create(rem *Reminder) error {
	stored := *rem
	m.reminders[rem.ID] = &stored
	return nil
}

func (m *mockReminderRepo) GetByID(id string) (*Reminder, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("reminder", id)
	}
	if rem, ok := m.reminders[parsed]; ok {
		copied := *rem
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("reminder", id)
}

func (m *mockReminderRepo) Update(rem *Reminder) error {
	if _, ok := m.reminders[rem.ID]; !ok {
		return apperrors.NewNotFound("reminder", rem.ID.String())
	}
	stored := *rem
	m.reminders[rem.ID] = &stored
	return nil
}

func (m *mockReminderRepo) ListBySpeaker(speakerID string) ([]*Reminder, error) {
	parsed, err := uuid.Parse(speakerID)
	if err != nil {
		return nil, apperrors.NewNotFound("speaker", speakerID)
	}
	var result []*Reminder
	for _, rem := range m.reminders {
		if rem.SpeakerID == parsed {
			copied := *rem
			result = append(result, &copied)
		}
	}
	return result, nil
}

// mockSpeakerStore is a map-backed speaker store tracking reminder counters
type mockSpeakerStore struct {
	speakers map[uuid.UUID]*speaker.Speaker
}

func newMockSpeakerStore() *mockSpeakerStore {
	return &mockSpeakerStore{speakers: make(map[uuid.UUID]*speaker.Speaker)}
}

func (m *mockSpeakerStore) add(spk *speaker.Speaker) {
	m.speakers[spk.ID] = spk
}

func (m *mockSpeakerStore) GetByID(id string) (*speaker.Speaker, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("speaker", id)
	}
	if spk, ok := m.speakers[parsed]; ok {
		return spk, nil
	}
	return nil, apperrors.NewNotFound("speaker", id)
}

func (m *mockSpeakerStore) ListIncompleteByEvent(eventID string) ([]*speaker.Speaker, error) {
	parsed, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.NewNotFound("event", eventID)
	}
	var result []*speaker.Speaker
	for _, spk := range m.speakers {
		if spk.EventID == parsed && !spk.IsComplete() {
			result = append(result, spk)
		}
	}
	return result, nil
}

func (m *mockSpeakerStore) RecordReminderSent(speakerID string, at time.Time) error {
	spk, err := m.GetByID(speakerID)
	if err != nil {
		return err
	}
	spk.ReminderCount++
	spk.LastReminderSentAt = &at
	return nil
}

// mockEventReader is a map-backed event store
type mockEventReader struct {
	events map[uuid.UUID]*event.Event
}

func newMockEventReader() *mockEventReader {
	return &mockEventReader{events: make(map[uuid.UUID]*event.Event)}
}

func (m *mockEventReader) add(ev *event.Event) {
	m.events[ev.ID] = ev
}

func (m *mockEventReader) GetByID(id string) (*event.Event, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewNotFound("event", id)
	}
	if ev, ok := m.events[parsed]; ok {
		return ev, nil
	}
	return nil, apperrors.NewNotFound("event", id)
}

func (m *mockEventReader) ListAutoReminderEnabled() ([]*event.Event, error) {
	var result []*event.Event
	for _, ev := range m.events {
		if ev.AutoReminders {
			result = append(result, ev)
		}
	}
	return result, nil
}

// mockNotifier records delivery attempts and can be told to fail
type mockNotifier struct {
	sent    []notifier.Message
	failErr error
}

func (m *mockNotifier) SendReminder(_ context.Context, msg notifier.Message) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errSMTPDown = errors.New("smtp: connection refused")
