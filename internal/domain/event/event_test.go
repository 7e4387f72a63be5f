package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_LeadWindow(t *testing.T) {
	ev := NewEvent("GopherCon", "gophercon", "organizer@example.com",
		time.Now().AddDate(0, 1, 0), 14)

	assert.Equal(t, 14*24*time.Hour, ev.LeadWindow())

	ev.ReminderLeadDays = 0
	assert.Equal(t, time.Duration(0), ev.LeadWindow())
}

func TestEvent_Validate(t *testing.T) {
	ev := NewEvent("GopherCon", "gophercon", "organizer@example.com",
		time.Now().AddDate(0, 1, 0), 14)
	assert.NoError(t, ev.Validate())

	ev.Slug = ""
	assert.Error(t, ev.Validate())
}
