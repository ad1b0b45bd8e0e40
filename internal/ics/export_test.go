package ics

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"calweb/internal/model"
)

func TestBuildCalendar_TimedEvent(t *testing.T) {
	ev := model.Event{
		ID:        primitive.NewObjectID(),
		Title:     "Standup",
		Location:  "room 4",
		StartTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Color:     model.ColorPrimary,
		Recurring: model.RecurNone,
		UpdatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	cal, err := BuildCalendar([]model.Event{ev}, time.UTC)
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	out := cal.Serialize()

	for _, want := range []string{
		"BEGIN:VEVENT",
		"SUMMARY:Standup",
		"LOCATION:room 4",
		"DTSTART:20240115T090000Z",
		"DTEND:20240115T093000Z",
		ev.ID.Hex() + "@calweb",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized calendar missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "RRULE") {
		t.Error("non-recurring event emitted an RRULE")
	}
}

func TestBuildCalendar_AllDayExclusiveEnd(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ev := model.Event{
		ID:        primitive.NewObjectID(),
		Title:     "Offsite",
		AllDay:    true,
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, loc).UTC(),
		EndTime:   time.Date(2024, 3, 2, 23, 59, 59, 999_000_000, loc).UTC(),
		Recurring: model.RecurNone,
	}

	cal, err := BuildCalendar([]model.Event{ev}, loc)
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	out := cal.Serialize()

	if !strings.Contains(out, "DTSTART;VALUE=DATE:20240301") {
		t.Errorf("missing date-only DTSTART:\n%s", out)
	}
	// Two-day event ending Mar 2 → exclusive DTEND Mar 3.
	if !strings.Contains(out, "DTEND;VALUE=DATE:20240303") {
		t.Errorf("missing exclusive DTEND:\n%s", out)
	}
}

func TestBuildCalendar_RecurrenceTags(t *testing.T) {
	tests := []struct {
		tag  model.Recurrence
		want string
	}{
		{model.RecurDaily, "FREQ=DAILY"},
		{model.RecurWeekly, "FREQ=WEEKLY"},
		{model.RecurMonthly, "FREQ=MONTHLY"},
		{model.RecurYearly, "FREQ=YEARLY"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			ev := model.Event{
				ID:        primitive.NewObjectID(),
				Title:     "Recurring",
				StartTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
				Recurring: tt.tag,
			}

			cal, err := BuildCalendar([]model.Event{ev}, time.UTC)
			if err != nil {
				t.Fatalf("BuildCalendar: %v", err)
			}
			if out := cal.Serialize(); !strings.Contains(out, tt.want) {
				t.Errorf("serialized calendar missing %q:\n%s", tt.want, out)
			}
		})
	}
}
