// Package ics serializes stored events into an iCalendar feed for the
// export endpoint. The recurrence tag is rendered as an RRULE property
// verbatim; no occurrence expansion happens here or anywhere else.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"calweb/internal/model"
)

const prodID = "-//calweb//calendar export//EN"

// BuildCalendar assembles a VCALENDAR from the given events. Timed events
// are written as UTC instants; all-day events use date-only DTSTART/DTEND
// with the exclusive end convention.
func BuildCalendar(events []model.Event, loc *time.Location) (*ical.Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for i := range events {
		ev := &events[i]

		ve := cal.AddEvent(uidFor(ev))
		ve.SetDtStampTime(ev.UpdatedAt.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}

		if ev.AllDay {
			start := ev.StartTime.In(loc)
			// Stored all-day end is local 23:59:59.999; ICS wants the
			// exclusive next date.
			end := ev.EndTime.In(loc).AddDate(0, 0, 1)
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(end)
		} else {
			ve.SetStartAt(ev.StartTime.UTC())
			ve.SetEndAt(ev.EndTime.UTC())
		}

		if ev.Recurring != "" && ev.Recurring != model.RecurNone {
			rule, err := recurrenceRule(ev.Recurring)
			if err != nil {
				return nil, err
			}
			ve.AddRrule(rule)
		}
	}

	return cal, nil
}

// uidFor derives a stable per-event UID for the feed.
func uidFor(ev *model.Event) string {
	return ev.ID.Hex() + "@calweb"
}

// recurrenceRule renders the stored tag as an RRULE value.
func recurrenceRule(r model.Recurrence) (string, error) {
	var freq rrule.Frequency
	switch r {
	case model.RecurDaily:
		freq = rrule.DAILY
	case model.RecurWeekly:
		freq = rrule.WEEKLY
	case model.RecurMonthly:
		freq = rrule.MONTHLY
	case model.RecurYearly:
		freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("no RRULE mapping for recurrence %q", r)
	}

	rule, err := rrule.NewRRule(rrule.ROption{Freq: freq})
	if err != nil {
		return "", fmt.Errorf("build RRULE for %q: %w", r, err)
	}
	return rule.String(), nil
}
