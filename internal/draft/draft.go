// Package draft implements the event editing core: a mutable draft of a
// single calendar event plus the reconciliation rules that keep start time,
// end time, duration, and the all-day flag mutually consistent while the
// user edits any one of them.
//
// The draft holds start/end as naive wall-clock values in a session
// timezone; conversion to absolute UTC instants happens only in Validate.
package draft

import (
	"time"

	"github.com/google/uuid"

	"calweb/internal/model"
)

// Default times injected when a draft switches from all-day to timed mode
// and an endpoint has no time-of-day component.
const (
	defaultStartHour = 9
	defaultEndHour   = 10
)

// Draft is the in-memory representation of a single event being created or
// edited. It lives only for the duration of one editing session.
type Draft struct {
	Title       string
	Description string
	Location    string

	// Start / End are wall-clock values in the session location. When
	// AllDay is set they are held at local midnight of their dates.
	Start time.Time
	End   time.Time

	AllDay    bool
	Color     string
	Recurring model.Recurrence

	// DurationHours / DurationMinutes are a derived view of End - Start.
	// They become authoritative only inside SetDuration, which recomputes
	// End from them. DurationHours can exceed 23 for multi-day gaps.
	DurationHours   int
	DurationMinutes int

	loc *time.Location
}

// New returns a draft with create-mode defaults: empty title, start = now,
// end = now + 1 hour, primary color, no recurrence.
func New(now time.Time, loc *time.Location) *Draft {
	if loc == nil {
		loc = time.Local
	}
	start := now.In(loc)
	d := &Draft{
		Start:     start,
		End:       start.Add(time.Hour),
		Color:     model.ColorPrimary,
		Recurring: model.RecurNone,
		loc:       loc,
	}
	d.syncDuration()
	return d
}

// FromEvent returns an edit-mode draft populated from a persisted event.
// Absolute UTC instants are converted into the session location; all-day
// events are reduced to their local dates.
func FromEvent(ev *model.Event, loc *time.Location) *Draft {
	if loc == nil {
		loc = time.Local
	}
	d := &Draft{
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       ev.StartTime.In(loc),
		End:         ev.EndTime.In(loc),
		AllDay:      ev.AllDay,
		Color:       ev.Color,
		Recurring:   ev.Recurring,
		loc:         loc,
	}
	if d.AllDay {
		d.Start = d.dateOnly(d.Start)
		d.End = d.dateOnly(d.End)
	}
	d.syncDuration()
	return d
}

// SetAllDay toggles between date-only and date+time representation without
// altering the date portion of either endpoint.
//
//   - Switching to all-day strips the time-of-day component.
//   - Switching to timed injects 09:00 (start) and 10:00 (end) only when an
//     endpoint lacks a time-of-day component; otherwise it is left as-is.
func (d *Draft) SetAllDay(allDay bool) {
	if allDay {
		d.Start = d.dateOnly(d.Start)
		d.End = d.dateOnly(d.End)
	} else {
		if lacksTimeOfDay(d.Start) {
			d.Start = d.withTime(d.Start, defaultStartHour, 0)
		}
		if lacksTimeOfDay(d.End) {
			d.End = d.withTime(d.End, defaultEndHour, 0)
		}
	}
	d.AllDay = allDay
	d.syncDuration()
}

// location returns the session timezone of this draft.
func (d *Draft) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}

// dateOnly truncates t to local midnight of its date.
func (d *Draft) dateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.location())
}

// withTime replaces the time-of-day of t, zeroing seconds.
func (d *Draft) withTime(t time.Time, hour, minute int) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, hour, minute, 0, 0, d.location())
}

// lacksTimeOfDay reports whether t sits exactly at midnight, which is how a
// date-only value is represented while editing.
func lacksTimeOfDay(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// syncDuration re-derives the duration fields from the End - Start gap,
// floored at zero. Transiently inverted ranges are allowed while editing;
// Validate rejects them at submission.
func (d *Draft) syncDuration() {
	gap := d.End.Sub(d.Start)
	if gap < 0 {
		gap = 0
	}
	mins := int(gap / time.Minute)
	d.DurationHours = mins / 60
	d.DurationMinutes = mins % 60
}

// Session is explicit session-scoped editing state: one draft, one owner,
// discarded on cancel, close, or successful submit/delete. The ID exists for
// request correlation in logs.
type Session struct {
	ID    uuid.UUID
	Draft *Draft
}

// NewSession wraps a draft in a new editing session.
func NewSession(d *Draft) *Session {
	return &Session{ID: uuid.New(), Draft: d}
}
