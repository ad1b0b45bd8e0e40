package draft

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"calweb/internal/model"
)

// FieldErrors maps a field name to its first validation failure. Multiple
// fields may report simultaneously; per field, the first error found wins.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(fe[f])
	}
	return b.String()
}

// set records the first error for a field; later errors for the same field
// are dropped.
func (fe FieldErrors) set(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Validate checks the draft and, on success, returns the normalized
// storage-ready event. Validation failures are purely local; they never
// reach the persistence collaborator.
//
// Normalization: all-day events are clamped to local 00:00:00.000 and
// 23:59:59.999 of their respective dates, then both endpoints are converted
// to absolute UTC instants.
func (d *Draft) Validate() (*model.Event, FieldErrors) {
	errs := FieldErrors{}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		errs.set("title", "title is required")
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLen {
		errs.set("title", "title must be 200 characters or fewer")
	}
	if utf8.RuneCountInString(d.Description) > model.MaxDescriptionLen {
		errs.set("description", "description must be 1000 characters or fewer")
	}
	if utf8.RuneCountInString(d.Location) > model.MaxLocationLen {
		errs.set("location", "location must be 200 characters or fewer")
	}

	if d.Start.IsZero() {
		errs.set("startTime", "start time is required")
	}
	if d.End.IsZero() {
		errs.set("endTime", "end time is required")
	}

	// The ordering check runs on the normalized bounds so that a same-date
	// all-day event (start midnight, end 23:59:59.999) is accepted.
	start, end := d.Start, d.End
	if d.AllDay {
		start = d.dateOnly(start)
		y, m, day := end.Date()
		end = time.Date(y, m, day, 23, 59, 59, 999_000_000, d.location())
	}
	if !d.Start.IsZero() && !d.End.IsZero() && !end.After(start) {
		errs.set("endTime", "end time must be after start time")
	}

	color := d.Color
	if color == "" {
		color = model.ColorPrimary
	}
	if !model.ValidColor(color) {
		errs.set("color", "color must be one of the palette swatches")
	}

	recurring := d.Recurring
	if recurring == "" {
		recurring = model.RecurNone
	}
	if !recurring.Valid() {
		errs.set("recurring", "unknown recurrence")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &model.Event{
		Title:       title,
		Description: d.Description,
		Location:    d.Location,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		AllDay:      d.AllDay,
		Color:       color,
		Recurring:   recurring,
	}, nil
}
