package draft

import (
	"errors"
	"time"
)

// Reconciliation errors.
var (
	ErrHoursRange   = errors.New("duration hours must be between 0 and 23")
	ErrMinutesRange = errors.New("duration minutes must be between 0 and 59")
	ErrTimeOfDay    = errors.New("time of day out of range")
)

// endWriteThreshold guards SetDuration against feedback loops: the
// recomputed end time is only written when it moves by more than this.
const endWriteThreshold = time.Minute

// SetStartTime moves the start endpoint and re-derives the duration fields.
// The end endpoint is never moved.
func (d *Draft) SetStartTime(start time.Time) {
	d.Start = start.In(d.location())
	d.syncDuration()
}

// SetEndTime moves the end endpoint and re-derives the duration fields.
// The start endpoint is never moved.
func (d *Draft) SetEndTime(end time.Time) {
	d.End = end.In(d.location())
	d.syncDuration()
}

// SetDuration treats duration as authoritative and recomputes
// end = start + hours:minutes. The write is suppressed when the recomputed
// end is within endWriteThreshold of the current one, so re-deriving the
// duration from a freshly written end cannot rewrite it again.
func (d *Draft) SetDuration(hours, minutes int) error {
	if hours < 0 || hours > 23 {
		return ErrHoursRange
	}
	if minutes < 0 || minutes > 59 {
		return ErrMinutesRange
	}

	newEnd := d.Start.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
	if d.AllDay {
		newEnd = d.dateOnly(newEnd)
	}

	diff := newEnd.Sub(d.End)
	if diff < 0 {
		diff = -diff
	}
	if diff > endWriteThreshold {
		d.End = newEnd
	}

	d.DurationHours = hours
	d.DurationMinutes = minutes
	return nil
}

// ApplyQuickDate moves the event to today + daysFromToday, where today is
// local midnight of now. The start keeps its time-of-day (unless all-day),
// and the end shifts by the same absolute delta so the duration is preserved
// exactly.
func (d *Draft) ApplyQuickDate(daysFromToday int, now time.Time) {
	today := d.dateOnly(now.In(d.location()))
	target := today.AddDate(0, 0, daysFromToday)

	newStart := target
	if !d.AllDay {
		newStart = d.withTime(target, d.Start.Hour(), d.Start.Minute())
		// Carry seconds too so the shift is a pure date move.
		newStart = newStart.Add(time.Duration(d.Start.Second())*time.Second +
			time.Duration(d.Start.Nanosecond())*time.Nanosecond)
	}

	delta := newStart.Sub(d.Start)
	d.Start = newStart
	d.End = d.End.Add(delta)
}

// ApplyTimePreset sets hour:minute (seconds zeroed) on the chosen endpoint,
// leaving the date portion untouched. If the preset would invert the
// ordering, the end is forced to start + 1 hour instead.
func (d *Draft) ApplyTimePreset(hour, minute int, isStart bool) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrTimeOfDay
	}

	if isStart {
		d.Start = d.withTime(d.Start, hour, minute)
		if !d.Start.Before(d.End) {
			d.End = d.Start.Add(time.Hour)
		}
	} else {
		newEnd := d.withTime(d.End, hour, minute)
		if !newEnd.After(d.Start) {
			// Reject the preset; substitute the fallback.
			newEnd = d.Start.Add(time.Hour)
		}
		d.End = newEnd
	}

	d.syncDuration()
	return nil
}

// ApplyQuickDuration is the quick-pick form of SetDuration.
func (d *Draft) ApplyQuickDuration(hours, minutes int) error {
	return d.SetDuration(hours, minutes)
}
