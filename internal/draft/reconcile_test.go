package draft

import (
	"errors"
	"testing"
	"time"
)

func TestSetStartThenEnd_DurationIdentity(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name      string
		start     string
		end       string
		wantH     int
		wantM     int
	}{
		{"half hour", "2024-01-15T09:00:00", "2024-01-15T09:30:00", 0, 30},
		{"ninety minutes", "2024-01-15T09:00:00", "2024-01-15T10:30:00", 1, 30},
		{"multi day", "2024-01-15T09:00:00", "2024-01-17T10:15:00", 49, 15},
		{"inverted clamps to zero", "2024-01-15T09:00:00", "2024-01-15T08:00:00", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(mustTime(t, loc, "2024-01-01T00:00:00"), loc)
			s := mustTime(t, loc, tt.start)
			e := mustTime(t, loc, tt.end)

			d.SetStartTime(s)
			d.SetEndTime(e)

			if d.DurationHours != tt.wantH || d.DurationMinutes != tt.wantM {
				t.Errorf("duration = %d:%02d, want %d:%02d",
					d.DurationHours, d.DurationMinutes, tt.wantH, tt.wantM)
			}

			// Identity from the product rules: total minutes match the
			// floored gap whenever end > start.
			if e.After(s) {
				gotMins := d.DurationHours*60 + d.DurationMinutes
				wantMins := int(e.Sub(s) / time.Minute)
				if gotMins != wantMins {
					t.Errorf("total minutes = %d, want %d", gotMins, wantMins)
				}
			}
		})
	}
}

func TestSetStartTime_DoesNotMoveEnd(t *testing.T) {
	loc := time.UTC
	d := New(mustTime(t, loc, "2024-01-15T10:00:00"), loc)
	end := d.End

	d.SetStartTime(mustTime(t, loc, "2024-01-15T08:00:00"))

	if !d.End.Equal(end) {
		t.Errorf("End moved to %v, want %v", d.End, end)
	}
	if d.DurationHours != 3 || d.DurationMinutes != 0 {
		t.Errorf("duration = %d:%02d, want 3:00", d.DurationHours, d.DurationMinutes)
	}
}

func TestSetDuration(t *testing.T) {
	loc := time.UTC
	d := New(mustTime(t, loc, "2024-01-15T10:00:00"), loc)

	if err := d.SetDuration(2, 30); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}

	want := mustTime(t, loc, "2024-01-15T12:30:00")
	if !d.End.Equal(want) {
		t.Errorf("End = %v, want %v", d.End, want)
	}
	if d.DurationHours != 2 || d.DurationMinutes != 30 {
		t.Errorf("duration = %d:%02d, want 2:30", d.DurationHours, d.DurationMinutes)
	}
}

func TestSetDuration_Bounds(t *testing.T) {
	d := New(time.Now(), time.UTC)

	if err := d.SetDuration(24, 0); !errors.Is(err, ErrHoursRange) {
		t.Errorf("SetDuration(24,0) = %v, want ErrHoursRange", err)
	}
	if err := d.SetDuration(-1, 0); !errors.Is(err, ErrHoursRange) {
		t.Errorf("SetDuration(-1,0) = %v, want ErrHoursRange", err)
	}
	if err := d.SetDuration(1, 60); !errors.Is(err, ErrMinutesRange) {
		t.Errorf("SetDuration(1,60) = %v, want ErrMinutesRange", err)
	}
}

func TestSetDuration_FeedbackGuard(t *testing.T) {
	loc := time.UTC
	d := New(mustTime(t, loc, "2024-01-15T10:00:00"), loc)

	// End is already start + 1h; setting the same duration must not move it.
	end := d.End
	if err := d.SetDuration(1, 0); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	if !d.End.Equal(end) {
		t.Errorf("End rewritten to %v despite unchanged duration", d.End)
	}

	// A real change still lands.
	if err := d.SetDuration(1, 45); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	if want := mustTime(t, loc, "2024-01-15T11:45:00"); !d.End.Equal(want) {
		t.Errorf("End = %v, want %v", d.End, want)
	}
}

func TestApplyQuickDate_PreservesDuration(t *testing.T) {
	loc := time.UTC
	now := mustTime(t, loc, "2024-01-10T17:42:00")

	tests := []struct {
		name string
		days int
	}{
		{"today", 0},
		{"tomorrow", 1},
		{"next week", 7},
		{"yesterday", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(mustTime(t, loc, "2024-01-15T10:30:45"), loc)
			d.SetEndTime(mustTime(t, loc, "2024-01-15T12:05:45"))
			gap := d.End.Sub(d.Start)

			d.ApplyQuickDate(tt.days, now)

			wantDate := mustTime(t, loc, "2024-01-10T00:00:00").AddDate(0, 0, tt.days)
			if y, m, day := d.Start.Date(); y != wantDate.Year() || m != wantDate.Month() || day != wantDate.Day() {
				t.Errorf("Start date = %v, want %v", d.Start, wantDate)
			}
			// Time-of-day on start is preserved, including seconds.
			if d.Start.Hour() != 10 || d.Start.Minute() != 30 || d.Start.Second() != 45 {
				t.Errorf("Start time-of-day = %v, want 10:30:45", d.Start)
			}
			// Duration preserved exactly.
			if got := d.End.Sub(d.Start); got != gap {
				t.Errorf("duration = %v, want %v", got, gap)
			}
		})
	}
}

func TestApplyQuickDate_AllDay(t *testing.T) {
	loc := time.UTC
	now := mustTime(t, loc, "2024-01-10T17:42:00")

	d := New(mustTime(t, loc, "2024-01-15T10:30:00"), loc)
	d.SetAllDay(true)
	d.ApplyQuickDate(2, now)

	want := mustTime(t, loc, "2024-01-12T00:00:00")
	if !d.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", d.Start, want)
	}
}

func TestApplyTimePreset(t *testing.T) {
	loc := time.UTC

	t.Run("start preset", func(t *testing.T) {
		d := New(mustTime(t, loc, "2024-01-15T10:17:33"), loc)
		d.SetEndTime(mustTime(t, loc, "2024-01-15T14:00:00"))

		if err := d.ApplyTimePreset(12, 30, true); err != nil {
			t.Fatalf("ApplyTimePreset: %v", err)
		}
		want := mustTime(t, loc, "2024-01-15T12:30:00")
		if !d.Start.Equal(want) {
			t.Errorf("Start = %v, want %v (seconds zeroed)", d.Start, want)
		}
		if !d.End.Equal(mustTime(t, loc, "2024-01-15T14:00:00")) {
			t.Errorf("End moved to %v", d.End)
		}
	})

	t.Run("start at or after end forces end to start+1h", func(t *testing.T) {
		d := New(mustTime(t, loc, "2024-01-15T08:00:00"), loc)
		d.SetEndTime(mustTime(t, loc, "2024-01-15T08:30:00"))

		if err := d.ApplyTimePreset(9, 0, true); err != nil {
			t.Fatalf("ApplyTimePreset: %v", err)
		}
		want := mustTime(t, loc, "2024-01-15T10:00:00")
		if !d.End.Equal(want) {
			t.Errorf("End = %v, want %v", d.End, want)
		}
	})

	t.Run("end at or before start substitutes fallback", func(t *testing.T) {
		d := New(mustTime(t, loc, "2024-01-15T13:00:00"), loc)

		if err := d.ApplyTimePreset(9, 0, false); err != nil {
			t.Fatalf("ApplyTimePreset: %v", err)
		}
		want := mustTime(t, loc, "2024-01-15T14:00:00")
		if !d.End.Equal(want) {
			t.Errorf("End = %v, want start+1h %v", d.End, want)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		d := New(time.Now(), loc)
		if err := d.ApplyTimePreset(24, 0, true); !errors.Is(err, ErrTimeOfDay) {
			t.Errorf("ApplyTimePreset(24,0) = %v, want ErrTimeOfDay", err)
		}
	})
}

func TestApplyQuickDuration(t *testing.T) {
	loc := time.UTC
	d := New(mustTime(t, loc, "2024-01-15T10:00:00"), loc)

	if err := d.ApplyQuickDuration(2, 0); err != nil {
		t.Fatalf("ApplyQuickDuration: %v", err)
	}
	want := mustTime(t, loc, "2024-01-15T12:00:00")
	if !d.End.Equal(want) {
		t.Errorf("End = %v, want %v", d.End, want)
	}

	// Re-deriving from the freshly written end yields the same duration, so
	// a second application is a no-op on the end time.
	end := d.End
	if err := d.ApplyQuickDuration(2, 0); err != nil {
		t.Fatalf("ApplyQuickDuration: %v", err)
	}
	if !d.End.Equal(end) {
		t.Errorf("End changed to %v on no-op reapply", d.End)
	}
}
