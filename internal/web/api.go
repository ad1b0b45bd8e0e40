package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"calweb/internal/draft"
	"calweb/internal/ics"
	appLog "calweb/internal/log"
	"calweb/internal/model"
	"calweb/internal/store"
)

// Default listing window when the client provides no range.
const (
	defaultListBackfillDays = 30
	defaultListHorizonDays  = 60
)

// eventRequest is the JSON payload for create and update.
//
// StartTime/EndTime accept an RFC3339 instant, a local wall-clock form
// (2006-01-02T15:04 or with seconds), or a bare date for all-day events.
type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	AllDay      bool   `json:"allDay"`
	Color       string `json:"color"`
	Recurring   string `json:"recurring"`
}

// eventsResponse is the JSON response shape for GET /api/events.
type eventsResponse struct {
	Events    []model.Event `json:"events"`
	From      time.Time     `json:"from"`
	To        time.Time     `json:"to"`
	Timezone  string        `json:"timezone"`
	WeekStart string        `json:"week_start"`
}

// fieldErrorsResponse is the 422 body for validation failures.
type fieldErrorsResponse struct {
	Errors draft.FieldErrors `json:"errors"`
}

// parseListRange resolves the [from, to) window from the query parameters,
// falling back to the default backfill/horizon window around now. A non-empty
// returned message means the request is bad.
func (s *Server) parseListRange(r *http.Request) (time.Time, time.Time, string) {
	now := time.Now().In(s.loc)
	from := now.AddDate(0, 0, -defaultListBackfillDays)
	to := now.AddDate(0, 0, defaultListHorizonDays)

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, "invalid 'from' (expected RFC3339)"
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, "invalid 'to' (expected RFC3339)"
		}
		to = t
	}
	if !to.After(from) {
		return from, to, "'to' must be after 'from'"
	}
	return from, to, ""
}

// handleListEvents returns events overlapping [from, to).
//
// GET /api/events?from=2024-01-01T00:00:00Z&to=2024-02-01T00:00:00Z
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, msg := s.parseListRange(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	events, err := s.store.List(ctx, from, to)
	if err != nil {
		appLog.Error("list events failed", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:    events,
		From:      from,
		To:        to,
		Timezone:  s.loc.String(),
		WeekStart: s.cfg.WeekStart,
	})
}

// handleCreateEvent validates and persists a new event. Validation runs
// through the draft core; failures never reach the store.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := draft.NewSession(draft.New(time.Now(), s.loc))
	normalized, ferrs := s.reconcile(sess.Draft, &req)
	if ferrs != nil {
		appLog.Debug("create rejected by validation", "session", sess.ID.String(), "fields", len(ferrs))
		writeJSON(w, http.StatusUnprocessableEntity, fieldErrorsResponse{Errors: ferrs})
		return
	}

	created, err := s.store.Create(ctx, normalized)
	if err != nil {
		appLog.Error("create event failed", err, "session", sess.ID.String())
		writeError(w, http.StatusInternalServerError, "failed to save event")
		return
	}

	appLog.Info("event created", "id", created.ID.Hex(), "session", sess.ID.String())
	writeJSON(w, http.StatusCreated, created)
}

// handleGetEvent returns a single event by ID.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		appLog.Error("get event failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleUpdateEvent loads the existing event into an edit-mode draft,
// applies the request on top, validates, and persists.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		appLog.Error("load event for update failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := draft.NewSession(draft.FromEvent(existing, s.loc))
	normalized, ferrs := s.reconcile(sess.Draft, &req)
	if ferrs != nil {
		appLog.Debug("update rejected by validation", "id", id, "session", sess.ID.String(), "fields", len(ferrs))
		writeJSON(w, http.StatusUnprocessableEntity, fieldErrorsResponse{Errors: ferrs})
		return
	}

	updated, err := s.store.Update(ctx, id, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		appLog.Error("update event failed", err, "id", id, "session", sess.ID.String())
		writeError(w, http.StatusInternalServerError, "failed to save event")
		return
	}

	appLog.Info("event updated", "id", id, "session", sess.ID.String())
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteEvent soft-deletes an event. A store failure surfaces to the
// caller so it can keep its confirmation state and retry.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		appLog.Error("delete event failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	appLog.Info("event deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleExportICS serves the listing window as an iCalendar feed. It accepts
// the same from/to query parameters as the event listing.
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, msg := s.parseListRange(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	events, err := s.store.List(ctx, from, to)
	if err != nil {
		appLog.Error("export: list events failed", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	cal, err := ics.BuildCalendar(events, s.loc)
	if err != nil {
		appLog.Error("export: build calendar failed", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calweb.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		appLog.Error("export: write response failed", err)
	}
}

// reconcile applies an API payload onto a draft through the reconciler
// operations and validates the result.
func (s *Server) reconcile(d *draft.Draft, req *eventRequest) (*model.Event, draft.FieldErrors) {
	d.Title = req.Title
	d.Description = req.Description
	d.Location = req.Location
	d.Color = req.Color
	d.Recurring = model.Recurrence(req.Recurring)

	ferrs := draft.FieldErrors{}

	if req.StartTime != "" {
		t, err := parseEventTime(req.StartTime, s.loc)
		if err != nil {
			ferrs["startTime"] = "invalid start time"
		} else {
			d.SetStartTime(t)
		}
	}
	if req.EndTime != "" {
		t, err := parseEventTime(req.EndTime, s.loc)
		if err != nil {
			ferrs["endTime"] = "invalid end time"
		} else {
			d.SetEndTime(t)
		}
	}
	// Toggle only on a real mode change so a timed event that genuinely
	// starts at midnight is not reformatted.
	if req.AllDay != d.AllDay {
		d.SetAllDay(req.AllDay)
	}

	// Validation still runs when a timestamp failed to parse, so the
	// response reports every bad field at once. The parse error wins
	// over any validation message for the same field.
	ev, verrs := d.Validate()
	for field, msg := range verrs {
		if _, ok := ferrs[field]; !ok {
			ferrs[field] = msg
		}
	}
	if len(ferrs) > 0 {
		return nil, ferrs
	}
	return ev, nil
}

// parseEventTime accepts the timestamp forms the UI sends.
func parseEventTime(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}
