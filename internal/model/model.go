package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recurrence is the stored recurrence tag. It is persisted verbatim and
// never expanded into occurrences by this service.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

// Valid reports whether r is one of the known recurrence tags.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// ColorPrimary is the default event color (primary blue).
const ColorPrimary = "#3b82f6"

// Palette is the fixed set of event color swatches.
var Palette = []string{
	ColorPrimary, // blue
	"#ef4444",    // red
	"#f97316",    // orange
	"#eab308",    // yellow
	"#22c55e",    // green
	"#14b8a6",    // teal
	"#8b5cf6",    // violet
	"#ec4899",    // pink
}

// ValidColor reports whether c is one of the palette swatches.
func ValidColor(c string) bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Field length limits shared by draft validation and the API layer.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MaxLocationLen    = 200
)

// Event is the persisted calendar event. StartTime/EndTime are absolute UTC
// instants; for all-day events they are the local-midnight and local
// 23:59:59.999 bounds of the event's dates, converted to UTC at save time.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	StartTime   time.Time          `bson:"start_time" json:"startTime"`
	EndTime     time.Time          `bson:"end_time" json:"endTime"`
	AllDay      bool               `bson:"all_day" json:"allDay"`
	Color       string             `bson:"color" json:"color"`
	Recurring   Recurrence         `bson:"recurring" json:"recurring"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`

	// DeletedAt marks a soft-deleted event. Tombstones are invisible to
	// queries and removed permanently by the purge job.
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
