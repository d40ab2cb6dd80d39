package types

import (
	"strings"
	"time"
)

// TimestampLayout is the storage format for creation timestamps, in the
// process's local timezone.
const TimestampLayout = "2006-01-02 15:04:05"

// Topic is a named activity that recurs daily within [Starts, Ends].
type Topic struct {
	ID      int64     `json:"id"`      // Store-generated, stable.
	Created time.Time `json:"created"` // Timestamp of creation.
	Title   string    `json:"title"`   // Unique, non-empty.
	Starts  TimeOfDay `json:"starts"`  // Window start (inclusive).
	Ends    TimeOfDay `json:"ends"`    // Window end (inclusive).
	Enabled bool      `json:"enabled"` // Reminders fire only for enabled topics.
}

// WrapsMidnight reports whether the window crosses midnight, e.g. 22:00-02:00.
func (t Topic) WrapsMidnight() bool {
	return t.Starts > t.Ends
}

// ValidateTopic checks the title and window of a topic before insertion.
func ValidateTopic(title string, starts, ends TimeOfDay) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	if !starts.Valid() || !ends.Valid() {
		return ErrInvalidTimeOfDay
	}
	if starts == ends {
		return ErrInvalidTimeWindow
	}
	return nil
}

// Columns returns the textual columns of the topic for search.
func (t Topic) Columns() []string {
	state := "disabled"
	if t.Enabled {
		state = "enabled"
	}
	return []string{t.Title, t.Starts.String(), t.Ends.String(), state}
}
