package types

import "time"

// Note is a freeform log entry against a topic. Notes are never edited in
// place; they are deleted individually or with their topic.
type Note struct {
	ID      int64     `json:"id"`
	Created time.Time `json:"created"`
	TopicID int64     `json:"topic_id"`
	Body    string    `json:"body"`
}

// Columns returns the textual columns of the note for search.
func (n Note) Columns() []string {
	return []string{n.Created.Format(TimestampLayout), n.Body}
}
