package types

import "time"

// Problem is a tracked issue tied to a topic. Solved moves from false to
// true once and never back.
type Problem struct {
	ID        int64     `json:"id"`
	Created   time.Time `json:"created"`
	TopicID   int64     `json:"topic_id"`
	Statement string    `json:"statement"` // Unique, non-empty.
	Solved    bool      `json:"solved"`
}

// Columns returns the textual columns of the problem for search.
func (p Problem) Columns() []string {
	state := "unsolved"
	if p.Solved {
		state = "solved"
	}
	return []string{p.Created.Format(TimestampLayout), p.Statement, state}
}
