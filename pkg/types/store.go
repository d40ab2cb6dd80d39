package types

// Store defines the entity store the tracker runs against. Callers attach
// to a backend, issue typed operations, and detach when done.
//
// Constraint violations are returned as the sentinel errors in this package
// so callers can branch on them with errors.Is. Driver failures come back as
// *PersistenceError.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// CreateTopic inserts a topic and returns its ID.
	CreateTopic(title string, starts, ends TimeOfDay, enabled bool) (int64, error)

	// GetTopic returns the topic with the given ID or ErrNotFound.
	GetTopic(id int64) (*Topic, error)

	// DeleteTopic removes the topic and every note and problem that
	// references it. The cascade is all-or-nothing.
	DeleteTopic(id int64) error

	// SetEnabled updates the enabled flag of exactly the given topics and
	// returns the number of rows changed.
	SetEnabled(ids []int64, enabled bool) (int64, error)

	// ListTopics returns all topics ordered by start time.
	ListTopics() ([]Topic, error)

	// CreateNote inserts a note against an existing topic.
	CreateNote(topicID int64, body string) (int64, error)

	// ListNotes returns notes for a topic, newest first. A zero topicID
	// lists every note.
	ListNotes(topicID int64) ([]Note, error)

	// DeleteNote removes a single note.
	DeleteNote(id int64) error

	// CreateProblem inserts an unsolved problem against an existing topic.
	CreateProblem(topicID int64, statement string) (int64, error)

	// MarkSolved flips a problem to solved. It reports whether the state
	// changed; an already solved or missing problem is not an error.
	MarkSolved(id int64) (bool, error)

	// ListUnsolvedProblems returns problems with solved == false.
	ListUnsolvedProblems() ([]Problem, error)

	// ListProblems returns every problem, oldest first.
	ListProblems() ([]Problem, error)

	// DeleteProblem removes a single problem.
	DeleteProblem(id int64) error

	// Counts returns the number of notes and problems referencing a topic.
	Counts(topicID int64) (notes, problems int, err error)
}
