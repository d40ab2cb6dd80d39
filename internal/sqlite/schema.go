package sqlite

// Schema DDL for all tables. Statements are idempotent so attaching to an
// existing database keeps its rows.
const (
	createTopics = `CREATE TABLE IF NOT EXISTS topics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT,
    topic TEXT NOT NULL UNIQUE,
    starts TEXT NOT NULL,
    ends TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT,
    topic_id INTEGER NOT NULL,
    note TEXT NOT NULL,
    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
);`

	createProblems = `CREATE TABLE IF NOT EXISTS problems (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT,
    problem TEXT NOT NULL UNIQUE,
    topic_id INTEGER NOT NULL,
    solved INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxTopicsStarts   = `CREATE INDEX IF NOT EXISTS idx_topics_starts ON topics(starts);`
	idxNotesTopic     = `CREATE INDEX IF NOT EXISTS idx_notes_topic ON notes(topic_id);`
	idxProblemsTopic  = `CREATE INDEX IF NOT EXISTS idx_problems_topic ON problems(topic_id);`
	idxProblemsSolved = `CREATE INDEX IF NOT EXISTS idx_problems_solved ON problems(solved);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTopics,
	createNotes,
	createProblems,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTopicsStarts,
	idxNotesTopic,
	idxProblemsTopic,
	idxProblemsSolved,
}
