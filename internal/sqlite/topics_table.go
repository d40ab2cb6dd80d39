// This file implements topic operations for the SQLite backend: creation
// with uniqueness and window checks, bulk enable/disable, ordered listing,
// and deletion cascading to notes and problems.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

const topicColumns = "id, timestamp, topic, starts, ends, enabled"

// CreateTopic validates and inserts a topic, returning its ID.
// Returns ErrInvalidTitle, ErrInvalidTimeWindow or ErrDuplicateTitle for
// rejected input.
func (b *Backend) CreateTopic(title string, starts, ends types.TimeOfDay, enabled bool) (int64, error) {
	title = strings.TrimSpace(title)
	if err := types.ValidateTopic(title, starts, ends); err != nil {
		return 0, err
	}

	var id int64
	err := b.write(func() error {
		var dup int64
		err := b.db.QueryRow("SELECT id FROM topics WHERE topic = ?", title).Scan(&dup)
		if err == nil {
			return types.ErrDuplicateTitle
		}
		if err != sql.ErrNoRows {
			return types.Persistence("check topic title", err)
		}

		res, err := b.db.Exec(
			"INSERT INTO topics (timestamp, topic, starts, ends, enabled) VALUES (?, ?, ?, ?, ?)",
			b.timestamp(), title, starts.String(), ends.String(), boolToInt(enabled),
		)
		if err != nil {
			return types.Persistence("insert topic", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return types.Persistence("insert topic", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetTopic retrieves a topic by ID.
func (b *Backend) GetTopic(id int64) (*types.Topic, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}

	var topic *types.Topic
	err := b.read(func() error {
		row := b.db.QueryRow("SELECT "+topicColumns+" FROM topics WHERE id = ?", id)
		t, err := hydrateTopic(row)
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		if err != nil {
			return types.Persistence(fmt.Sprintf("get topic %d", id), err)
		}
		topic = t
		return nil
	})
	return topic, err
}

// DeleteTopic removes a topic together with its notes and problems.
// The schema also declares ON DELETE CASCADE; deleting children explicitly
// inside the same transaction keeps the cascade intact on databases opened
// without foreign key enforcement.
func (b *Backend) DeleteTopic(id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	return b.write(func() error {
		exists, err := topicExists(b.db, id)
		if err != nil {
			return err
		}
		if !exists {
			return types.ErrNotFound
		}

		return b.inTx("delete topic", func(tx *sql.Tx) error {
			if _, err := tx.Exec("DELETE FROM notes WHERE topic_id = ?", id); err != nil {
				return types.Persistence("delete topic notes", err)
			}
			if _, err := tx.Exec("DELETE FROM problems WHERE topic_id = ?", id); err != nil {
				return types.Persistence("delete topic problems", err)
			}
			if _, err := tx.Exec("DELETE FROM topics WHERE id = ?", id); err != nil {
				return types.Persistence("delete topic", err)
			}
			return nil
		})
	})
}

// SetEnabled sets the enabled flag on exactly the given topic IDs in a single
// statement. IDs that do not exist are ignored. Returns the rows changed.
func (b *Backend) SetEnabled(ids []int64, enabled bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, boolToInt(enabled))
	for _, id := range ids {
		args = append(args, id)
	}

	var changed int64
	err := b.write(func() error {
		res, err := b.db.Exec(
			"UPDATE topics SET enabled = ? WHERE id IN ("+placeholders(len(ids))+")", args...)
		if err != nil {
			return types.Persistence("set topics enabled", err)
		}
		changed, err = res.RowsAffected()
		if err != nil {
			return types.Persistence("set topics enabled", err)
		}
		return nil
	})
	return changed, err
}

// ListTopics returns all topics sorted by start time ascending, then ID.
func (b *Backend) ListTopics() ([]types.Topic, error) {
	var topics []types.Topic
	err := b.read(func() error {
		rows, err := b.db.Query("SELECT " + topicColumns + " FROM topics ORDER BY starts ASC, id ASC")
		if err != nil {
			return types.Persistence("list topics", err)
		}
		defer rows.Close()

		for rows.Next() {
			t, err := hydrateTopic(rows)
			if err != nil {
				return types.Persistence("list topics", err)
			}
			topics = append(topics, *t)
		}
		if err := rows.Err(); err != nil {
			return types.Persistence("list topics", err)
		}
		return nil
	})
	return topics, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateTopic decodes a topic row by named column order (topicColumns).
func hydrateTopic(row scanner) (*types.Topic, error) {
	var (
		t       types.Topic
		created sql.NullString
		starts  string
		ends    string
		enabled int
	)
	if err := row.Scan(&t.ID, &created, &t.Title, &starts, &ends, &enabled); err != nil {
		return nil, err
	}

	var err error
	if t.Starts, err = types.ParseTimeOfDay(starts); err != nil {
		return nil, fmt.Errorf("topic %d starts: %w", t.ID, err)
	}
	if t.Ends, err = types.ParseTimeOfDay(ends); err != nil {
		return nil, fmt.Errorf("topic %d ends: %w", t.ID, err)
	}
	t.Created = parseTimestamp(created)
	t.Enabled = enabled != 0
	return &t, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
