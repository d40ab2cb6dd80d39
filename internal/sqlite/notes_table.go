// This file implements note operations for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

const noteColumns = "id, timestamp, topic_id, note"

// CreateNote inserts a note for an existing topic.
// Returns ErrInvalidBody for an empty body and ErrForeignKeyViolation when
// the topic does not exist.
func (b *Backend) CreateNote(topicID int64, body string) (int64, error) {
	if strings.TrimSpace(body) == "" {
		return 0, types.ErrInvalidBody
	}

	var id int64
	err := b.write(func() error {
		exists, err := topicExists(b.db, topicID)
		if err != nil {
			return err
		}
		if !exists {
			return types.ErrForeignKeyViolation
		}

		res, err := b.db.Exec(
			"INSERT INTO notes (timestamp, topic_id, note) VALUES (?, ?, ?)",
			b.timestamp(), topicID, body,
		)
		if err != nil {
			return types.Persistence("insert note", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return types.Persistence("insert note", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListNotes returns notes newest first. A zero topicID lists every note.
func (b *Backend) ListNotes(topicID int64) ([]types.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes"
	var args []any
	if topicID != 0 {
		query += " WHERE topic_id = ?"
		args = append(args, topicID)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	var notes []types.Note
	err := b.read(func() error {
		rows, err := b.db.Query(query, args...)
		if err != nil {
			return types.Persistence("list notes", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				n       types.Note
				created sql.NullString
			)
			if err := rows.Scan(&n.ID, &created, &n.TopicID, &n.Body); err != nil {
				return types.Persistence("list notes", err)
			}
			n.Created = parseTimestamp(created)
			notes = append(notes, n)
		}
		if err := rows.Err(); err != nil {
			return types.Persistence("list notes", err)
		}
		return nil
	})
	return notes, err
}

// DeleteNote removes a note by ID. Returns ErrNotFound if absent.
func (b *Backend) DeleteNote(id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	return b.write(func() error {
		res, err := b.db.Exec("DELETE FROM notes WHERE id = ?", id)
		if err != nil {
			return types.Persistence(fmt.Sprintf("delete note %d", id), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return types.Persistence(fmt.Sprintf("delete note %d", id), err)
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

// Counts returns how many notes and problems reference a topic.
func (b *Backend) Counts(topicID int64) (notes, problems int, err error) {
	err = b.read(func() error {
		if err := b.db.QueryRow(
			"SELECT COUNT(*) FROM notes WHERE topic_id = ?", topicID).Scan(&notes); err != nil {
			return types.Persistence("count notes", err)
		}
		if err := b.db.QueryRow(
			"SELECT COUNT(*) FROM problems WHERE topic_id = ?", topicID).Scan(&problems); err != nil {
			return types.Persistence("count problems", err)
		}
		return nil
	})
	return notes, problems, err
}
