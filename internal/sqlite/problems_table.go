// This file implements problem operations for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

const problemColumns = "id, timestamp, topic_id, problem, solved"

// CreateProblem inserts an unsolved problem for an existing topic.
// Returns ErrInvalidStatement, ErrDuplicateStatement or
// ErrForeignKeyViolation for rejected input.
func (b *Backend) CreateProblem(topicID int64, statement string) (int64, error) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return 0, types.ErrInvalidStatement
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

		var dup int64
		err = b.db.QueryRow("SELECT id FROM problems WHERE problem = ?", statement).Scan(&dup)
		if err == nil {
			return types.ErrDuplicateStatement
		}
		if err != sql.ErrNoRows {
			return types.Persistence("check problem statement", err)
		}

		res, err := b.db.Exec(
			"INSERT INTO problems (timestamp, problem, topic_id, solved) VALUES (?, ?, ?, 0)",
			b.timestamp(), statement, topicID,
		)
		if err != nil {
			return types.Persistence("insert problem", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return types.Persistence("insert problem", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// MarkSolved flips an unsolved problem to solved. It returns true only when
// a row changed; solving twice or solving a missing ID returns false.
func (b *Backend) MarkSolved(id int64) (bool, error) {
	var changed bool
	err := b.write(func() error {
		res, err := b.db.Exec("UPDATE problems SET solved = 1 WHERE id = ? AND solved = 0", id)
		if err != nil {
			return types.Persistence(fmt.Sprintf("solve problem %d", id), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return types.Persistence(fmt.Sprintf("solve problem %d", id), err)
		}
		changed = n > 0
		return nil
	})
	return changed, err
}

// ListUnsolvedProblems returns problems still open, oldest first.
func (b *Backend) ListUnsolvedProblems() ([]types.Problem, error) {
	return b.fetchProblems("WHERE solved = 0")
}

// ListProblems returns every problem, oldest first.
func (b *Backend) ListProblems() ([]types.Problem, error) {
	return b.fetchProblems("")
}

// DeleteProblem removes a problem by ID. Returns ErrNotFound if absent.
func (b *Backend) DeleteProblem(id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	return b.write(func() error {
		res, err := b.db.Exec("DELETE FROM problems WHERE id = ?", id)
		if err != nil {
			return types.Persistence(fmt.Sprintf("delete problem %d", id), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return types.Persistence(fmt.Sprintf("delete problem %d", id), err)
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

func (b *Backend) fetchProblems(where string) ([]types.Problem, error) {
	query := "SELECT " + problemColumns + " FROM problems"
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY timestamp ASC, id ASC"

	var problems []types.Problem
	err := b.read(func() error {
		rows, err := b.db.Query(query)
		if err != nil {
			return types.Persistence("list problems", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				p       types.Problem
				created sql.NullString
				solved  int
			)
			if err := rows.Scan(&p.ID, &created, &p.TopicID, &p.Statement, &solved); err != nil {
				return types.Persistence("list problems", err)
			}
			p.Created = parseTimestamp(created)
			p.Solved = solved != 0
			problems = append(problems, p)
		}
		if err := rows.Err(); err != nil {
			return types.Persistence("list problems", err)
		}
		return nil
	})
	return problems, err
}
