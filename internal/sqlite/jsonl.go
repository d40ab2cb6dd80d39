// This file exports the tables as JSONL snapshots written atomically.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// JSONL file names written by Export.
const (
	TopicsJSONL   = "topics.jsonl"
	NotesJSONL    = "notes.jsonl"
	ProblemsJSONL = "problems.jsonl"
)

// ExportStats reports how many rows Export wrote per table.
type ExportStats struct {
	Topics   int `json:"topics"`
	Notes    int `json:"notes"`
	Problems int `json:"problems"`
}

// Export writes topics.jsonl, notes.jsonl and problems.jsonl into dir, one
// JSON object per line. Each file is replaced atomically.
func (b *Backend) Export(dir string) (ExportStats, error) {
	var stats ExportStats

	topics, err := b.ListTopics()
	if err != nil {
		return stats, err
	}
	notes, err := b.ListNotes(0)
	if err != nil {
		return stats, err
	}
	problems, err := b.ListProblems()
	if err != nil {
		return stats, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, types.Persistence("create export dir", err)
	}
	if err := writeJSONL(filepath.Join(dir, TopicsJSONL), topics); err != nil {
		return stats, types.Persistence("export topics", err)
	}
	if err := writeJSONL(filepath.Join(dir, NotesJSONL), notes); err != nil {
		return stats, types.Persistence("export notes", err)
	}
	if err := writeJSONL(filepath.Join(dir, ProblemsJSONL), problems); err != nil {
		return stats, types.Persistence("export problems", err)
	}

	stats.Topics, stats.Notes, stats.Problems = len(topics), len(notes), len(problems)
	return stats, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL[T any](path string, records []T) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		// Encode terminates each record with a newline.
		if err := enc.Encode(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
