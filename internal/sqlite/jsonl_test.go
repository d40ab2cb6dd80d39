package sqlite

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// readJSONL decodes every line of a JSONL file into T.
func readJSONL[T any](t *testing.T, path string) []T {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []T
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var v T
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		out = append(out, v)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestExport(t *testing.T) {
	b := newTestBackend(t)
	work := mustTopic(t, b, "Work", "09:00", "17:00")
	_, err := b.CreateNote(work, "standup")
	require.NoError(t, err)
	_, err = b.CreateProblem(work, "build is slow")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "export")
	stats, err := b.Export(dir)
	require.NoError(t, err)
	assert.Equal(t, ExportStats{Topics: 1, Notes: 1, Problems: 1}, stats)

	topics := readJSONL[types.Topic](t, filepath.Join(dir, TopicsJSONL))
	require.Len(t, topics, 1)
	assert.Equal(t, "Work", topics[0].Title)
	assert.Equal(t, types.NewTimeOfDay(9, 0, 0), topics[0].Starts)

	notes := readJSONL[types.Note](t, filepath.Join(dir, NotesJSONL))
	require.Len(t, notes, 1)
	assert.Equal(t, work, notes[0].TopicID)

	problems := readJSONL[types.Problem](t, filepath.Join(dir, ProblemsJSONL))
	require.Len(t, problems, 1)
	assert.Equal(t, "build is slow", problems[0].Statement)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestExport_EmptyStoreWritesEmptyFiles(t *testing.T) {
	b := newTestBackend(t)
	dir := t.TempDir()

	stats, err := b.Export(dir)
	require.NoError(t, err)
	assert.Zero(t, stats)

	info, err := os.Stat(filepath.Join(dir, TopicsJSONL))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
