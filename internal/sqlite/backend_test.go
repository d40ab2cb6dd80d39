// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// newTestBackend attaches a backend to a fresh temp dir and detaches it when
// the test ends.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// mustTopic creates a topic or fails the test.
func mustTopic(t *testing.T, b *Backend, title, starts, ends string) int64 {
	t.Helper()

	s, err := types.ParseTimeOfDay(starts)
	require.NoError(t, err)
	e, err := types.ParseTimeOfDay(ends)
	require.NoError(t, err)

	id, err := b.CreateTopic(title, s, e, true)
	require.NoError(t, err)
	return id
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, types.DatabaseFileName))
	assert.NoError(t, err, "tlog.db not created")
	assert.Equal(t, filepath.Join(tmpDir, types.DatabaseFileName), b.Path())

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackend_AttachFailsOnUnusableDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(blocker, "data")})
	assert.ErrorIs(t, err, types.ErrPersistence)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")
	assert.Empty(t, b.Path())

	_, err := b.ListTopics()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.CreateTopic("Work", types.NewTimeOfDay(9, 0, 0), types.NewTimeOfDay(17, 0, 0), true)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	id := mustTopic(t, b, "Work", "09:00", "17:00")
	_, err := b.CreateNote(id, "shipped the parser")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	topics, err := b2.ListTopics()
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Work", topics[0].Title)

	notes, problems, err := b2.Counts(id)
	require.NoError(t, err)
	assert.Equal(t, 1, notes)
	assert.Equal(t, 0, problems)
}

func TestBackend_TimestampsUseLocalLayout(t *testing.T) {
	b := newTestBackend(t)
	fixed := time.Date(2026, 5, 2, 8, 30, 0, 0, time.Local)
	b.now = func() time.Time { return fixed }

	id := mustTopic(t, b, "Reading", "07:00", "08:00")
	topic, err := b.GetTopic(id)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(topic.Created), "created %v, want %v", topic.Created, fixed)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
