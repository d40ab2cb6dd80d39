package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

func TestCreateProblem(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")

	id, err := b.CreateProblem(topic, "build is slow")
	require.NoError(t, err)

	unsolved, err := b.ListUnsolvedProblems()
	require.NoError(t, err)
	require.Len(t, unsolved, 1)
	assert.Equal(t, id, unsolved[0].ID)
	assert.Equal(t, "build is slow", unsolved[0].Statement)
	assert.False(t, unsolved[0].Solved)
}

func TestCreateProblem_Rejections(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")
	_, err := b.CreateProblem(topic, "build is slow")
	require.NoError(t, err)

	_, err = b.CreateProblem(topic, "build is slow")
	assert.ErrorIs(t, err, types.ErrDuplicateStatement)
	_, err = b.CreateProblem(topic, "")
	assert.ErrorIs(t, err, types.ErrInvalidStatement)
	_, err = b.CreateProblem(topic+7, "no such topic")
	assert.ErrorIs(t, err, types.ErrForeignKeyViolation)

	all, err := b.ListProblems()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMarkSolved(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")
	id, err := b.CreateProblem(topic, "build is slow")
	require.NoError(t, err)

	changed, err := b.MarkSolved(id)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = b.MarkSolved(id)
	require.NoError(t, err)
	assert.False(t, changed, "solving twice is a no-op")

	changed, err = b.MarkSolved(id + 99)
	require.NoError(t, err)
	assert.False(t, changed, "missing id is not an error")

	unsolved, err := b.ListUnsolvedProblems()
	require.NoError(t, err)
	assert.Empty(t, unsolved)

	all, err := b.ListProblems()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Solved)
}

func TestCreateProblem_SameTopicAfterSolve(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")
	first, err := b.CreateProblem(topic, "build is slow")
	require.NoError(t, err)
	_, err = b.MarkSolved(first)
	require.NoError(t, err)

	_, err = b.CreateProblem(topic, "tests are slow")
	require.NoError(t, err)

	unsolved, err := b.ListUnsolvedProblems()
	require.NoError(t, err)
	require.Len(t, unsolved, 1)
	assert.Equal(t, "tests are slow", unsolved[0].Statement)
}

func TestDeleteProblem(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")
	id, err := b.CreateProblem(topic, "build is slow")
	require.NoError(t, err)

	require.NoError(t, b.DeleteProblem(id))
	assert.ErrorIs(t, b.DeleteProblem(id), types.ErrNotFound)

	_, problems, err := b.Counts(topic)
	require.NoError(t, err)
	assert.Zero(t, problems)
}
