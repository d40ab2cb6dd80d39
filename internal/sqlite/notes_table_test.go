package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

func TestCreateNote(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")

	id, err := b.CreateNote(topic, "wrote the scheduler")
	require.NoError(t, err)
	assert.Positive(t, id)

	notes, err := b.ListNotes(topic)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "wrote the scheduler", notes[0].Body)
	assert.Equal(t, topic, notes[0].TopicID)
}

func TestCreateNote_Rejections(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")

	_, err := b.CreateNote(topic, "")
	assert.ErrorIs(t, err, types.ErrInvalidBody)
	_, err = b.CreateNote(topic, " \n\t")
	assert.ErrorIs(t, err, types.ErrInvalidBody)
	_, err = b.CreateNote(topic+1, "orphan")
	assert.ErrorIs(t, err, types.ErrForeignKeyViolation)
	_, err = b.CreateNote(0, "orphan")
	assert.ErrorIs(t, err, types.ErrForeignKeyViolation)

	notes, err := b.ListNotes(0)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestListNotes_NewestFirst(t *testing.T) {
	b := newTestBackend(t)
	work := mustTopic(t, b, "Work", "09:00", "17:00")
	gym := mustTopic(t, b, "Gym", "18:00", "19:00")

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local)
	for i, body := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		b.now = func() time.Time { return at }
		topic := work
		if body == "second" {
			topic = gym
		}
		_, err := b.CreateNote(topic, body)
		require.NoError(t, err)
	}

	all, err := b.ListNotes(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Body)
	assert.Equal(t, "second", all[1].Body)
	assert.Equal(t, "first", all[2].Body)

	workNotes, err := b.ListNotes(work)
	require.NoError(t, err)
	require.Len(t, workNotes, 2)
	assert.Equal(t, "third", workNotes[0].Body)
}

func TestDeleteNote(t *testing.T) {
	b := newTestBackend(t)
	topic := mustTopic(t, b, "Work", "09:00", "17:00")
	keep, err := b.CreateNote(topic, "keep")
	require.NoError(t, err)
	drop, err := b.CreateNote(topic, "drop")
	require.NoError(t, err)

	require.NoError(t, b.DeleteNote(drop))
	assert.ErrorIs(t, b.DeleteNote(drop), types.ErrNotFound)
	assert.ErrorIs(t, b.DeleteNote(0), types.ErrInvalidID)

	notes, err := b.ListNotes(topic)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, keep, notes[0].ID)
}
