package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	b := newTestBackend(t)
	mustTopic(t, b, "Existing", "09:00", "10:00")

	stats, err := b.Seed(SeedOptions{Topics: 25, MaxNotes: 4, MaxProblems: 2, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 25, stats.Topics)
	assert.GreaterOrEqual(t, stats.Notes, 25)
	assert.LessOrEqual(t, stats.Notes, 100)
	assert.GreaterOrEqual(t, stats.Problems, 25)
	assert.LessOrEqual(t, stats.Problems, 50)

	topics, err := b.ListTopics()
	require.NoError(t, err)
	assert.Len(t, topics, 26)

	titles := map[string]bool{}
	for _, tp := range topics {
		assert.False(t, titles[tp.Title], "duplicate title %q", tp.Title)
		titles[tp.Title] = true
		assert.NotEqual(t, tp.Starts, tp.Ends)
	}

	notes, err := b.ListNotes(0)
	require.NoError(t, err)
	assert.Len(t, notes, stats.Notes)
	problems, err := b.ListProblems()
	require.NoError(t, err)
	assert.Len(t, problems, stats.Problems)
}

func TestSeed_ZeroTopicsIsNoop(t *testing.T) {
	b := newTestBackend(t)
	stats, err := b.Seed(SeedOptions{})
	require.NoError(t, err)
	assert.Zero(t, stats)
}
