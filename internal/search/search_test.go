package search

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

func notes() []types.Note {
	created := time.Date(2024, time.June, 3, 9, 30, 0, 0, time.Local)
	return []types.Note{
		{ID: 1, Created: created, TopicID: 1, Body: "Fixed the Parser bug"},
		{ID: 2, Created: created, TopicID: 1, Body: "wrote docs"},
		{ID: 3, Created: created.Add(time.Hour), TopicID: 2, Body: "parsing benchmarks"},
	}
}

func ids(rows []types.Note) []int64 {
	var out []int64
	for _, n := range rows {
		out = append(out, n.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query keeps all", "", []int64{1, 2, 3}},
		{"whitespace query keeps all", "   \t", []int64{1, 2, 3}},
		{"case insensitive", "PARS", []int64{1, 3}},
		{"matches timestamp column", "10:30", []int64{3}},
		{"no match", "lunch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(notes(), tt.query)))
		})
	}
}

func TestFilter_NoMatchAcrossColumns(t *testing.T) {
	rows := []types.Topic{{ID: 1, Title: "ab", Enabled: true}}

	// Title "ab" followed by starts "00:00:00" must not match "b0".
	assert.Empty(t, Filter(rows, "b0"))
	assert.Len(t, Filter(rows, "ab"), 1)
}

func TestFilter_TopicsAndProblems(t *testing.T) {
	topics := []types.Topic{
		{ID: 1, Title: "Work", Starts: 9 * 3600, Ends: 17 * 3600, Enabled: true},
		{ID: 2, Title: "Gym", Starts: 18 * 3600, Ends: 19 * 3600},
	}
	assert.Len(t, Filter(topics, "disabled"), 1)
	assert.Len(t, Filter(topics, "09:00"), 1)

	problems := []types.Problem{
		{ID: 1, Statement: "Flaky test", Solved: true},
		{ID: 2, Statement: "Slow build"},
	}
	got := Filter(problems, "unsolved")
	if assert.Len(t, got, 1) {
		assert.Equal(t, int64(2), got[0].ID)
	}
}

func TestSeq_Restartable(t *testing.T) {
	seq := Seq(notes(), "parse")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, []int64{1}, ids(first))
}

func TestSeq_StopsEarly(t *testing.T) {
	var seen int
	for range Seq(notes(), "") {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}
