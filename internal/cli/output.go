package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable starts a table with a bold header row.
func newTable(headers ...string) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = bold(h)
	}
	tbl.AddRow(row...)
	return tbl
}

// printTitle prints a section title followed by its entry count.
func printTitle(w io.Writer, title string, count int) {
	noun := "entries"
	if count == 1 {
		noun = "entry"
	}
	fmt.Fprintf(w, "%s %s\n", bold(title), faint(fmt.Sprintf("- %d %s", count, noun)))
}

func enabledLabel(enabled bool) string {
	if enabled {
		return green("enabled")
	}
	return faint("disabled")
}

func solvedLabel(solved bool) string {
	if solved {
		return green("solved")
	}
	return red("unsolved")
}

// parseID parses a positive row ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// topicTitles indexes topic titles by ID for display.
func topicTitles(topics []types.Topic) map[int64]string {
	titles := make(map[int64]string, len(topics))
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	return titles
}

// nonNil keeps JSON output an array when there are no rows.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
