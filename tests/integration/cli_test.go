package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the tlog binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "tlog-test-*")
	if err != nil {
		buildErr = err
		os.Exit(1)
	}
	tlogBin = filepath.Join(tmpDir, "tlog")

	cmd := exec.Command("go", "build", "-o", tlogBin, "./cmd/tlog")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInit(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunTlog("init")
	assert.Contains(t, result.Stdout, "tlog initialized")

	assert.FileExists(t, filepath.Join(env.Config, "config.yaml"))
	assert.FileExists(t, filepath.Join(env.Config, "settings.json"))
	assert.FileExists(t, filepath.Join(env.DataDir, "tlog.db"))

	// Running init again keeps existing files.
	env.MustRunTlog("init")
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRunTlog("version")
	assert.True(t, strings.HasPrefix(result.Stdout, "tlog v"))
}

func TestTopicLifecycle(t *testing.T) {
	env := NewTestEnv(t)

	work := ParseJSON[IDResult](t, env.MustRunTlog("--json", "topic", "add", "Work", "09:00", "17:00").Stdout)
	gym := ParseJSON[IDResult](t, env.MustRunTlog("--json", "topic", "add", "Gym", "07:00", "08:00", "--disabled").Stdout)

	topics := ParseJSON[[]Topic](t, env.MustRunTlog("--json", "topic", "list").Stdout)
	require.Len(t, topics, 2)
	assert.Equal(t, "Gym", topics[0].Title, "sorted by start time")
	assert.Equal(t, "07:00:00", topics[0].Starts)
	assert.False(t, topics[0].Enabled)
	assert.Equal(t, work.ID, topics[1].ID)

	env.MustRunTlog("topic", "enable", itoa(gym.ID))
	env.MustRunTlog("topic", "disable", itoa(work.ID))

	topics = ParseJSON[[]Topic](t, env.MustRunTlog("--json", "topic", "list").Stdout)
	assert.True(t, topics[0].Enabled)
	assert.False(t, topics[1].Enabled)
}

func TestTopicRejections(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunTlog("topic", "add", "Work", "09:00", "17:00")

	tests := []struct {
		name string
		args []string
	}{
		{"duplicate title", []string{"topic", "add", "Work", "10:00", "11:00"}},
		{"equal window", []string{"topic", "add", "Nap", "13:00", "13:00"}},
		{"bad time", []string{"topic", "add", "Nap", "25:00", "13:00"}},
		{"bad id", []string{"topic", "delete", "abc"}},
		{"missing topic", []string{"topic", "delete", "99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.RunTlog(tt.args...)
			assert.Equal(t, 1, result.ExitCode, "stderr: %s", result.Stderr)
		})
	}
}

func TestDeleteTopicCascades(t *testing.T) {
	env := NewTestEnv(t)

	topic := ParseJSON[IDResult](t, env.MustRunTlog("--json", "topic", "add", "Work", "09:00", "17:00").Stdout)
	id := itoa(topic.ID)
	env.MustRunTlog("note", "add", id, "first", "note")
	env.MustRunTlog("note", "add", id, "second note")
	env.MustRunTlog("problem", "add", id, "flaky", "build")

	result := env.MustRunTlog("topic", "delete", id)
	assert.Contains(t, result.Stdout, "(2 notes, 1 problems)")

	assert.Empty(t, ParseJSON[[]Note](t, env.MustRunTlog("--json", "note", "list").Stdout))
	assert.Empty(t, ParseJSON[[]Problem](t, env.MustRunTlog("--json", "problem", "list", "--all").Stdout))

	// The freed statement can be recorded again under a new topic.
	other := ParseJSON[IDResult](t, env.MustRunTlog("--json", "topic", "add", "Home", "18:00", "20:00").Stdout)
	env.MustRunTlog("problem", "add", itoa(other.ID), "flaky", "build")
}

func TestNotesAndProblems(t *testing.T) {
	env := NewTestEnv(t)

	topic := ParseJSON[IDResult](t, env.MustRunTlog("--json", "topic", "add", "Work", "09:00", "17:00").Stdout)
	id := itoa(topic.ID)

	assert.Equal(t, 1, env.RunTlog("note", "add", "42", "orphan").ExitCode, "unknown topic")

	env.MustRunTlog("note", "add", id, "fixed the parser")
	env.MustRunTlog("note", "add", id, "wrote docs")
	notes := ParseJSON[[]Note](t, env.MustRunTlog("--json", "note", "list", "--search", "PARSER").Stdout)
	require.Len(t, notes, 1)
	assert.Equal(t, "fixed the parser", notes[0].Body)

	p := ParseJSON[IDResult](t, env.MustRunTlog("--json", "problem", "add", id, "slow tests").Stdout)
	assert.Equal(t, 1, env.RunTlog("problem", "add", id, "slow tests").ExitCode, "duplicate statement")

	assert.Contains(t, env.MustRunTlog("problem", "solve", itoa(p.ID)).Stdout, "Solved problem")
	assert.Contains(t, env.MustRunTlog("problem", "solve", itoa(p.ID)).Stdout, "already solved")

	assert.Empty(t, ParseJSON[[]Problem](t, env.MustRunTlog("--json", "problem", "list").Stdout))
	all := ParseJSON[[]Problem](t, env.MustRunTlog("--json", "problem", "list", "--all").Stdout)
	require.Len(t, all, 1)
	assert.True(t, all[0].Solved)
}

func TestSettings(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunTlog("settings", "set", "notify_after", "5")
	assert.Equal(t, "5\n", env.MustRunTlog("settings", "get", "notify_after").Stdout)

	env.MustRunTlog("settings", "set", "notify_after", "2", "notify_units", "hours")
	assert.Equal(t, "hours\n", env.MustRunTlog("settings", "get", "notify_units").Stdout)

	assert.Equal(t, 1, env.RunTlog("settings", "set", "notify_units", "days").ExitCode)
	assert.Equal(t, 1, env.RunTlog("settings", "get", "colour").ExitCode)
}

func TestCorruptSettingsFallBackToDefaults(t *testing.T) {
	env := NewTestEnv(t)
	require.NoError(t, os.MkdirAll(env.Config, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.Config, "settings.json"), []byte("{oops"), 0o644))

	assert.Equal(t, "30\n", env.MustRunTlog("settings", "get", "notify_after").Stdout)
}

func TestStoreOpenFailureExitsTwo(t *testing.T) {
	env := NewTestEnv(t)
	require.NoError(t, os.WriteFile(env.DataDir, []byte("not a directory"), 0o644))

	result := env.RunTlog("topic", "list")
	assert.Equal(t, 2, result.ExitCode)
}

func TestExportAndBackup(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunTlog("seed", "--topics", "5", "--seed", "7")

	exportDir := filepath.Join(env.TempDir, "export")
	env.MustRunTlog("export", exportDir)
	topics := ReadJSONLFile[Topic](t, filepath.Join(exportDir, "topics.jsonl"))
	assert.Len(t, topics, 5)

	backupDirs := []string{filepath.Join(env.TempDir, "b1"), filepath.Join(env.TempDir, "b2")}
	result := env.MustRunTlog(append([]string{"backup"}, backupDirs...)...)
	assert.Equal(t, 2, strings.Count(result.Stdout, "Backed up to"))
	for _, dir := range backupDirs {
		assert.FileExists(t, filepath.Join(dir, "tlog.db"))
	}
}

func TestRunOnce(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunTlog("topic", "add", "All day", "00:00", "23:59:59")

	result := env.MustRunTlog("run", "--once")
	assert.Contains(t, result.Stdout, "Log your achievements. All day ending")

	result = env.MustRunTlog("run", "--once", "--quiet")
	assert.NotContains(t, result.Stdout, "Log your achievements")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
