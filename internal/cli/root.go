// Package cli implements the tlog command-line interface.
//
// Every invocation resolves the config directory, reads config.yaml and
// settings.json, and builds a logger. Commands that touch topics, notes or
// problems open the store for the duration of the command only.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tlog/internal/logging"
	"github.com/mesh-intelligence/tlog/internal/paths"
	"github.com/mesh-intelligence/tlog/internal/settings"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
}

// app carries what one invocation resolves before a subcommand runs.
type app struct {
	flags     rootFlags
	clock     clock.Clock
	configDir string
	config    *viper.Viper
	logger    *zap.SugaredLogger
	settings  *settings.Store
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to the process exit code.
// Storage failures are system errors; everything else is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrPersistence) {
		return exitSysError
	}
	return exitUserError
}

// NewRootCmd creates the top-level "tlog" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(clock.New())
}

func newRootCmd(clk clock.Clock) *cobra.Command {
	a := &app{clock: clk}

	root := &cobra.Command{
		Use:   "tlog",
		Short: "Track what you work on during the day",
		Long: `tlog keeps daily topic windows, notes logged against them and the
problems you run into, and reminds you to log progress while a topic is
running.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newTopicCmd(a),
		newNoteCmd(a),
		newProblemCmd(a),
		newNowCmd(a),
		newSearchCmd(a),
		newSettingsCmd(a),
		newRunCmd(a),
		newBackupCmd(a),
		newSeedCmd(a),
		newExportCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, loads config.yaml and settings, and builds
// the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError("load config: %w", err)
	}

	level := cfg.GetString(cfgKeyLogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}

	a.configDir = configDir
	a.config = cfg
	a.logger = logging.New(level, cfg.GetString(cfgKeyLogFormat))
	a.settings = settings.New(filepath.Join(configDir, settings.FileName), a.logger)
	a.settings.Load()
	return nil
}

// dataDir resolves the directory holding the database.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// withStore attaches the SQLite backend, runs fn and detaches. A store that
// cannot be opened is a system error.
func (a *app) withStore(fn func(b *sqlite.Backend) error) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}

	b := sqlite.NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		a.logger.Errorw("failed to open store", "dir", dataDir, "err", err)
		return sysError("open store: %w", err)
	}
	defer func() {
		if err := b.Detach(); err != nil {
			a.logger.Warnw("failed to close store", "err", err)
		}
	}()

	return fn(b)
}
