// Package cli implements the annopack command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/annopack/internal/logging"
	"github.com/mesh-intelligence/annopack/internal/paths"
	"github.com/mesh-intelligence/annopack/internal/sqlite"

	// Registers the base ontology kinds so stored packs can be restored.
	_ "github.com/mesh-intelligence/annopack/pkg/onto"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input: unknown ids, bad flags,
// malformed files.
func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError marks err as an environment failure: unreadable config, storage
// errors.
func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process exit
// code. Errors without a code, such as cobra's flag errors, are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by one invocation of the root command.
type app struct {
	flags     rootFlags
	configDir string
	dataDir   string
	cfg       *viper.Viper
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "annopack" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "annopack",
		Short: "Store, inspect and process annotated text packs",
		Long: "annopack reads annotated documents into packs of typed entries\n" +
			"(spans, links and groups), stores them in SQLite, runs processors\n" +
			"over them and exchanges them as JSONL.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $"+paths.EnvConfigDir+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: ./"+paths.DefaultDataDirName+", or $"+paths.EnvDataDir+")")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config, else warn)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newReadCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newMaskCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newDeleteCmd(a),
	)
	return root
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "annopack:", err)
	}
	return ExitCode(err)
}

// setup resolves directories, loads config.yaml and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}

	levelName := a.flags.logLevel
	if levelName == "" {
		levelName = cfg.GetString(cfgKeyLogLevel)
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return userError("%w", err)
	}
	format, err := logging.ParseFormat(cfg.GetString(cfgKeyLogFormat))
	if err != nil {
		return userError("%w", err)
	}

	a.configDir = configDir
	a.dataDir = dataDir
	a.cfg = cfg
	logging.Init(level, format, cmd.ErrOrStderr())
	a.logger = logging.Component("cli")
	a.logger.Debug("configured", "config_dir", configDir, "data_dir", dataDir)
	return nil
}

// openStore opens the pack database in the data directory. The caller must
// close it.
func (a *app) openStore() (*sqlite.Store, error) {
	path := filepath.Join(a.dataDir, sqlite.DefaultFileName)
	store, err := sqlite.Open(path, sqlite.WithLogger(a.logger))
	if err != nil {
		return nil, sysError("open store: %w", err)
	}
	return store, nil
}

// storeError classifies a store failure for the exit code.
func storeError(op string, err error) error {
	if errors.Is(err, sqlite.ErrPackNotFound) {
		return userError("%s: %w", op, err)
	}
	return sysError("%s: %w", op, err)
}

// output writes v as indented JSON in --json mode and calls text otherwise.
func (a *app) output(w io.Writer, v any, text func(io.Writer)) error {
	if a.flags.jsonMode {
		return writeJSON(w, v)
	}
	text(w)
	return nil
}
