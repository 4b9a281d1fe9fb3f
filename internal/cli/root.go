// Package cli implements the pets command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pets/internal/paths"
	"github.com/mesh-intelligence/pets/pkg/sqlite"
	"github.com/mesh-intelligence/pets/pkg/types"
)

// Exit codes.
const (
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
	logJSON   bool
}

// app carries the state of one invocation: flags, the loaded config, and
// the logger built from them.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logger    *log.Logger
}

// NewRootCmd creates the top-level "pets" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pets",
		Short: "A local pet catalog",
		Long:  "pets keeps a catalog of pets in a SQLite file and exposes it through\ncontent addresses such as " + types.ContentURI + "/1.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "pets:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolving config dir: %w", err))
	}
	v, err := loadConfig(configDir, cmd.Root().PersistentFlags())
	if err != nil {
		return sysError(err)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(cfgKeyLogLevel), a.flags.logJSON)
	if err != nil {
		return userError(err)
	}

	a.configDir = configDir
	a.config = v
	a.logger = logger
	a.logger.Debug("config loaded", "config_dir", configDir, "file", v.ConfigFileUsed())
	return nil
}

// dataDir resolves the data directory from flag, config.yaml, env, or default.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return "", sysError(fmt.Errorf("resolving data dir: %w", err))
	}
	return dir, nil
}

// openProvider builds a provider over the resolved data directory. The
// store itself is opened on first use. Callers must Close the provider.
func (a *app) openProvider() (types.Provider, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, userError(fmt.Errorf("config backend %q: %w", cfg.Backend, err))
	}
	a.logger.Debug("opening provider", "backend", cfg.Backend, "data_dir", dataDir)
	return sqlite.NewProvider(cfg, a.logger), nil
}

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Store failures are system
// errors; anything unclassified is a user error.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrStoreUnavailable) || errors.Is(err, types.ErrProviderClosed) {
		return exitSysError
	}
	return exitUserError
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
