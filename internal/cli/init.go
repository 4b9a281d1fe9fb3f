package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pets/internal/paths"
	"github.com/mesh-intelligence/pets/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize pets configuration and storage",
		Long:  "Write a default config.yaml if missing, then create the database file and the pets table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}

	// Only an explicit --data-dir is recorded; otherwise the default stays
	// relative to wherever pets runs.
	var configDataDir string
	if a.flags.dataDir != "" {
		configDataDir = dataDir
	}
	configPath := paths.ConfigFile(a.configDir)
	written, err := writeConfigIfMissing(configPath, configDataDir)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if written {
		a.logger.Info("wrote default config", "path", configPath)
	}
	p, err := a.openProvider()
	if err != nil {
		return err
	}
	defer p.Close()

	// The store is lazy; a collection query forces the file and schema.
	c, err := p.Query(types.ContentURI, []string{types.ColumnID}, "", nil, "")
	if err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := c.Close(); err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Pets initialized successfully")
	fmt.Fprintln(out, "  config:", configPath)
	fmt.Fprintln(out, "  data:  ", dataDir)
	return nil
}
