package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	store "github.com/mesh-intelligence/pets/internal/sqlite"
	"github.com/mesh-intelligence/pets/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every pet to a JSONL file",
		Long: `Export writes one JSON object per pet. The default file is
` + store.ExportFileName + ` in the data directory. The file is replaced atomically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				dataDir, err := a.dataDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dataDir, store.ExportFileName)
			}

			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			c, err := p.Query(types.ContentURI, nil, "", nil, types.ColumnID)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			n, err := store.WriteCursorJSONL(path, c)
			if err != nil {
				return sysError(fmt.Errorf("export: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pet(s) to %s\n", n, path)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add every pet in a JSONL file",
		Long: `Import inserts each record as a new pet; the ids in the file are not
kept. Malformed lines and records that fail validation are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pets, err := store.ReadPetsJSONL(args[0])
			if err != nil {
				return userError(fmt.Errorf("import: %w", err))
			}

			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			var imported, skipped int
			for _, pet := range pets {
				pet.Normalize()
				if err := pet.Validate(); err != nil {
					a.logger.Warn("skipping record", "name", pet.Name, "err", err)
					skipped++
					continue
				}
				addr, err := p.Insert(types.ContentURI, pet.Values())
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				if addr == "" {
					skipped++
					continue
				}
				imported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d pet(s), skipped %d\n", imported, skipped)
			return nil
		},
	}
}
