package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// itemAddress builds the content address for an id argument as typed. The
// provider rejects anything that is not a valid item address.
func itemAddress(arg string) string {
	return types.ContentURI + "/" + arg
}

// queryPets drains a provider query into pets.
func queryPets(p types.Provider, address string, selection string, args []any, sortOrder string) ([]*types.Pet, error) {
	c, err := p.Query(address, nil, selection, args, sortOrder)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	pets := []*types.Pet{}
	for c.Next() {
		pet, err := types.ScanPet(c)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, c.Err()
}

// loadPet returns the pet at an item address or ErrNotFound.
func loadPet(p types.Provider, address string) (*types.Pet, error) {
	pets, err := queryPets(p, address, "", nil, "")
	if err != nil {
		return nil, err
	}
	if len(pets) == 0 {
		return nil, fmt.Errorf("pet %s: %w", address, types.ErrNotFound)
	}
	return pets[0], nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		sortOrder string
		gender    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pet catalog",
		Long: `List shows every pet with its name and breed. Pets without a breed are
shown as "` + types.UnknownBreed + `".

Example:
  pets list
  pets list --sort "weight DESC"
  pets list --gender female --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selection string
			var selArgs []any
			if gender != "" {
				g, err := types.ParseGender(gender)
				if err != nil {
					return userError(err)
				}
				selection = types.ColumnGender + " = ?"
				selArgs = []any{int64(g)}
			}

			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			pets, err := queryPets(p, types.ContentURI, selection, selArgs, sortOrder)
			if err != nil {
				return fmt.Errorf("list pets: %w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), pets)
			}
			if len(pets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pets yet. Add one with: pets add --name <name>")
				return nil
			}
			for _, pet := range pets {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", pet.ID, pet.Name, pet.DisplayBreed())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sortOrder, "sort", "", `sort order, e.g. "name ASC, weight DESC"`)
	cmd.Flags().StringVar(&gender, "gender", "", "only pets of this gender (unknown, male, female)")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			pet, err := loadPet(p, itemAddress(args[0]))
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), pet)
			}
			printPet(cmd, pet)
			return nil
		},
	}
}

func printPet(cmd *cobra.Command, pet *types.Pet) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:     %d\n", pet.ID)
	fmt.Fprintf(out, "Name:   %s\n", pet.Name)
	fmt.Fprintf(out, "Breed:  %s\n", pet.DisplayBreed())
	fmt.Fprintf(out, "Gender: %s\n", pet.Gender)
	fmt.Fprintf(out, "Weight: %d kg\n", pet.Weight)
}
