package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// Messages the editor reports when the provider accepted a save but changed
// nothing. They are user-facing text.
var (
	errSaveFailed   = errors.New("Error with saving pet")   //nolint:staticcheck
	errUpdateFailed = errors.New("Error with updating pet") //nolint:staticcheck
)

// editorFlags are the fields of the pet editor form.
type editorFlags struct {
	name   string
	breed  string
	gender string
	weight string
}

func (f *editorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "pet name")
	cmd.Flags().StringVar(&f.breed, "breed", "", "breed (may be empty)")
	cmd.Flags().StringVar(&f.gender, "gender", "unknown", "gender: unknown, male, female, or 0-2")
	cmd.Flags().StringVar(&f.weight, "weight", "", "weight in kg (empty means 0)")
}

// apply copies the flags the user set onto pet. With all=true every field
// is applied, as for a new pet.
func (f *editorFlags) apply(cmd *cobra.Command, pet *types.Pet, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if changed("name") {
		pet.Name = f.name
	}
	if changed("breed") {
		pet.Breed = f.breed
	}
	if changed("gender") {
		g, err := types.ParseGender(f.gender)
		if err != nil {
			return err
		}
		pet.Gender = g
	}
	if changed("weight") {
		w, err := parseWeight(f.weight)
		if err != nil {
			return err
		}
		pet.Weight = w
	}
	pet.Normalize()
	return pet.Validate()
}

// parseWeight reads the weight field. An empty field means 0.
func parseWeight(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	w, err := strconv.ParseInt(s, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidWeight, s)
	}
	return w, nil
}

func newAddCmd(a *app) *cobra.Command {
	var f editorFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pet to the catalog",
		Long: `Add saves a new pet and prints its content address.

Example:
  pets add --name Toto --breed Terrier --gender male --weight 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pet types.Pet
			if err := f.apply(cmd, &pet, true); err != nil {
				return userError(err)
			}

			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			addr, err := p.Insert(types.ContentURI, pet.Values())
			if err != nil {
				return err
			}
			if addr == "" {
				return sysError(errSaveFailed)
			}
			id, err := types.ParseID(addr)
			if err != nil {
				return sysError(err)
			}
			pet.ID = id

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"address": addr, "pet": pet})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pet saved with id: %d\n%s\n", id, addr)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f editorFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing pet",
		Long: `Edit loads a pet, applies the given fields, and saves it through its
content address. Fields that are not given keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			addr := itemAddress(args[0])
			pet, err := loadPet(p, addr)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, pet, false); err != nil {
				return userError(err)
			}

			n, err := p.Update(addr, pet.Values(), "", nil)
			if err != nil {
				return err
			}
			if n == 0 {
				return sysError(errUpdateFailed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pet updated")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProvider()
			if err != nil {
				return err
			}
			defer p.Close()

			n, err := p.Delete(itemAddress(args[0]), "", nil)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"rows": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d pet(s)\n", n)
			return nil
		},
	}
}
