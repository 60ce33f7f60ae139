package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iwvelando/maintenance-budget/internal/profile"
	"github.com/iwvelando/maintenance-budget/pkg/format"
	"github.com/iwvelando/maintenance-budget/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProfileCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage TOML asset profiles",
	}
	cmd.AddCommand(newProfileShowCommand(o), newProfileInitCommand(o))
	return cmd
}

func newProfileShowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show PATH",
		Short: "Print the asset stored in a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			in, err := p.AssetInput()
			if err != nil {
				return err
			}

			table := output.Table{
				Title:   "Profile " + p.Name,
				Headers: []string{"Field", "Value"},
				Rows: [][]string{
					{"Gross area", format.Area(in.GrossArea)},
					{"Capacity", strconv.Itoa(in.Capacity)},
					{"Construction year", strconv.Itoa(in.ConstructionYear)},
					{"Annual revenue", format.Currency(in.AnnualRevenue)},
					{"Equipment", in.Equipment.String()},
				},
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output.RenderTable(table))
			return err
		},
	}
}

func newProfileInitCommand(o *rootOptions) *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write a profile from the configured asset and flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("profile %s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			in, err := o.resolveInput(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			if err := profile.Save(path, profile.FromInput(name, in)); err != nil {
				return err
			}
			o.logger.Info("saved profile",
				zap.String("op", "cmd.profileInit"),
				zap.String("path", path),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote profile %s to %s\n", name, path)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (defaults to the file name)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")
	return cmd
}
