package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/gravitrone/registry-console/internal/api"
)

// ColumnsCmd returns the `registry columns` command group.
func ColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show or change the saved list column layout",
	}
	cmd.AddCommand(columnsShowCmd())
	cmd.AddCommand(columnsSetCmd())
	cmd.AddCommand(columnsResetCmd())
	return cmd
}

func columnsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the columns the list renders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			view := s.Controller(nil, nil, nil).ViewConfig()
			stored, ok, err := view.Stored(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "saved layout unreadable, using server default: %v\n", err)
			}
			if ok {
				fmt.Fprintln(out, "source: saved layout")
				printColumns(out, stored)
				return nil
			}

			remote, err := s.Client.DefaultColumns(cmd.Context())
			if err != nil {
				return goerr.Wrap(err, "load default columns")
			}
			fmt.Fprintln(out, "source: server default")
			printColumns(out, remote)
			return nil
		},
	}
}

func columnsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name[=Label]>...",
		Short: "Save a column layout, replacing the server default",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := parseColumns(args)
			if err != nil {
				return err
			}

			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Controller(nil, nil, nil).ViewConfig().Save(cmd.Context(), cols); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d columns\n", len(cols))
			return nil
		},
	}
}

func columnsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop the saved layout and use the server default",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Controller(nil, nil, nil).ViewConfig().Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "column layout reset")
			return nil
		},
	}
}

// parseColumns reads name or name=Label arguments. A missing label
// defaults to the name.
func parseColumns(args []string) ([]api.Column, error) {
	cols := make([]api.Column, 0, len(args))
	seen := map[string]bool{}
	for i, arg := range args {
		name, label, _ := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		label = strings.TrimSpace(label)
		if name == "" {
			return nil, goerr.New("column name is required", goerr.V("arg", arg))
		}
		if seen[name] {
			return nil, goerr.New("duplicate column", goerr.V("name", name))
		}
		seen[name] = true
		if label == "" {
			label = name
		}
		cols = append(cols, api.Column{Name: name, Label: label, Order: i})
	}
	return cols, nil
}

func printColumns(out io.Writer, cols []api.Column) {
	if len(cols) == 0 {
		fmt.Fprintln(out, "no columns")
		return
	}
	for _, col := range cols {
		fmt.Fprintf(out, "  %-16s %s\n", col.Name, col.Label)
	}
}
