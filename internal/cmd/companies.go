package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/ui/components"
)

// printedNotices reports mutation outcomes on the command's output.
// Failures are returned by the command itself, so they are not printed
// twice.
type printedNotices struct {
	out io.Writer
}

func (n printedNotices) NotifySuccess(message string) {
	fmt.Fprintln(n.out, message)
}

func (n printedNotices) NotifyFailure(string) {}

func (n printedNotices) NavigateTo(path string) {
	fmt.Fprintf(n.out, "open: %s\n", path)
}

// CompaniesCmd returns the `registry companies` command group.
func CompaniesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "List and manage companies",
	}
	cmd.AddCommand(companiesListCmd())
	cmd.AddCommand(companiesShowCmd())
	cmd.AddCommand(companiesAddCmd())
	cmd.AddCommand(companiesRemoveCmd())
	cmd.AddCommand(companiesMergeCmd())
	return cmd
}

func companiesListCmd() *cobra.Command {
	var (
		search, tag, segment string
		page, perPage        int
		ids                  []string
		width                int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies with the saved column layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			query := companies.EncodeQuery(api.ListParams{
				Page:        page,
				PerPage:     perPage,
				Segment:     strings.TrimSpace(segment),
				Tag:         strings.TrimSpace(tag),
				IDs:         ids,
				SearchValue: strings.TrimSpace(search),
			})

			out := cmd.OutOrStdout()
			c := s.Controller(query, printedNotices{out: out}, printedNotices{out: out})
			if err := c.Load(cmd.Context()); err != nil {
				return goerr.Wrap(err, "list companies")
			}
			vm := c.ViewModel(cmd.Context())
			if vm.ListErr != nil {
				return goerr.Wrap(vm.ListErr, "list companies")
			}
			renderCompanyList(out, vm, width)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "free-text search")
	cmd.Flags().StringVar(&tag, "tag", "", "tag id filter")
	cmd.Flags().StringVar(&segment, "segment", "", "segment filter")
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "rows per page")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "restrict to these company ids")
	cmd.Flags().IntVar(&width, "width", 120, "table width")
	return cmd
}

func companiesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			company, err := s.Client.CompanyDetail(cmd.Context(), args[0])
			if err != nil {
				return goerr.Wrap(err, "show company", goerr.V("companyID", args[0]))
			}
			if company == nil {
				return goerr.New("company not found", goerr.V("companyID", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", company.Name())
			for _, field := range companyFieldNames(*company) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", field, company.Field(field))
			}
			return nil
		},
	}
}

func companiesAddCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldPairs(pairs)
			if err != nil {
				return err
			}
			fields["primaryName"] = args[0]

			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			c := s.Controller(nil, printedNotices{out: out}, printedNotices{out: out})
			return c.Mutations().AddCompany(cmd.Context(), fields, nil)
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "field", "f", nil, "extra field as name=value (repeatable)")
	return cmd
}

func companiesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove companies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			c := s.Controller(nil, printedNotices{out: out}, printedNotices{out: out})
			return c.Mutations().RemoveCompanies(cmd.Context(), args)
		},
	}
}

func companiesMergeCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "merge <id> <id>...",
		Short: "Merge companies into one record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldPairs(pairs)
			if err != nil {
				return err
			}

			s, err := OpenSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			c := s.Controller(nil, printedNotices{out: out}, printedNotices{out: out})
			_, err = c.Mutations().MergeCompanies(cmd.Context(), args, fields, nil)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "field", "f", nil, "merged field as name=value (repeatable)")
	return cmd
}

// --- helpers ---

// parseFieldPairs turns name=value flags into mutation fields. size and
// employees are sent as integers.
func parseFieldPairs(pairs []string) (map[string]any, error) {
	fields := map[string]any{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, goerr.New("field must be name=value", goerr.V("field", pair))
		}
		if name == "size" || name == "employees" {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, goerr.Wrap(err, "field must be a whole number", goerr.V("field", name))
			}
			fields[name] = n
			continue
		}
		fields[name] = value
	}
	return fields, nil
}

func renderCompanyList(out io.Writer, vm companies.ViewModel, width int) {
	perPage := vm.Params.PerPage
	if perPage <= 0 {
		perPage = companies.DefaultPerPage
	}
	page := vm.Params.Page
	if page < 1 {
		page = 1
	}
	fmt.Fprintf(out, "%d companies (page %d, %d per page)\n", vm.Counts.All, page, perPage)
	if len(vm.Companies) == 0 {
		fmt.Fprintln(out, "no companies found")
		return
	}

	columns := vm.Columns
	if len(columns) == 0 {
		columns = []api.Column{{Name: "primaryName", Label: "Name"}}
	}
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "ID")
	for _, col := range columns {
		headers = append(headers, col.Label)
	}
	rows := make([][]string, 0, len(vm.Companies))
	for _, company := range vm.Companies {
		row := []string{company.ID}
		for _, col := range columns {
			if col.Name == "primaryName" {
				row = append(row, company.Name())
				continue
			}
			row = append(row, company.Field(col.Name))
		}
		rows = append(rows, row)
	}
	grid := components.SpreadColumns(headers, nil, width)
	fmt.Fprintln(out, components.TableGrid(grid, rows, width, -1))
}

func companyFieldNames(company api.Company) []string {
	names := []string{"_id"}
	seen := map[string]bool{}
	for _, info := range companies.BasicInfos {
		seen[info.Name] = true
		if _, ok := company.Fields[info.Name]; ok {
			names = append(names, info.Name)
		}
	}
	rest := make([]string, 0, len(company.Fields))
	for name := range company.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
