package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
)

// NewRootCmd builds the `registry` command tree. Without a subcommand it
// opens the interactive list screen.
func NewRootCmd() *cobra.Command {
	var search, tag string
	root := &cobra.Command{
		Use:   "registry",
		Short: "Registry - company list console",
		Long:  "Registry CLI: browse, filter, add, remove and merge companies in the registry.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := companies.EncodeQuery(api.ListParams{
				SearchValue: strings.TrimSpace(search),
				Tag:         strings.TrimSpace(tag),
			})
			return RunTUI(cmd.Context(), query)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&search, "search", "s", "", "start with this search")
	root.Flags().StringVar(&tag, "tag", "", "start filtered to this tag id")

	root.AddCommand(LoginCmd())
	root.AddCommand(CompaniesCmd())
	root.AddCommand(ColumnsCmd())
	root.AddCommand(ServeCmd())
	return root
}
