package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nomina-io/nomina/internal/sources/registry"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the authority sources and their dispatch mapping",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(_ *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "SOURCE\tTRUST")
	for _, id := range sources.IDs() {
		fmt.Fprintf(w, "%s\t%.2f\n", id, id.TrustWeight())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TYPE\tSOURCES")
	for _, typ := range entities.Types() {
		ids := registry.ForType(typ)
		fmt.Fprintf(w, "%s\t", typ)
		for i, id := range ids {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, id)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
