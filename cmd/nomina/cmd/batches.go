package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nomina-io/nomina/internal/store"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/export"
)

var (
	batchesDB     string
	batchesShow   string
	batchesFormat string
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List or re-export persisted reconciliation batches",
	Example: `  nomina batches --db runs.db
  nomina batches --db runs.db --show 6f1c... --format json`,
	RunE: runBatches,
}

func init() {
	batchesCmd.Flags().StringVar(&batchesDB, "db", "", "SQLite database to read")
	batchesCmd.Flags().StringVar(&batchesShow, "show", "", "batch id to re-export")
	batchesCmd.Flags().StringVarP(&batchesFormat, "format", "f", "csv", "output format: csv or json")

	rootCmd.AddCommand(batchesCmd)
}

func runBatches(cmd *cobra.Command, _ []string) error {
	dbPath := batchesDB
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	if dbPath == "" {
		return errors.NewValidationError("db", "", "provide a database via --db or config")
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if batchesShow != "" {
		results, err := s.Results(cmd.Context(), batchesShow)
		if err != nil {
			return err
		}
		if batchesFormat == "json" {
			return export.JSON(os.Stdout, results)
		}
		return export.CSV(os.Stdout, results)
	}

	batches, err := s.Batches(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BATCH\tCREATED\tENTITIES")
	for _, b := range batches {
		fmt.Fprintf(w, "%s\t%s\t%d\n", b.ID, b.CreatedAt.Format(time.RFC3339), b.EntityCount)
	}
	return w.Flush()
}
