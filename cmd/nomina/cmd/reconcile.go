package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nomina-io/nomina"
	"github.com/nomina-io/nomina/internal/store"
	"github.com/nomina-io/nomina/pkg/classify"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/export"
	"github.com/nomina-io/nomina/pkg/logging"
)

var (
	reconcileInput      string
	reconcileNameCol    string
	reconcileIDCol      string
	reconcileTypeCol    string
	reconcileFormat     string
	reconcileOutput     string
	reconcileDB         string
	reconcileWorkers    int
	reconcileLimit      int
	reconcileNoFallback bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [names...]",
	Short: "Reconcile entity names against authority sources",
	Long: `Reconcile resolves entity names against Wikidata, VIAF, and the Getty
vocabularies and writes ranked candidates to stdout or a file.

Names are given either as arguments or via --input, a CSV file with a
header row. The name column is required; id and type columns are
optional, and every other column is carried as matching context
(for example birth_date or location).`,
	Example: `  nomina reconcile "Jane Austen" "Minneapolis Institute of Art"
  nomina reconcile --input entities.csv --format json --output results.json
  nomina reconcile --input entities.csv --type-column category --db runs.db`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileInput, "input", "i", "", "CSV file of entities to reconcile")
	reconcileCmd.Flags().StringVar(&reconcileNameCol, "name-column", "name", "CSV column holding the entity name")
	reconcileCmd.Flags().StringVar(&reconcileIDCol, "id-column", "id", "CSV column holding the entity id")
	reconcileCmd.Flags().StringVar(&reconcileTypeCol, "type-column", "type", "CSV column holding the entity type")
	reconcileCmd.Flags().StringVarP(&reconcileFormat, "format", "f", "csv", "output format: csv or json")
	reconcileCmd.Flags().StringVarP(&reconcileOutput, "output", "o", "", "output file (default stdout)")
	reconcileCmd.Flags().StringVar(&reconcileDB, "db", "", "SQLite database to persist the batch to")
	reconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", 0, "concurrent workers (default from config)")
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 0, "candidates per source (default from config)")
	reconcileCmd.Flags().BoolVar(&reconcileNoFallback, "no-fallback", false, "disable the static pattern fallback")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if reconcileFormat != "csv" && reconcileFormat != "json" {
		return errors.NewValidationError("format", reconcileFormat, "must be csv or json")
	}
	if len(args) == 0 && reconcileInput == "" {
		return errors.NewValidationError("input", "", "provide names as arguments or a CSV file via --input")
	}

	batch, err := loadEntities(args)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if reconcileWorkers > 0 {
		workers = reconcileWorkers
	}
	limit := cfg.CandidateLimit
	if reconcileLimit > 0 {
		limit = reconcileLimit
	}

	opts := []nomina.Option{
		nomina.WithWorkers(workers),
		nomina.WithCacheSize(cfg.CacheSize),
		nomina.WithCandidateLimit(limit),
	}
	if reconcileNoFallback {
		opts = append(opts, nomina.WithoutFallback())
	}
	if !cfg.Quiet {
		opts = append(opts, nomina.WithProgress(func(done, total int, _ entities.ReconciliationResult) {
			fmt.Fprintf(os.Stderr, "\rreconciled %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}

	engine, err := nomina.New(opts...)
	if err != nil {
		return err
	}

	results, err := engine.ReconcileAll(cmd.Context(), batch)
	if err != nil {
		return err
	}

	dbPath := reconcileDB
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	if dbPath != "" {
		if err := persistBatch(cmd, dbPath, results); err != nil {
			return err
		}
	}

	return writeResults(results)
}

// loadEntities builds the batch from positional names or the input CSV.
func loadEntities(args []string) ([]entities.Entity, error) {
	if reconcileInput == "" {
		batch := make([]entities.Entity, 0, len(args))
		for i, name := range args {
			e, err := entities.New(fmt.Sprintf("n%d", i+1), name, entities.TypeUnknown, nil)
			if err != nil {
				return nil, err
			}
			batch = append(batch, e)
		}
		return batch, nil
	}

	f, err := os.Open(reconcileInput)
	if err != nil {
		return nil, errors.WrapIO("open", reconcileInput, err)
	}
	defer f.Close()

	return readEntitiesCSV(f)
}

// readEntitiesCSV parses a CSV of entities. The first row is the
// header; columns other than name/id/type become context hints.
func readEntitiesCSV(r io.Reader) ([]entities.Entity, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.WrapParse("input", "csv", err)
	}

	nameIdx, idIdx, typeIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case strings.ToLower(reconcileNameCol):
			nameIdx = i
		case strings.ToLower(reconcileIDCol):
			idIdx = i
		case strings.ToLower(reconcileTypeCol):
			typeIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, errors.NewValidationError("name-column", reconcileNameCol, "column not found in CSV header")
	}

	var batch []entities.Entity
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("input", "csv", err)
		}
		row++

		id := ""
		if idIdx >= 0 && idIdx < len(record) {
			id = strings.TrimSpace(record[idIdx])
		}
		if id == "" {
			id = "row" + strconv.Itoa(row)
		}

		rawType := ""
		if typeIdx >= 0 && typeIdx < len(record) {
			rawType = record[typeIdx]
		}

		context := map[string]string{}
		for i, value := range record {
			if i == nameIdx || i == idIdx || i == typeIdx {
				continue
			}
			if v := strings.TrimSpace(value); v != "" && i < len(header) {
				context[strings.TrimSpace(strings.ToLower(header[i]))] = v
			}
		}

		e, err := entities.New(id, record[nameIdx], resolveType(rawType), context)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		batch = append(batch, e)
	}
	return batch, nil
}

func resolveType(raw string) entities.Type {
	if strings.TrimSpace(raw) == "" {
		return entities.TypeUnknown
	}
	return classify.FromTypeString(raw)
}

func persistBatch(cmd *cobra.Command, path string, results []entities.ReconciliationResult) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	batchID := uuid.New().String()
	if err := s.SaveBatch(cmd.Context(), batchID, results); err != nil {
		return err
	}
	logging.Info().Str("batch_id", batchID).Str("db", path).
		Int("entities", len(results)).Msg("batch persisted")
	return nil
}

func writeResults(results []entities.ReconciliationResult) error {
	var w io.Writer = os.Stdout
	if reconcileOutput != "" {
		f, err := os.Create(reconcileOutput)
		if err != nil {
			return errors.WrapIO("create", reconcileOutput, err)
		}
		defer f.Close()
		w = f
	}

	if reconcileFormat == "json" {
		return export.JSON(w, results)
	}
	return export.CSV(w, results)
}
