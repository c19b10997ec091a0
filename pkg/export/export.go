// Package export flattens reconciliation results into CSV and JSON for
// downstream cataloging tools. Both formats consume only the plain-map
// view of a result, so they stay decoupled from the engine's types.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
)

// csvHeader is the fixed column set for CSV export. One row per entity;
// only the best match is flattened inline.
var csvHeader = []string{
	"entity_id",
	"entity_name",
	"entity_type",
	"best_match_id",
	"best_match_label",
	"best_match_source",
	"best_match_score",
	"best_match_tier",
	"overall_confidence",
	"candidate_count",
	"sources_queried",
	"from_cache",
	"error",
}

// CSV writes one row per result with the best match flattened inline.
func CSV(w io.Writer, results []entities.ReconciliationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.WrapIO("write", "csv header", err)
	}

	for _, r := range results {
		row := []string{
			r.Entity.ID,
			r.Entity.Name,
			r.Entity.Type.String(),
			"", "", "", "", "",
			r.OverallConfidence.String(),
			strconv.Itoa(len(r.Candidates)),
			strings.Join(r.SourcesQueried, ";"),
			strconv.FormatBool(r.FromCache),
			r.Error,
		}
		if best, ok := r.BestMatch(); ok {
			row[3] = best.ExternalID
			row[4] = best.Label
			row[5] = best.Source
			row[6] = fmt.Sprintf("%.4f", best.Score)
			row[7] = best.Tier.String()
		}
		if err := cw.Write(row); err != nil {
			return errors.WrapIO("write", "csv row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("flush", "csv", err)
	}
	return nil
}

// JSON writes the full candidate detail as an indented JSON array.
func JSON(w io.Writer, results []entities.ReconciliationResult) error {
	flat := make([]map[string]any, 0, len(results))
	for _, r := range results {
		flat = append(flat, r.ToMap())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(flat); err != nil {
		return errors.WrapIO("write", "json", err)
	}
	return nil
}
