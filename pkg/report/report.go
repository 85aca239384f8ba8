// Package report aggregates scan and verification output into summary
// statistics and serializes the merged record set as JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/depscout/depscout/pkg/manifest"
	"github.com/depscout/depscout/pkg/scanner"
	"github.com/depscout/depscout/pkg/verify"
)

// Summary holds the aggregate statistics for one run.
type Summary struct {
	RunID        string                     `json:"run_id,omitempty"`
	GeneratedAt  time.Time                  `json:"generated_at"`
	TotalRecords int                        `json:"total_records"`
	ByEcosystem  map[manifest.Ecosystem]int `json:"records_by_ecosystem"`
	ByRole       map[manifest.Role]int      `json:"records_by_role"`
	Unclaimed    int                        `json:"unclaimed"`
	Suspicious   int                        `json:"suspicious"`
	Checked      int                        `json:"checked"`
	Errored      int                        `json:"errored"`
	SuccessRate  float64                    `json:"success_rate"`
	FilesScanned int                        `json:"files_scanned"`
	FilesMatched int                        `json:"files_matched"`
	FilesFailed  int                        `json:"files_failed"`
}

// Summarize computes run statistics over the merged record set.
// Either stats argument may be nil (e.g., scan without verification).
func Summarize(records []manifest.Record, scan *scanner.Stats, ver *verify.Stats) *Summary {
	s := &Summary{
		GeneratedAt:  time.Now(),
		TotalRecords: len(records),
		ByEcosystem:  make(map[manifest.Ecosystem]int),
		ByRole:       make(map[manifest.Role]int),
	}

	for _, rec := range records {
		s.ByEcosystem[rec.Ecosystem]++
		s.ByRole[rec.Role]++
		if rec.Verify == nil {
			continue
		}
		if rec.Verify.Status == manifest.StatusUnclaimed {
			s.Unclaimed++
		}
		if rec.Verify.Suspicious {
			s.Suspicious++
		}
	}

	if scan != nil {
		s.RunID = scan.RunID
		s.FilesScanned = scan.FilesScanned
		s.FilesMatched = scan.FilesMatched
		s.FilesFailed = scan.FilesFailed
	}
	if ver != nil {
		s.Checked = ver.Checked
		s.Errored = ver.Errored
		s.SuccessRate = ver.SuccessRate()
	}
	return s
}

// Report pairs the merged records with their summary for serialization.
type Report struct {
	Summary *Summary          `json:"summary"`
	Records []manifest.Record `json:"records"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// csvHeader is the column layout for WriteCSV.
var csvHeader = []string{
	"name", "version", "role", "category", "ecosystem", "source",
	"status", "suspicious", "checked_at", "detail",
}

// WriteCSV writes one row per record. Verification columns are empty
// for unverified records.
func WriteCSV(w io.Writer, records []manifest.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Name, rec.Version, string(rec.Role), rec.Category,
			string(rec.Ecosystem), rec.Source, "", "", "", "",
		}
		if v := rec.Verify; v != nil {
			row[6] = string(v.Status)
			row[7] = strconv.FormatBool(v.Suspicious)
			row[8] = v.CheckedAt.Format(time.RFC3339)
			row[9] = v.Detail
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes the report to path in the given format ("json" or
// "csv"), creating or truncating the file.
func Export(path, format string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "csv":
		return WriteCSV(f, r.Records)
	case "json", "":
		return WriteJSON(f, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
