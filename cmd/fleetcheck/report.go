package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/catalogfile"
	"github.com/fleetops/fleetcheck/internal/export"
	"github.com/spf13/cobra"
)

// rangeFlags are the date filter flags shared by report and export.
type rangeFlags struct {
	start    string
	end      string
	timezone string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "Europe/Lisbon", "time zone that decides which day a record falls on")
}

func (f *rangeFlags) dateRange() (fleetcheck.DateRange, error) {
	r, err := fleetcheck.ParseDateRange(f.start, f.end)
	if err != nil {
		return fleetcheck.DateRange{}, err
	}
	loc, err := time.LoadLocation(f.timezone)
	if err != nil {
		return fleetcheck.DateRange{}, fmt.Errorf("timezone %q: %w", f.timezone, err)
	}
	r.Location = loc
	return r, nil
}

// reportOutput is the JSON printed by the report command.
type reportOutput struct {
	*fleetcheck.FleetStats
	Categories []fleetcheck.CategoryCount `json:"categories"`
	PassRate   float64                    `json:"passRate"`
}

func newReportCmd() *cobra.Command {
	var (
		rf          rangeFlags
		alerts      int
		catalogPath string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "report <records.json>",
		Short: "Print fleet statistics for saved inspection records",
		Long: `Print fleet statistics as JSON for inspection records saved from
GET /api/inspections (either the list response or a bare array).

With --catalog or --strict, results whose item is not on the current
checklist of the record's vehicle type are left out of the category counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rf.dateRange()
			if err != nil {
				return err
			}
			if alerts < 1 {
				return fmt.Errorf("--alerts must be positive")
			}

			records, err := readRecordsFile(args[0])
			if err != nil {
				return err
			}

			opts := []fleetcheck.AggregateOption{fleetcheck.WithAlertLimit(alerts)}
			switch {
			case catalogPath != "":
				catalog, err := catalogfile.ReadFromFile(catalogPath)
				if err != nil {
					return err
				}
				opts = append(opts, fleetcheck.WithCatalog(catalog))
			case strict:
				opts = append(opts, fleetcheck.WithCatalog(fleetcheck.DefaultCatalog()))
			}

			stats := fleetcheck.Aggregate(fleetcheck.FilterByRange(records, r), opts...)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reportOutput{
				FleetStats: stats,
				Categories: stats.Categories(),
				PassRate:   stats.PassRate(),
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&alerts, "alerts", fleetcheck.DefaultAlertLimit, "number of recent alerts to list")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "checklist catalog TOML file to check results against")
	cmd.Flags().BoolVar(&strict, "strict", false, "check results against the built-in catalog")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		rf     rangeFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <records.json>",
		Short: "Write saved inspection records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rf.dateRange()
			if err != nil {
				return err
			}

			records, err := readRecordsFile(args[0])
			if err != nil {
				return err
			}

			records = fleetcheck.FilterByRange(records, r)
			if output == "" {
				return writeCSV(cmd.OutOrStdout(), records, r.Location)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := writeCSV(f, records, r.Location); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func writeCSV(w io.Writer, records []*fleetcheck.InspectionRecord, loc *time.Location) error {
	if err := export.WriteInspections(w, records, loc); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

func readRecordsFile(path string) ([]*fleetcheck.InspectionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// readRecords decodes a bare JSON array of records or a list response with
// the records under "data".
func readRecords(r io.Reader) ([]*fleetcheck.InspectionRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []*fleetcheck.InspectionRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var list struct {
		Data []*fleetcheck.InspectionRecord `json:"data"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("expected a JSON array of records or a list response: %w", err)
	}
	return list.Data, nil
}
