// Package export renders inspection history as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fleetops/fleetcheck"
)

// Header is the first row written by WriteInspections.
var Header = []string{
	"Date",
	"Fleet Number",
	"License Plate",
	"Type",
	"Station",
	"Inspector",
	"Status",
	"Failed Items",
	"Notes",
	"AI Summary",
	"Record ID",
}

// BOM marks a CSV body as UTF-8 for spreadsheet applications. It is written
// by callers serving files to people, not by WriteInspections.
const BOM = "\ufeff"

// cell neutralises text a spreadsheet would evaluate as a formula.
func cell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// WriteInspections writes one row per record in the given order. Dates are
// rendered in loc; a nil loc keeps each timestamp's own location. Free-text
// cells that start like a formula are prefixed with a single quote.
func WriteInspections(w io.Writer, records []*fleetcheck.InspectionRecord, loc *time.Location) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		if r == nil {
			continue
		}

		date := r.Date
		if loc != nil {
			date = date.In(loc)
		}

		var failed, notes []string
		for _, res := range r.FailedResults() {
			failed = append(failed, fmt.Sprintf("%s: %s", res.Category, res.Label))
		}
		for _, res := range r.Results {
			if res.Note != "" {
				notes = append(notes, fmt.Sprintf("%s: %s", res.Label, res.Note))
			}
		}

		row := []string{
			date.Format("2006-01-02 15:04"),
			cell(r.Vehicle.FleetNumber),
			cell(r.Vehicle.LicensePlate),
			r.Vehicle.Type.String(),
			cell(r.Vehicle.Station),
			cell(r.InspectorName),
			string(fleetcheck.Classify(r)),
			cell(strings.Join(failed, "; ")),
			cell(strings.Join(notes, "; ")),
			cell(r.AISummary),
			r.ID.String(),
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
