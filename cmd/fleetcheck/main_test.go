package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sampleRecords() []*fleetcheck.InspectionRecord {
	bus := fleetcheck.DefaultVehicles()[0]
	return []*fleetcheck.InspectionRecord{
		{
			ID:            uuid.New(),
			Vehicle:       *bus,
			Date:          time.Date(2024, 5, 12, 8, 0, 0, 0, time.UTC),
			InspectorName: "João Silva",
			Results: []fleetcheck.InspectionResult{
				{ItemID: "b1", Category: fleetcheck.CategorySafety, Label: "Travões", Status: fleetcheck.StatusNOK},
				{ItemID: "b99", Category: "Retirado", Label: "Item antigo", Status: fleetcheck.StatusNOK},
			},
		},
		{
			ID:            uuid.New(),
			Vehicle:       *bus,
			Date:          time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC),
			InspectorName: "João Silva",
			Results: []fleetcheck.InspectionResult{
				{ItemID: "b1", Category: fleetcheck.CategorySafety, Label: "Travões", Status: fleetcheck.StatusOK},
			},
		},
	}
}

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReport(t *testing.T) {
	path := writeJSON(t, sampleRecords())

	out, err := execute(t, "report", path, "--timezone", "UTC")
	require.NoError(t, err)

	var got reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.NOKCount)
	assert.Equal(t, map[string]int{fleetcheck.CategorySafety: 1, "Retirado": 1}, got.CategoryIssueCounts)
	assert.Equal(t, 0.5, got.PassRate)
}

func TestReport_StrictDropsUnknownItems(t *testing.T) {
	path := writeJSON(t, sampleRecords())

	out, err := execute(t, "report", path, "--strict")
	require.NoError(t, err)

	var got reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.NOKCount)
	assert.Equal(t, map[string]int{fleetcheck.CategorySafety: 1}, got.CategoryIssueCounts)
}

func TestReport_RangeAndListResponse(t *testing.T) {
	path := writeJSON(t, map[string]any{"data": sampleRecords(), "total": 2})

	out, err := execute(t, "report", path, "--start", "2024-05-01", "--end", "2024-05-31")
	require.NoError(t, err)

	var got reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.RecentAlerts, 1)
}

func TestReport_UnboundedAlerts(t *testing.T) {
	path := writeJSON(t, sampleRecords())

	out, err := execute(t, "report", path, "--alerts", strconv.Itoa(math.MaxInt))
	require.NoError(t, err)

	var got reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.RecentAlerts, 1)
}

func TestReport_Errors(t *testing.T) {
	path := writeJSON(t, sampleRecords())

	_, err := execute(t, "report", path, "--start", "01/05/2024")
	assert.Error(t, err)

	_, err = execute(t, "report", path, "--alerts", "0")
	assert.Error(t, err)

	_, err = execute(t, "report", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "report")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := writeJSON(t, sampleRecords())
	output := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "export", path, "--start", "2024-05-01", "-o", output)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2401", rows[1][1])
}

func TestCatalogDumpAndValidate(t *testing.T) {
	out, err := execute(t, "catalog", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "[[checklists.BUS]]")

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	out, err = execute(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "BUS   10 items")
	assert.Contains(t, out, "TRAM  6 items")
	assert.True(t, strings.HasSuffix(out, "ok\n"))
}

func TestCatalogValidate_Incomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[checklists.BUS]]
id = "b1"
category = "Segurança"
label = "Travões"
`), 0o644))

	_, err := execute(t, "catalog", "validate", path)
	require.Error(t, err)
	assert.Equal(t, fleetcheck.EUNRESOLVED, fleetcheck.ErrorCode(err))
}
