package fleetcheck_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/fleetops/fleetcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestAggregate_Empty(t *testing.T) {
	for _, records := range [][]*fleetcheck.InspectionRecord{nil, {}} {
		stats := fleetcheck.Aggregate(records)

		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0, stats.OKCount)
		assert.Equal(t, 0, stats.NOKCount)
		assert.NotNil(t, stats.CategoryIssueCounts)
		assert.Empty(t, stats.CategoryIssueCounts)
		assert.NotNil(t, stats.RecentAlerts)
		assert.Empty(t, stats.RecentAlerts)
		assert.Zero(t, stats.PassRate())

		body, err := json.Marshal(stats)
		require.NoError(t, err)
		assert.JSONEq(t, `{"total":0,"okCount":0,"nokCount":0,"categoryIssueCounts":{},"recentAlerts":[]}`, string(body))
	}
}

func TestAggregate_Counts(t *testing.T) {
	records := []*fleetcheck.InspectionRecord{
		newRecord(t, "2023-10-26", fleetcheck.CategorySafety, fleetcheck.StatusOK, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusOK),
		newRecord(t, "2023-10-20", fleetcheck.CategoryMechanical, fleetcheck.StatusNOK, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-19", fleetcheck.CategoryInterior, fleetcheck.StatusOK, fleetcheck.StatusOK),
	}

	stats := fleetcheck.Aggregate(records)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.OKCount)
	assert.Equal(t, 2, stats.NOKCount)
	assert.Equal(t, stats.Total, stats.OKCount+stats.NOKCount)
	assert.Equal(t, map[string]int{
		fleetcheck.CategorySafety:     1,
		fleetcheck.CategoryMechanical: 2,
	}, stats.CategoryIssueCounts)
	assert.InDelta(t, 0.5, stats.PassRate(), 1e-9)
}

func TestAggregate_SameCategoryAcrossRecords(t *testing.T) {
	records := []*fleetcheck.InspectionRecord{
		newRecord(t, "2023-10-25", "Segurança", fleetcheck.StatusNOK),
		newRecord(t, "2023-10-26", "Segurança", fleetcheck.StatusNOK),
	}

	stats := fleetcheck.Aggregate(records)
	assert.Equal(t, 2, stats.CategoryIssueCounts["Segurança"])
}

func TestAggregate_MixedRecord(t *testing.T) {
	r := newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusOK)
	r.Results = append(r.Results, fleetcheck.InspectionResult{
		ItemID: "b7", Category: "Mecânica", Label: "Ruídos Anormais Motor", Status: fleetcheck.StatusNOK,
	})

	assert.Equal(t, fleetcheck.StatusNOK, fleetcheck.Classify(r))

	stats := fleetcheck.Aggregate([]*fleetcheck.InspectionRecord{r})
	assert.Equal(t, 1, stats.CategoryIssueCounts["Mecânica"])
	assert.Len(t, stats.CategoryIssueCounts, 1)
}

func TestAggregate_RecentAlerts(t *testing.T) {
	var records []*fleetcheck.InspectionRecord
	for i := 0; i < 8; i++ {
		status := fleetcheck.StatusNOK
		if i%3 == 0 {
			status = fleetcheck.StatusOK
		}
		records = append(records, newRecord(t, "2023-10-25", fleetcheck.CategoryExterior, status))
	}

	stats := fleetcheck.Aggregate(records)
	require.Equal(t, 5, stats.NOKCount)
	require.Len(t, stats.RecentAlerts, 5)

	// Input order is preserved and only NOK records are kept.
	want := []*fleetcheck.InspectionRecord{records[1], records[2], records[4], records[5], records[7]}
	assert.Equal(t, want, stats.RecentAlerts)
	for _, r := range stats.RecentAlerts {
		assert.Equal(t, fleetcheck.StatusNOK, fleetcheck.Classify(r))
	}

	limited := fleetcheck.Aggregate(records, fleetcheck.WithAlertLimit(2))
	assert.Equal(t, []*fleetcheck.InspectionRecord{records[1], records[2]}, limited.RecentAlerts)

	defaulted := fleetcheck.Aggregate(records, fleetcheck.WithAlertLimit(0))
	assert.Len(t, defaulted.RecentAlerts, fleetcheck.DefaultAlertLimit)
}

func TestAggregate_AlertLengthIsMinOfCapAndNOK(t *testing.T) {
	for nok := 0; nok <= 7; nok++ {
		var records []*fleetcheck.InspectionRecord
		for i := 0; i < nok; i++ {
			records = append(records, newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusNOK))
		}
		records = append(records, newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusOK))

		stats := fleetcheck.Aggregate(records)
		assert.Len(t, stats.RecentAlerts, min(fleetcheck.DefaultAlertLimit, stats.NOKCount))
	}
}

func TestAggregate_LargeAlertLimit(t *testing.T) {
	stats := fleetcheck.Aggregate(nil, fleetcheck.WithAlertLimit(math.MaxInt))
	assert.Empty(t, stats.RecentAlerts)
	assert.NotNil(t, stats.RecentAlerts)

	records := []*fleetcheck.InspectionRecord{
		newRecord(t, "2023-10-26", fleetcheck.CategorySafety, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusOK),
		newRecord(t, "2023-10-24", fleetcheck.CategoryExterior, fleetcheck.StatusNOK),
	}
	stats = fleetcheck.Aggregate(records, fleetcheck.WithAlertLimit(math.MaxInt))
	require.Len(t, stats.RecentAlerts, 2)
	assert.Same(t, records[0], stats.RecentAlerts[0])
	assert.Same(t, records[2], stats.RecentAlerts[1])
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []*fleetcheck.InspectionRecord{
		newRecord(t, "2023-10-26", fleetcheck.CategorySafety, fleetcheck.StatusNOK, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-25", fleetcheck.CategoryMechanical, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-24", fleetcheck.CategoryExterior, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-23", fleetcheck.CategoryInterior, fleetcheck.StatusOK),
	}

	first, err := json.Marshal(fleetcheck.Aggregate(records))
	require.NoError(t, err)
	second, err := json.Marshal(fleetcheck.Aggregate(records))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_DefensiveCounting(t *testing.T) {
	t.Run("duplicate item id counted once", func(t *testing.T) {
		r := newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusNOK)
		r.Results = append(r.Results, r.Results[0])

		stats := fleetcheck.Aggregate([]*fleetcheck.InspectionRecord{r})
		assert.Equal(t, 1, stats.CategoryIssueCounts[fleetcheck.CategorySafety])
	})

	t.Run("unknown item excluded with catalog", func(t *testing.T) {
		r := newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusNOK)
		r.Results = append(r.Results, fleetcheck.InspectionResult{
			ItemID: "x99", Category: fleetcheck.CategorySafety, Status: fleetcheck.StatusNOK,
		})
		records := []*fleetcheck.InspectionRecord{r}

		without := fleetcheck.Aggregate(records)
		assert.Equal(t, 2, without.CategoryIssueCounts[fleetcheck.CategorySafety])

		with := fleetcheck.Aggregate(records, fleetcheck.WithCatalog(fleetcheck.DefaultCatalog()))
		assert.Equal(t, 1, with.CategoryIssueCounts[fleetcheck.CategorySafety])
		assert.Equal(t, 1, with.NOKCount)
	})

	t.Run("nil records skipped", func(t *testing.T) {
		records := []*fleetcheck.InspectionRecord{nil, newRecord(t, "2023-10-25", fleetcheck.CategorySafety, fleetcheck.StatusOK)}
		stats := fleetcheck.Aggregate(records)
		assert.Equal(t, 1, stats.Total)
	})
}

func TestAggregate_NormalizesCategories(t *testing.T) {
	decomposed := norm.NFD.String("Segurança")
	require.NotEqual(t, "Segurança", decomposed)

	records := []*fleetcheck.InspectionRecord{
		newRecord(t, "2023-10-25", "Segurança", fleetcheck.StatusNOK),
		newRecord(t, "2023-10-25", decomposed, fleetcheck.StatusNOK),
		newRecord(t, "2023-10-25", " Segurança  ", fleetcheck.StatusNOK),
	}

	stats := fleetcheck.Aggregate(records)
	assert.Equal(t, map[string]int{"Segurança": 3}, stats.CategoryIssueCounts)
}

func TestFleetStats_Categories(t *testing.T) {
	stats := &fleetcheck.FleetStats{CategoryIssueCounts: map[string]int{
		"Exterior":  2,
		"Mecânica":  5,
		"Interior":  2,
		"Segurança": 1,
	}}

	assert.Equal(t, []fleetcheck.CategoryCount{
		{Category: "Mecânica", Issues: 5},
		{Category: "Exterior", Issues: 2},
		{Category: "Interior", Issues: 2},
		{Category: "Segurança", Issues: 1},
	}, stats.Categories())
}
