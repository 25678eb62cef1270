package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fleetops/fleetcheck"
	fchttp "github.com/fleetops/fleetcheck/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busResults answers every bus checklist item OK except the given ids.
func busResults(nok ...string) []fchttp.ResultRequest {
	failed := make(map[string]bool, len(nok))
	for _, id := range nok {
		failed[id] = true
	}
	items, _ := fleetcheck.DefaultCatalog().Checklist(fleetcheck.VehicleTypeBus)
	results := make([]fchttp.ResultRequest, len(items))
	for i, item := range items {
		results[i] = fchttp.ResultRequest{ItemID: item.ID, Status: "OK"}
		if failed[item.ID] {
			results[i].Status = "NOK"
			results[i].Note = "Avaria detetada"
		}
	}
	return results
}

func TestCreateInspection_OK(t *testing.T) {
	ts := newTestServer(t)

	date := time.Date(2024, 5, 12, 8, 30, 0, 0, time.UTC)
	rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
		FleetNumber:   "2401",
		InspectorName: "João Silva",
		Date:          &date,
		Results:       busResults(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[fchttp.InspectionResponse](t, rec)
	assert.Equal(t, fleetcheck.StatusOK, resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "2401", resp.Vehicle.FleetNumber)
	assert.Empty(t, resp.AISummary)

	require.Len(t, ts.Inspections.Created, 1)
	stored := ts.Inspections.Created[0]
	assert.True(t, stored.Date.Equal(date))
	require.Len(t, stored.Results, 10)
	assert.Equal(t, fleetcheck.CategorySafety, stored.Results[0].Category)
	assert.Equal(t, "Travões (Teste Estático)", stored.Results[0].Label)

	assert.Zero(t, ts.AI.Calls)
	assert.Empty(t, ts.Email.Sent)
}

func TestCreateInspection_NOKSummarizesAndAlerts(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
		FleetNumber:   "2402",
		InspectorName: "Ana Costa",
		Results:       busResults("b3", "b7"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[fchttp.InspectionResponse](t, rec)
	assert.Equal(t, fleetcheck.StatusNOK, resp.Status)
	assert.Equal(t, "Mock summary", resp.AISummary)
	assert.False(t, resp.Date.IsZero())

	assert.Equal(t, 1, ts.AI.Calls)
	require.Len(t, ts.Email.Sent, 1)
	assert.Equal(t, "alert", ts.Email.Sent[0].Kind)
	assert.Equal(t, []string{alertRecipient}, ts.Email.Sent[0].To)
	assert.Equal(t, resp.ID.String(), ts.Email.Sent[0].RecordID)
}

func TestCreateInspection_SideEffectFailuresDoNotFail(t *testing.T) {
	ts := newTestServer(t)
	ts.AI.SummarizeInspectionFn = func(ctx context.Context, r *fleetcheck.InspectionRecord) (string, error) {
		return "", errors.New("overloaded")
	}
	ts.Email.SendMaintenanceAlertFn = func(ctx context.Context, to []string, r *fleetcheck.InspectionRecord) error {
		return errors.New("smtp down")
	}

	rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
		FleetNumber:   "2402",
		InspectorName: "Ana Costa",
		Results:       busResults("b1"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[fchttp.InspectionResponse](t, rec)
	assert.Empty(t, resp.AISummary)
	assert.Len(t, ts.Inspections.Created, 1)
}

func TestCreateInspection_Malformed(t *testing.T) {
	ts := newTestServer(t)

	results := busResults()[:9] // b10 missing
	results = append(results, fchttp.ResultRequest{ItemID: "t1", Status: "OK"})
	results[0].Status = "MAYBE"

	rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
		FleetNumber:   "2401",
		InspectorName: "João Silva",
		Results:       results,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	resp := decode[fchttp.ErrorResponse](t, rec)
	assert.Equal(t, fleetcheck.EMALFORMED, resp.Error)
	assert.Equal(t, "missing result", resp.Fields["b10"])
	assert.Equal(t, "unknown checklist item", resp.Fields["t1"])
	assert.Equal(t, "status must be OK or NOK", resp.Fields["b1"])

	assert.Empty(t, ts.Inspections.Created)
}

func TestCreateInspection_NoResults(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
		FleetNumber:   "505",
		InspectorName: "Rui Lopes",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateInspection_RequestErrors(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unknown vehicle", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
			FleetNumber:   "9999",
			InspectorName: "João Silva",
			Results:       busResults(),
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing inspector", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
			FleetNumber: "2401",
			Results:     busResults(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[fchttp.ErrorResponse](t, rec)
		assert.Contains(t, resp.Fields, "inspectorName")
	})

	t.Run("catalog missing type", func(t *testing.T) {
		ts.Catalog.FindCatalogFn = func(ctx context.Context) (*fleetcheck.Catalog, error) {
			return nil, fleetcheck.UnresolvedVehicleType(fleetcheck.VehicleTypeBus)
		}
		defer func() { ts.Catalog.FindCatalogFn = nil }()

		rec := ts.do(t, http.MethodPost, "/api/inspections", fchttp.CreateInspectionRequest{
			FleetNumber:   "2401",
			InspectorName: "João Silva",
			Results:       busResults(),
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		resp := decode[fchttp.ErrorResponse](t, rec)
		assert.Equal(t, fleetcheck.EUNRESOLVED, resp.Error)
	})

	assert.Empty(t, ts.Inspections.Created)
}

// history returns records for 2401 and 505 on three different days, newest
// first.
func history() []*fleetcheck.InspectionRecord {
	bus := fleetcheck.DefaultVehicles()[0]
	tram := fleetcheck.DefaultVehicles()[2]
	return []*fleetcheck.InspectionRecord{
		{
			ID:            uuid.New(),
			Vehicle:       *tram,
			Date:          time.Date(2024, 5, 20, 23, 30, 0, 0, time.UTC),
			InspectorName: "Rui Lopes",
			Results: []fleetcheck.InspectionResult{
				{ItemID: "t1", Category: fleetcheck.CategoryMechanical, Label: "Pantógrafo / Trolley", Status: fleetcheck.StatusNOK},
				{ItemID: "t2", Category: fleetcheck.CategorySafety, Label: "Areneiros (Nível Areia)", Status: fleetcheck.StatusNOK},
			},
		},
		{
			ID:            uuid.New(),
			Vehicle:       *bus,
			Date:          time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
			InspectorName: "João Silva",
			Results: []fleetcheck.InspectionResult{
				{ItemID: "b1", Category: fleetcheck.CategorySafety, Label: "Travões (Teste Estático)", Status: fleetcheck.StatusOK},
			},
		},
		{
			ID:            uuid.New(),
			Vehicle:       *bus,
			Date:          time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC),
			InspectorName: "João Silva",
			Results: []fleetcheck.InspectionResult{
				{ItemID: "b1", Category: fleetcheck.CategorySafety, Label: "Travões (Teste Estático)", Status: fleetcheck.StatusNOK},
			},
		},
	}
}

func withHistory(ts *testServer, records []*fleetcheck.InspectionRecord) {
	ts.Inspections.FindInspectionsFn = func(ctx context.Context, filter fleetcheck.InspectionFilter) ([]*fleetcheck.InspectionRecord, int, error) {
		var out []*fleetcheck.InspectionRecord
		for _, r := range records {
			if filter.FleetNumber != nil && r.Vehicle.FleetNumber != *filter.FleetNumber {
				continue
			}
			if filter.From != nil && r.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !r.Date.Before(*filter.To) {
				continue
			}
			out = append(out, r)
		}
		return out, len(out), nil
	}
}

func TestListInspections(t *testing.T) {
	ts := newTestServer(t)
	records := history()
	withHistory(ts, records)

	tests := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{"all", "", []uuid.UUID{records[0].ID, records[1].ID, records[2].ID}},
		{"inclusive range", "?start=2024-05-01&end=2024-05-20", []uuid.UUID{records[0].ID, records[1].ID}},
		{"open start", "?end=2024-05-10", []uuid.UUID{records[1].ID, records[2].ID}},
		{"inverted range", "?start=2024-05-20&end=2024-05-01", nil},
		{"vehicle", "?fleetNumber=2401", []uuid.UUID{records[1].ID, records[2].ID}},
		{"status", "?status=NOK", []uuid.UUID{records[0].ID, records[2].ID}},
		{"paged", "?limit=1&offset=1", []uuid.UUID{records[1].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/inspections"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[fchttp.ListResponse[fchttp.InspectionResponse]](t, rec)
			var got []uuid.UUID
			for _, r := range resp.Data {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListInspections_UsesServerLocation(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	ts := newTestServer(t, func(cfg *fchttp.Config) { cfg.Location = lisbon })
	withHistory(ts, history())

	// 23:30 UTC on May 20 is already May 21 in Lisbon summer time.
	rec := ts.do(t, http.MethodGet, "/api/inspections?start=2024-05-21", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[fchttp.ListResponse[fchttp.InspectionResponse]](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "505", resp.Data[0].Vehicle.FleetNumber)
}

func TestListInspections_InvalidQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/inspections?start=20-05-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[fchttp.ErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "start")

	rec = ts.do(t, http.MethodGet, "/api/inspections?status=MAYBE", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInspection(t *testing.T) {
	ts := newTestServer(t)
	records := history()
	ts.Inspections.FindInspectionByIDFn = func(ctx context.Context, id uuid.UUID) (*fleetcheck.InspectionRecord, error) {
		for _, r := range records {
			if r.ID == id {
				return r, nil
			}
		}
		return nil, fleetcheck.NotFound("Inspection not found")
	}

	rec := ts.do(t, http.MethodGet, "/api/inspections/"+records[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[fchttp.InspectionResponse](t, rec)
	assert.Equal(t, fleetcheck.StatusNOK, resp.Status)

	rec = ts.do(t, http.MethodGet, "/api/inspections/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/inspections/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInspections_StoreWindow(t *testing.T) {
	ts := newTestServer(t)
	var got fleetcheck.InspectionFilter
	ts.Inspections.FindInspectionsFn = func(ctx context.Context, filter fleetcheck.InspectionFilter) ([]*fleetcheck.InspectionRecord, int, error) {
		got = filter
		return []*fleetcheck.InspectionRecord{}, 0, nil
	}

	rec := ts.do(t, http.MethodGet, "/api/inspections?start=2024-05-01&end=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), *got.To)

	rec = ts.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.From)
	assert.Nil(t, got.To)
}
