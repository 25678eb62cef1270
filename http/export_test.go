package http_test

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fleetops/fleetcheck"
	fchttp "github.com/fleetops/fleetcheck/http"
	"github.com/fleetops/fleetcheck/internal/export"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportInspections(t *testing.T) {
	ts := newTestServer(t)
	withHistory(ts, history())

	rec := ts.do(t, http.MethodGet, "/api/inspections/export?start=2024-05-01&end=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), fleetcheck.ContentTypeCSV))
	assert.Equal(t, `attachment; filename="inspections_2024-05-01_2024-05-31.csv"`,
		rec.Header().Get(echo.HeaderContentDisposition))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, export.BOM))
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, export.BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, "505", rows[1][1])
	assert.Equal(t, "2401", rows[2][1])
}

func TestExportInspections_OpenRange(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/inspections/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "inspections_all_all.csv")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), export.BOM))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{export.Header}, rows)
}

func TestCreateReport(t *testing.T) {
	ts := newTestServer(t)
	withHistory(ts, history())

	rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{
		Start:      "2024-05-01",
		Recipients: []string{"direcao@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[fchttp.ReportResponse](t, rec)
	assert.Equal(t, 2, resp.Records)
	assert.True(t, strings.HasPrefix(resp.Key, "reports/"))
	assert.True(t, strings.HasSuffix(resp.Key, "inspections_2024-05-01_all.csv"))
	assert.Equal(t, ts.Storage.GetURL(resp.Key), resp.URL)

	data, ok := ts.Storage.Files[resp.Key]
	require.True(t, ok)
	require.True(t, strings.HasPrefix(string(data), export.BOM))
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), export.BOM))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	require.Len(t, ts.Email.Sent, 1)
	assert.Equal(t, "report", ts.Email.Sent[0].Kind)
	assert.Equal(t, resp.URL, ts.Email.Sent[0].URL)
	assert.Equal(t, []string{"direcao@example.com"}, ts.Email.Sent[0].To)
}

func TestCreateReport_WithoutRecipients(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, ts.Storage.Files, 1)
	assert.Empty(t, ts.Email.Sent)
}

func TestReportLifecycle(t *testing.T) {
	ts := newTestServer(t)
	withHistory(ts, history())

	rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[fchttp.ReportResponse](t, rec)

	rec = ts.do(t, http.MethodGet, "/api/reports/"+created.Key, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	found := decode[fchttp.ReportResponse](t, rec)
	assert.Equal(t, created.Key, found.Key)
	assert.Equal(t, created.URL, found.URL)

	rec = ts.do(t, http.MethodDelete, "/api/reports/"+created.Key, nil, fchttp.HeaderOperator, "Carla Mendes")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.NotContains(t, ts.Storage.Files, created.Key)

	require.Len(t, ts.Audit.Entries, 1)
	entry := ts.Audit.Entries[0]
	assert.Equal(t, fleetcheck.AuditDelete, entry.Action)
	assert.Equal(t, fleetcheck.AuditResourceReport, entry.ResourceType)
	assert.Equal(t, created.Key, entry.ResourceID)
	assert.Equal(t, "Carla Mendes", entry.Actor)

	rec = ts.do(t, http.MethodGet, "/api/reports/"+created.Key, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/reports/"+created.Key, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, ts.Audit.Entries, 1)
}

func TestReport_KeyAndStorageErrors(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/reports/secret.txt",
		"/api/reports/uploads/2024/05/a.csv",
		"/api/reports/reports/2024/05/a.txt",
	} {
		rec := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	ts.Storage.ExistsFn = func(ctx context.Context, key string) (bool, error) {
		return true, nil
	}
	ts.Storage.DeleteFn = func(ctx context.Context, key string) error {
		return errors.New("access denied")
	}
	rec := ts.do(t, http.MethodDelete, "/api/reports/reports/2024/05/a.csv", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, ts.Audit.Entries)

	ts.Storage.ExistsFn = func(ctx context.Context, key string) (bool, error) {
		return false, errors.New("timeout")
	}
	rec = ts.do(t, http.MethodGet, "/api/reports/reports/2024/05/a.csv", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateReport_Errors(t *testing.T) {
	ts := newTestServer(t)

	t.Run("invalid recipient", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{
			Recipients: []string{"not-an-email"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[fchttp.ErrorResponse](t, rec)
		assert.Equal(t, "must be a valid email address", resp.Fields["recipients[0]"])
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{End: "31/05/2024"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upload failure", func(t *testing.T) {
		ts.Storage.UploadFn = func(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
			return "", errors.New("access denied")
		}
		defer func() { ts.Storage.UploadFn = nil }()

		rec := ts.do(t, http.MethodPost, "/api/reports", fchttp.CreateReportRequest{})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	assert.Empty(t, ts.Email.Sent)
}
