package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/export"
	"github.com/fleetops/fleetcheck/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CreateReportRequest is the request payload for generating a stored report.
type CreateReportRequest struct {
	Start      string   `json:"start" validate:"omitempty,date"`
	End        string   `json:"end" validate:"omitempty,date"`
	Recipients []string `json:"recipients" validate:"max=20,dive,email"`
}

// ReportResponse describes a generated report.
type ReportResponse struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Records int    `json:"records,omitempty"`
}

// reportPrefix starts every stored report key.
const reportPrefix = "reports/"

// exportFilename names a CSV export after its range, e.g.
// inspections_2024-05-01_2024-05-31.csv.
func exportFilename(r fleetcheck.DateRange) string {
	start, end := "all", "all"
	if r.Start != nil {
		start = r.Start.String()
	}
	if r.End != nil {
		end = r.End.String()
	}
	return fmt.Sprintf("inspections_%s_%s.csv", start, end)
}

// reportKey reads a stored report key from the path. Only keys issued by
// handleCreateReport are accepted.
func (s *Server) reportKey(c echo.Context) (string, error) {
	if s.fileStorage == nil {
		return "", fleetcheck.NotFound("Report storage is not configured")
	}
	key := c.Param("*")
	if !strings.HasPrefix(key, reportPrefix) || !strings.HasSuffix(key, ".csv") ||
		strings.Contains(key, "..") || strings.Contains(key, "//") {
		return "", fleetcheck.ErrorWithFields(map[string]string{"key": "must be a report key"})
	}
	return key, nil
}

func (s *Server) handleExportInspections(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	r, err := s.dateRange(c)
	if err != nil {
		return err
	}

	records, err := s.loadInspections(ctx, nil, r)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(export.BOM)
	if err := export.WriteInspections(&buf, records, s.Location); err != nil {
		return fleetcheck.Internal("Failed to write export", err)
	}

	middleware.RecordReport("csv")

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exportFilename(r)))
	return c.Blob(http.StatusOK, fleetcheck.ContentTypeCSV+"; charset=utf-8", buf.Bytes())
}

func (s *Server) handleCreateReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	if s.fileStorage == nil {
		return fleetcheck.Errorf(fleetcheck.EINTERNAL, "Report storage is not configured")
	}

	var req CreateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := s.parseDateRange(req.Start, req.End)
	if err != nil {
		return err
	}

	records, err := s.loadInspections(ctx, nil, r)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(export.BOM)
	if err := export.WriteInspections(&buf, records, s.Location); err != nil {
		return fleetcheck.Internal("Failed to write report", err)
	}

	key := fmt.Sprintf(reportPrefix+"%s/%s_%s",
		time.Now().In(s.Location).Format("2006/01"), uuid.New().String(), exportFilename(r))
	url, err := s.fileStorage.Upload(ctx, key, &buf, fleetcheck.ContentTypeCSV)
	if err != nil {
		return fleetcheck.Internal("Failed to store report", err)
	}

	middleware.RecordReport("upload")
	s.log(c).Info("report generated",
		slog.String("key", key),
		slog.Int("records", len(records)),
	)

	if len(req.Recipients) > 0 && s.emailService != nil {
		subject := fmt.Sprintf("Inspection report %s", exportFilename(r))
		if err := s.emailService.SendReport(ctx, req.Recipients, subject, url); err != nil {
			s.log(c).Error("report email failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	return RespondCreated(c, ReportResponse{Key: key, URL: url, Records: len(records)})
}

func (s *Server) handleGetReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	key, err := s.reportKey(c)
	if err != nil {
		return err
	}

	ok, err := s.fileStorage.Exists(ctx, key)
	if err != nil {
		return fleetcheck.Internal("Failed to look up report", err)
	}
	if !ok {
		return fleetcheck.NotFound("Report not found")
	}

	return RespondOK(c, ReportResponse{Key: key, URL: s.fileStorage.GetURL(key)})
}

func (s *Server) handleDeleteReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	key, err := s.reportKey(c)
	if err != nil {
		return err
	}

	ok, err := s.fileStorage.Exists(ctx, key)
	if err != nil {
		return fleetcheck.Internal("Failed to look up report", err)
	}
	if !ok {
		return fleetcheck.NotFound("Report not found")
	}

	if err := s.fileStorage.Delete(ctx, key); err != nil {
		return fleetcheck.Internal("Failed to delete report", err)
	}

	s.audit(c, fleetcheck.AuditDelete, fleetcheck.AuditResourceReport, key,
		ReportResponse{Key: key, URL: s.fileStorage.GetURL(key)}, nil)
	s.log(c).Info("report deleted", slog.String("key", key))

	return RespondNoContent(c)
}
