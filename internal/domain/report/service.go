package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// ExportAttendance writes an xlsx workbook of entries in the window to w.
	ExportAttendance(ctx context.Context, req AttendanceExportRequest, w io.Writer) error
}
