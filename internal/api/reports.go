package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leavectl/internal/model"
)

// Export formats accepted by the server.
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
)

// LeaveSummary fetches the aggregated leave report for a date range.
func (c *Client) LeaveSummary(ctx context.Context, from, to time.Time) (model.LeaveReport, error) {
	var report model.LeaveReport
	query := url.Values{}
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	req, err := c.newRequest(ctx, http.MethodGet, "/reports/leave?"+query.Encode(), nil)
	if err != nil {
		return model.LeaveReport{}, classify(err, "Failed to load report")
	}
	if err := c.do(req, &report, "Failed to load report"); err != nil {
		return model.LeaveReport{}, err
	}
	return report, nil
}

// ExportLeaveReport downloads the report as a CSV or Excel blob. The
// filename encodes the report type and date range.
func (c *Client) ExportLeaveReport(ctx context.Context, from, to time.Time, format string) ([]byte, string, error) {
	if format != FormatCSV && format != FormatExcel {
		return nil, "", &Error{Kind: KindGeneric, Message: fmt.Sprintf("unsupported export format %q", format)}
	}
	query := url.Values{}
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	query.Set("format", format)
	req, err := c.newRequest(ctx, http.MethodGet, "/reports/leave/export?"+query.Encode(), nil)
	if err != nil {
		return nil, "", classify(err, "Failed to export report")
	}
	blob, err := c.doBlob(req, "Failed to export report")
	if err != nil {
		return nil, "", err
	}
	return blob, ExportFilename("leave-report", from, to, format), nil
}

// ExportFilename computes the download name: <report>-<from>-<to>.<ext>.
func ExportFilename(report string, from, to time.Time, format string) string {
	return fmt.Sprintf("%s-%s-%s.%s", report, from.Format("2006-01-02"), to.Format("2006-01-02"), format)
}
