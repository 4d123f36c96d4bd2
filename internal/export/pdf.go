package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"leavectl/internal/model"
)

// WritePDF renders the leave summary report to a local PDF. Unlike CSV and
// Excel, which the server produces, the PDF is generated client-side from
// the fetched report data.
func WritePDF(dir, filename string, report model.LeaveReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	path := filepath.Join(dir, filename)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", report.From.Format("2006-01-02"), report.To.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 8, "Employee", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Department", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Leave Type", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Days", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.Rows {
		pdf.CellFormat(50, 7, row.UserName, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, row.Department, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, row.LeaveType, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%.1f", row.Days), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row.Status, "1", 1, "", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return path, nil
}
