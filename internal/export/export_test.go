package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"leavectl/internal/model"
)

func TestWriteBlob(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	body := []byte("name,days\nSam Staff,3\n")

	path, err := WriteBlob(dir, "leave-report.csv", body)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if path != filepath.Join(dir, "leave-report.csv") {
		t.Fatalf("unexpected path: %s", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body mismatch: %q", got)
	}
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	report := model.LeaveReport{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Rows: []model.LeaveReportRow{
			{UserName: "Sam Staff", Department: "Engineering", LeaveType: "Annual", Days: 3, Status: "approved"},
			{UserName: "Max Manager", Department: "Engineering", LeaveType: "Sick", Days: 1.5, Status: "pending"},
		},
	}

	path, err := WritePDF(dir, "leave-report.pdf", report)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a pdf")
	}
}
