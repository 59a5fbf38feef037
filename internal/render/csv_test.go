package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

func sampleRows() []domain.OccurrenceRow {
	deadline := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	return []domain.OccurrenceRow{
		{
			Number:             101,
			Title:              "Broken pump",
			Status:             "OPEN",
			ResponsibleName:    "Ivanov",
			Deadline:           &deadline,
			CreatedDate:        time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			OccurrenceTypeName: "Maintenance",
			TagName:            "urgent",
			ContactName:        "ACME",
			SalesOrderCode:     "SO-42",
		},
		{
			Number:      102,
			Title:       "Noise; with delimiter",
			Status:      "NEW",
			CreatedDate: time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleRows())
	if err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}

	if lines[0] != "Number;Title;Status;Responsible;Deadline;Created;Type;Tag;Contact;Order Code" {
		t.Errorf("unexpected header: %q", lines[0])
	}

	if !strings.Contains(lines[1], "101;Broken pump;OPEN;Ivanov;2026-04-01 18:00;2026-03-15 10:30") {
		t.Errorf("unexpected first row: %q", lines[1])
	}

	// Поле с разделителем должно быть в кавычках.
	if !strings.Contains(lines[2], `"Noise; with delimiter"`) {
		t.Errorf("delimiter not escaped: %q", lines[2])
	}
}

func TestRenderCSVEmpty(t *testing.T) {
	out, err := RenderCSV(nil)
	if err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want header only", len(lines))
	}
}

func TestRenderExcel(t *testing.T) {
	out, err := RenderExcel(sampleRows())
	if err != nil {
		t.Fatalf("RenderExcel() error = %v", err)
	}
	// XLSX — это zip-архив, начинается с "PK".
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Errorf("output does not look like an xlsx file")
	}
}

func TestFileName(t *testing.T) {
	generatedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	if got := FileName(domain.FormatCSV, generatedAt); got != "occurrence_report_2026-03-15.csv" {
		t.Errorf("FileName(csv) = %q", got)
	}
	if got := FileName(domain.FormatExcel, generatedAt); got != "occurrence_report_2026-03-15.xlsx" {
		t.Errorf("FileName(excel) = %q", got)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(domain.ReportFormat("pdf"), nil); err == nil {
		t.Fatal("Render() error = nil, want unsupported format error")
	}
}
