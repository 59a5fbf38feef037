package render

import (
	"fmt"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

// Content types артефактов.
const (
	ContentTypeCSV   = "text/csv"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// column — колонка отчёта: заголовок и извлечение значения из строки.
type column struct {
	header string
	width  float64
	value  func(r *domain.OccurrenceRow) string
}

// columns — фиксированный набор колонок отчёта, общий для CSV и Excel.
var columns = []column{
	{"Number", 10, func(r *domain.OccurrenceRow) string { return fmt.Sprintf("%d", r.Number) }},
	{"Title", 40, func(r *domain.OccurrenceRow) string { return r.Title }},
	{"Status", 15, func(r *domain.OccurrenceRow) string { return r.Status }},
	{"Responsible", 25, func(r *domain.OccurrenceRow) string { return r.ResponsibleName }},
	{"Deadline", 20, func(r *domain.OccurrenceRow) string { return formatDate(r.Deadline) }},
	{"Created", 20, func(r *domain.OccurrenceRow) string { return formatDate(&r.CreatedDate) }},
	{"Type", 20, func(r *domain.OccurrenceRow) string { return r.OccurrenceTypeName }},
	{"Tag", 20, func(r *domain.OccurrenceRow) string { return r.TagName }},
	{"Contact", 30, func(r *domain.OccurrenceRow) string { return r.ContactName }},
	{"Order Code", 20, func(r *domain.OccurrenceRow) string { return r.SalesOrderCode }},
}

// dateLayout — формат дат в ячейках отчёта.
const dateLayout = "2006-01-02 15:04"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Render возвращает артефакт отчёта в запрошенном формате.
func Render(format domain.ReportFormat, rows []domain.OccurrenceRow) ([]byte, error) {
	switch format {
	case domain.FormatCSV:
		return RenderCSV(rows)
	case domain.FormatExcel:
		return RenderExcel(rows)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// ContentType возвращает MIME-тип артефакта формата.
func ContentType(format domain.ReportFormat) string {
	if format == domain.FormatCSV {
		return ContentTypeCSV
	}
	return ContentTypeExcel
}

// FileExt возвращает расширение файла артефакта.
func FileExt(format domain.ReportFormat) string {
	if format == domain.FormatCSV {
		return "csv"
	}
	return "xlsx"
}

// FileName строит имя файла артефакта: occurrence_report_<дата>.<ext>.
func FileName(format domain.ReportFormat, generatedAt time.Time) string {
	return fmt.Sprintf("occurrence_report_%s.%s", generatedAt.Format("2006-01-02"), FileExt(format))
}
