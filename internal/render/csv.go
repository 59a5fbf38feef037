package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shaiso/Reporta/internal/domain"
)

// csvDelimiter — разделитель полей CSV. Точка с запятой, а не запятая:
// отчёты открываются в Excel с локалями, где запятая — десятичный знак.
const csvDelimiter = ';'

// RenderCSV возвращает отчёт в CSV: строка заголовков + строка на запись.
// Поля с разделителем, кавычками или переводом строки заключаются
// в кавычки по правилам RFC 4180.
func RenderCSV(rows []domain.OccurrenceRow) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = csvDelimiter

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for i := range rows {
		for j, col := range columns {
			record[j] = col.value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
