package render

import (
	"fmt"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/xuri/excelize/v2"
)

// sheetName — имя листа с данными отчёта.
const sheetName = "Occurrences"

// RenderExcel возвращает отчёт в XLSX: жирный заголовок с заливкой,
// фиксированные ширины колонок, автофильтр и закреплённая первая строка.
func RenderExcel(rows []domain.OccurrenceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}

		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell %d: %w", i+1, err)
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"8B5CF6"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, fmt.Errorf("last column name: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetRowHeight(sheetName, 1, 25); err != nil {
		return nil, fmt.Errorf("header row height: %w", err)
	}

	for i := range rows {
		for j, col := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", j+1, i+2, err)
			}
			if err := f.SetCellValue(sheetName, cell, col.value(&rows[i])); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return nil, fmt.Errorf("auto filter: %w", err)
	}

	// Первая строка остаётся видимой при прокрутке.
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
