package domain

import "time"

// NamedRef — вложенная ссылка вида {id, name} в ответе tracker API.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Occurrence — сырая запись occurrence из tracker API.
//
// Живёт только внутри одного вызова генерации отчёта, никогда не
// сохраняется в БД.
type Occurrence struct {
	ID             int64      `json:"id"`
	Number         int64      `json:"number"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	CreatedDate    time.Time  `json:"createdDate"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Responsible    *NamedRef  `json:"responsible,omitempty"`
	OccurrenceType *NamedRef  `json:"occurrenceType,omitempty"`
	Tags           []NamedRef `json:"tags,omitempty"`
	ContactName    string     `json:"contactName,omitempty"`
	SalesOrderCode string     `json:"salesOrderCode,omitempty"`
}

// OccurrenceRow — проекция occurrence на поля отчёта.
type OccurrenceRow struct {
	Number             int64      `json:"number"`
	Title              string     `json:"title"`
	Status             string     `json:"status"`
	ResponsibleName    string     `json:"responsible_name,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	CreatedDate        time.Time  `json:"created_date"`
	OccurrenceTypeName string     `json:"occurrence_type_name,omitempty"`
	TagName            string     `json:"tag_name,omitempty"`
	ContactName        string     `json:"contact_name,omitempty"`
	SalesOrderCode     string     `json:"sales_order_code,omitempty"`
}

// Project сужает сырую запись до полей отчёта.
// Из вложенных структур берутся только имена, из tags — первый элемент.
func (o *Occurrence) Project() OccurrenceRow {
	row := OccurrenceRow{
		Number:         o.Number,
		Title:          o.Title,
		Status:         o.Status,
		Deadline:       o.Deadline,
		CreatedDate:    o.CreatedDate,
		ContactName:    o.ContactName,
		SalesOrderCode: o.SalesOrderCode,
	}

	if o.Responsible != nil {
		row.ResponsibleName = o.Responsible.Name
	}
	if o.OccurrenceType != nil {
		row.OccurrenceTypeName = o.OccurrenceType.Name
	}
	if len(o.Tags) > 0 {
		row.TagName = o.Tags[0].Name
	}

	return row
}

// ProjectOccurrences проецирует список сырых записей.
func ProjectOccurrences(occurrences []Occurrence) []OccurrenceRow {
	rows := make([]OccurrenceRow, len(occurrences))
	for i := range occurrences {
		rows[i] = occurrences[i].Project()
	}
	return rows
}
