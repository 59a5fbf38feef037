package domain

import (
	"testing"
	"time"
)

func TestProject(t *testing.T) {
	created := time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)

	occ := Occurrence{
		ID:             1,
		Number:         1042,
		Title:          "Broken pump",
		Status:         "OPEN",
		CreatedDate:    created,
		Responsible:    &NamedRef{ID: 7, Name: "J. Silva"},
		OccurrenceType: &NamedRef{ID: 3, Name: "Maintenance"},
		Tags: []NamedRef{
			{ID: 1, Name: "urgent"},
			{ID: 2, Name: "field"},
		},
		ContactName:    "ACME Corp",
		SalesOrderCode: "SO-991",
	}

	row := occ.Project()

	if row.Number != 1042 || row.Title != "Broken pump" || row.Status != "OPEN" {
		t.Errorf("base fields: %+v", row)
	}
	if row.ResponsibleName != "J. Silva" {
		t.Errorf("responsible = %q", row.ResponsibleName)
	}
	if row.OccurrenceTypeName != "Maintenance" {
		t.Errorf("type = %q", row.OccurrenceTypeName)
	}
	// Из tags берётся только первый.
	if row.TagName != "urgent" {
		t.Errorf("tag = %q, want first tag", row.TagName)
	}
	if !row.CreatedDate.Equal(created) {
		t.Errorf("created_date = %s", row.CreatedDate)
	}
}

func TestProjectMissingOptionalFields(t *testing.T) {
	occ := Occurrence{Number: 1, Title: "t", Status: "NEW"}

	row := occ.Project()

	if row.ResponsibleName != "" || row.OccurrenceTypeName != "" || row.TagName != "" {
		t.Errorf("optional fields must stay empty: %+v", row)
	}
	if row.Deadline != nil {
		t.Error("deadline must stay nil")
	}
}
