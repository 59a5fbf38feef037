package report

import (
	"testing"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

func occAt(t time.Time) domain.Occurrence {
	return domain.Occurrence{CreatedDate: t}
}

func TestFilterByDateRangeBoundaries(t *testing.T) {
	startOfDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2026, 3, 12, 23, 59, 59, 999000000, time.UTC)
	pastEnd := endOfDay.Add(time.Millisecond)

	occurrences := []domain.Occurrence{
		occAt(startOfDay),                      // ровно на нижней границе
		occAt(startOfDay.Add(-time.Millisecond)), // миллисекундой раньше
		occAt(endOfDay),                        // ровно на верхней границе
		occAt(pastEnd),                         // миллисекундой позже
	}

	filtered, err := filterByDateRange(occurrences, "2026-03-10", "2026-03-12")
	if err != nil {
		t.Fatalf("filterByDateRange() error = %v", err)
	}

	if len(filtered) != 2 {
		t.Fatalf("got %d records, want 2", len(filtered))
	}
	if !filtered[0].CreatedDate.Equal(startOfDay) {
		t.Errorf("start boundary record missing")
	}
	if !filtered[1].CreatedDate.Equal(endOfDay) {
		t.Errorf("end boundary record missing")
	}
}

func TestFilterByDateRangeOpenEnds(t *testing.T) {
	occurrences := []domain.Occurrence{
		occAt(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)),
		occAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)),
	}

	onlyStart, err := filterByDateRange(occurrences, "2026-03-01", "")
	if err != nil {
		t.Fatalf("filterByDateRange() error = %v", err)
	}
	if len(onlyStart) != 1 {
		t.Errorf("start-only filter: got %d, want 1", len(onlyStart))
	}

	onlyEnd, err := filterByDateRange(occurrences, "", "2026-03-01")
	if err != nil {
		t.Fatalf("filterByDateRange() error = %v", err)
	}
	if len(onlyEnd) != 1 {
		t.Errorf("end-only filter: got %d, want 1", len(onlyEnd))
	}

	all, err := filterByDateRange(occurrences, "", "")
	if err != nil {
		t.Fatalf("filterByDateRange() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty filter: got %d, want 2", len(all))
	}
}

func TestFilterByDateRangeInvalid(t *testing.T) {
	if _, err := filterByDateRange(nil, "10.03.2026", ""); err == nil {
		t.Error("invalid start_date accepted")
	}
	if _, err := filterByDateRange(nil, "", "not-a-date"); err == nil {
		t.Error("invalid end_date accepted")
	}
}

func TestApplyLimit(t *testing.T) {
	occurrences := make([]domain.Occurrence, 5)

	if got := applyLimit(occurrences, 3); len(got) != 3 {
		t.Errorf("limit 3: got %d", len(got))
	}
	if got := applyLimit(occurrences, 10); len(got) != 5 {
		t.Errorf("limit above length: got %d", len(got))
	}
	if got := applyLimit(occurrences, 0); len(got) != 5 {
		t.Errorf("limit 0 means unlimited: got %d", len(got))
	}
}

func TestPaginate(t *testing.T) {
	occurrences := make([]domain.Occurrence, 25)

	if got := paginate(occurrences, 0, 10); len(got) != 10 {
		t.Errorf("page 0: got %d", len(got))
	}
	if got := paginate(occurrences, 2, 10); len(got) != 5 {
		t.Errorf("last partial page: got %d", len(got))
	}
	if got := paginate(occurrences, 3, 10); len(got) != 0 {
		t.Errorf("page past the end: got %d", len(got))
	}
}
