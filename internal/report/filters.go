package report

import (
	"fmt"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

// filterDateLayout — формат дат в параметрах фильтра.
const filterDateLayout = "2006-01-02"

// FilterOptions — параметры выборки и фильтрации записей отчёта.
type FilterOptions struct {
	// StatusFilter — статусы через запятую; пустая строка = статусы по умолчанию.
	StatusFilter string

	// Limit — максимум записей после фильтрации (0 = без ограничения).
	Limit int

	// StartDate — нижняя граница createdDate, формат "2006-01-02" (включительно).
	StartDate string

	// EndDate — верхняя граница createdDate, формат "2006-01-02" (включительно).
	EndDate string
}

// filterByDateRange оставляет записи с createdDate внутри диапазона.
//
// Границы включительные: StartDate означает >= 00:00:00.000 этого дня,
// EndDate — <= 23:59:59.999. Запись на миллисекунду позже EndDate
// не попадает. Пустая граница не ограничивает диапазон с её стороны.
func filterByDateRange(occurrences []domain.Occurrence, startDate, endDate string) ([]domain.Occurrence, error) {
	if startDate == "" && endDate == "" {
		return occurrences, nil
	}

	var lower, upper time.Time

	if startDate != "" {
		t, err := time.Parse(filterDateLayout, startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date %q: %w", startDate, err)
		}
		lower = t
	}
	if endDate != "" {
		t, err := time.Parse(filterDateLayout, endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date %q: %w", endDate, err)
		}
		upper = t.Add(24*time.Hour - time.Millisecond)
	}

	filtered := make([]domain.Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		created := o.CreatedDate.UTC()
		if startDate != "" && created.Before(lower) {
			continue
		}
		if endDate != "" && created.After(upper) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered, nil
}

// applyLimit обрезает список до limit записей. Применяется после
// фильтра по датам, не до него.
func applyLimit(occurrences []domain.Occurrence, limit int) []domain.Occurrence {
	if limit > 0 && len(occurrences) > limit {
		return occurrences[:limit]
	}
	return occurrences
}

// paginate возвращает страницу page (с нуля) размера size.
// Выход за пределы списка даёт пустую страницу, не ошибку.
func paginate(occurrences []domain.Occurrence, page, size int) []domain.Occurrence {
	start := page * size
	if start >= len(occurrences) {
		return []domain.Occurrence{}
	}
	end := start + size
	if end > len(occurrences) {
		end = len(occurrences)
	}
	return occurrences[start:end]
}
